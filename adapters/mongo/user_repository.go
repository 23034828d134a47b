package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

type UserRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewUserRepository creates a new MongoDB user repository. The unique username
// index is created before returning since Save relies on it to reject duplicates.
func NewUserRepository(ctx context.Context, db *mongo.Database, logger *zap.Logger) (repositories.UserRepository, error) {
	collection := db.Collection("users")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create username index: %w", err)
	}

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}, logger)

	return &UserRepository{collection: collection, logger: logger}, nil
}

// Save implements repositories.UserRepository
func (r *UserRepository) Save(ctx context.Context, user *entities.User) (*entities.User, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("username %q: %w", user.Username, domain.ErrAlreadyExists)
		}
		r.logger.Error("Failed to save user", zap.Error(err), zap.String("user_id", user.ID))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	saved := *user
	return &saved, nil
}

// GetByID implements repositories.UserRepository
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername implements repositories.UserRepository
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// ExistsByID implements repositories.UserRepository
func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ok, err := exists(ctx, r.collection, id)
	if err != nil {
		r.logger.Error("Failed to check user existence", zap.Error(err), zap.String("user_id", id))
		return false, fmt.Errorf("failed to check user %s: %w", id, err)
	}
	return ok, nil
}

// FindByRole implements repositories.UserRepository
func (r *UserRepository) FindByRole(ctx context.Context, role entities.Role) ([]*entities.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		r.logger.Error("Failed to find users by role", zap.Error(err), zap.String("role", string(role)))
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*entities.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// DeleteByID implements repositories.UserRepository
func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete user", zap.Error(err), zap.String("user_id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var user entities.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
