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

type PatientRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewPatientRepository creates a new MongoDB patient repository
func NewPatientRepository(db *mongo.Database, logger *zap.Logger) repositories.PatientRepository {
	collection := db.Collection("patients")

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}},
	}, logger)

	return &PatientRepository{collection: collection, logger: logger}
}

// Save implements repositories.PatientRepository
func (r *PatientRepository) Save(ctx context.Context, patient *entities.Patient) (*entities.Patient, error) {
	if patient == nil {
		return nil, errors.New("patient cannot be nil")
	}
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": patient.ID}, patient, options.Replace().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to save patient", zap.Error(err), zap.String("patient_id", patient.ID))
		return nil, fmt.Errorf("failed to save patient: %w", err)
	}

	saved := *patient
	return &saved, nil
}

// GetByID implements repositories.PatientRepository
func (r *PatientRepository) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	var patient entities.Patient
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&patient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get patient by ID", zap.Error(err), zap.String("patient_id", id))
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// ExistsByID implements repositories.PatientRepository
func (r *PatientRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ok, err := exists(ctx, r.collection, id)
	if err != nil {
		r.logger.Error("Failed to check patient existence", zap.Error(err), zap.String("patient_id", id))
		return false, fmt.Errorf("failed to check patient %s: %w", id, err)
	}
	return ok, nil
}

// FindAll implements repositories.PatientRepository
func (r *PatientRepository) FindAll(ctx context.Context) ([]*entities.Patient, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list patients", zap.Error(err))
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer cursor.Close(ctx)

	patients := []*entities.Patient{}
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("failed to decode patients: %w", err)
	}
	return patients, nil
}

// DeleteByID implements repositories.PatientRepository
func (r *PatientRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete patient", zap.Error(err), zap.String("patient_id", id))
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("Patient deleted", zap.String("patient_id", id))
	return nil
}
