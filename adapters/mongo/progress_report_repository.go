package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

// ProgressReportRepository implements repositories.ProgressReportRepository using MongoDB
type ProgressReportRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewProgressReportRepository creates a new MongoDB progress report repository
func NewProgressReportRepository(db *mongo.Database, logger *zap.Logger) repositories.ProgressReportRepository {
	collection := db.Collection("progress_reports")

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
		{Keys: bson.D{{Key: "caregiver_id", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}, logger)

	return &ProgressReportRepository{collection: collection, logger: logger}
}

func (r *ProgressReportRepository) Save(ctx context.Context, report *entities.ProgressReport) (*entities.ProgressReport, error) {
	if report == nil {
		return nil, errors.New("progress report cannot be nil")
	}
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": report.ID}, report, options.Replace().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to save progress report", zap.Error(err), zap.String("report_id", report.ID))
		return nil, fmt.Errorf("failed to save progress report: %w", err)
	}

	saved := *report
	return &saved, nil
}

func (r *ProgressReportRepository) Delete(ctx context.Context, report *entities.ProgressReport) error {
	if report == nil {
		return errors.New("progress report cannot be nil")
	}

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": report.ID}); err != nil {
		r.logger.Error("Failed to delete progress report", zap.Error(err), zap.String("report_id", report.ID))
		return fmt.Errorf("failed to delete progress report: %w", err)
	}
	return nil
}

func (r *ProgressReportRepository) FindAll(ctx context.Context) ([]*entities.ProgressReport, error) {
	return r.find(ctx, bson.M{})
}

func (r *ProgressReportRepository) FindByPatientID(ctx context.Context, patientID string) ([]*entities.ProgressReport, error) {
	return r.find(ctx, bson.M{"patient_id": patientID})
}

func (r *ProgressReportRepository) FindByCaregiverID(ctx context.Context, caregiverID string) ([]*entities.ProgressReport, error) {
	return r.find(ctx, bson.M{"caregiver_id": caregiverID})
}

func (r *ProgressReportRepository) FindByDateBetween(ctx context.Context, start, end time.Time) ([]*entities.ProgressReport, error) {
	return r.find(ctx, dateBetween("date", start, end))
}

func (r *ProgressReportRepository) SearchReports(ctx context.Context, term string) ([]*entities.ProgressReport, error) {
	return r.find(ctx, keywordFilter(term))
}

func (r *ProgressReportRepository) find(ctx context.Context, filter bson.M) ([]*entities.ProgressReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to find progress reports", zap.Error(err))
		return nil, fmt.Errorf("failed to find progress reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := []*entities.ProgressReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		r.logger.Error("Failed to decode progress reports", zap.Error(err))
		return nil, fmt.Errorf("failed to decode progress reports: %w", err)
	}
	return reports, nil
}

// keywordFilter matches term literally and case-insensitively in summary or recommendations
func keywordFilter(term string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"summary": pattern},
		bson.M{"recommendations": pattern},
	}}
}
