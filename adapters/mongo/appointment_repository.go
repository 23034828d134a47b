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

// AppointmentRepository implements repositories.AppointmentRepository using MongoDB
type AppointmentRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewAppointmentRepository creates a new MongoDB appointment repository
func NewAppointmentRepository(db *mongo.Database, logger *zap.Logger) repositories.AppointmentRepository {
	collection := db.Collection("appointments")

	ensureIndexes(collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: 1}}},
		{Keys: bson.D{{Key: "appointment_date", Value: 1}}},
	}, logger)

	return &AppointmentRepository{collection: collection, logger: logger}
}

// Save creates or replaces an appointment
func (r *AppointmentRepository) Save(ctx context.Context, appointment *entities.Appointment) (*entities.Appointment, error) {
	if appointment == nil {
		return nil, errors.New("appointment cannot be nil")
	}
	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": appointment.ID}, appointment, options.Replace().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to save appointment", zap.Error(err), zap.String("appointment_id", appointment.ID))
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}

	r.logger.Info("Appointment saved",
		zap.String("appointment_id", appointment.ID),
		zap.String("doctor_id", appointment.DoctorID),
		zap.String("patient_id", appointment.PatientID))

	saved := *appointment
	return &saved, nil
}

// GetByID retrieves an appointment by its ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	var appointment entities.Appointment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get appointment by ID", zap.Error(err), zap.String("appointment_id", id))
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *AppointmentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ok, err := exists(ctx, r.collection, id)
	if err != nil {
		r.logger.Error("Failed to check appointment existence", zap.Error(err), zap.String("appointment_id", id))
		return false, fmt.Errorf("failed to check appointment %s: %w", id, err)
	}
	return ok, nil
}

// DeleteByID deletes an appointment
func (r *AppointmentRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete appointment", zap.Error(err), zap.String("appointment_id", id))
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}

	r.logger.Info("Appointment deleted", zap.String("appointment_id", id))
	return nil
}

func (r *AppointmentRepository) FindByDoctorID(ctx context.Context, doctorID string) ([]*entities.Appointment, error) {
	return r.find(ctx, bson.M{"doctor_id": doctorID})
}

func (r *AppointmentRepository) FindByPatientID(ctx context.Context, patientID string) ([]*entities.Appointment, error) {
	return r.find(ctx, bson.M{"patient_id": patientID})
}

func (r *AppointmentRepository) FindByLocation(ctx context.Context, location string) ([]*entities.Appointment, error) {
	return r.find(ctx, bson.M{"location": location})
}

func (r *AppointmentRepository) FindByStatus(ctx context.Context, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *AppointmentRepository) FindByPatientIDAndStatus(ctx context.Context, patientID string, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return r.find(ctx, bson.M{"patient_id": patientID, "status": status})
}

func (r *AppointmentRepository) FindByDoctorIDAndStatus(ctx context.Context, doctorID string, status entities.AppointmentStatus) ([]*entities.Appointment, error) {
	return r.find(ctx, bson.M{"doctor_id": doctorID, "status": status})
}

func (r *AppointmentRepository) FindByPatientIDAndDoctorID(ctx context.Context, patientID, doctorID string) ([]*entities.Appointment, error) {
	return r.find(ctx, bson.M{"patient_id": patientID, "doctor_id": doctorID})
}

func (r *AppointmentRepository) FindByLocationAndDoctorID(ctx context.Context, location, doctorID string) ([]*entities.Appointment, error) {
	return r.find(ctx, bson.M{"location": location, "doctor_id": doctorID})
}

func (r *AppointmentRepository) FindByAppointmentDateBetween(ctx context.Context, start, end time.Time) ([]*entities.Appointment, error) {
	return r.find(ctx, dateBetween("appointment_date", start, end))
}

func (r *AppointmentRepository) find(ctx context.Context, filter bson.M) ([]*entities.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appointment_date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to find appointments", zap.Error(err), zap.Any("filter", filter))
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := []*entities.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		r.logger.Error("Failed to decode appointments", zap.Error(err))
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

// dateBetween matches field values inside [start, end]
func dateBetween(field string, start, end time.Time) bson.M {
	return bson.M{field: bson.M{"$gte": start, "$lte": end}}
}
