package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
)

// TestRepositories_Integration requires a running PostgreSQL instance (skipped if DATABASE_URL is not set)
func TestRepositories_Integration(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("Skipping PostgreSQL integration test - DATABASE_URL not set")
	}

	ctx := context.Background()
	logger := zap.NewNop()

	client, err := NewClient(ctx, databaseURL, logger)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Pool.Exec(ctx, `TRUNCATE users, patients, appointments, progress_reports`)
	require.NoError(t, err)

	users := NewUserRepository(client.Pool, logger)
	patients := NewPatientRepository(client.Pool, logger)
	appointments := NewAppointmentRepository(client.Pool, logger)
	reports := NewProgressReportRepository(client.Pool, logger)

	t.Run("Users", func(t *testing.T) {
		doctor, err := users.Save(ctx, &entities.User{Username: "cuddy", Role: entities.RoleAdmin})
		require.NoError(t, err)

		_, err = users.Save(ctx, &entities.User{Username: "cuddy", Role: entities.RoleNurse})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		found, err := users.GetByUsername(ctx, "cuddy")
		require.NoError(t, err)
		assert.Equal(t, doctor.ID, found.ID)
		assert.Equal(t, entities.RoleAdmin, found.Role)

		_, err = users.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Appointments", func(t *testing.T) {
		patient, err := patients.Save(ctx, &entities.Patient{FirstName: "Amy", LastName: "Pond"})
		require.NoError(t, err)

		base := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
		for i := 2; i >= 0; i-- {
			a := entities.NewAppointment("doc-1", patient.ID, base.Add(time.Duration(i)*time.Hour), base)
			a.Location = "Ward B"
			_, err := appointments.Save(ctx, a)
			require.NoError(t, err)
		}

		found, err := appointments.FindByLocationAndDoctorID(ctx, "Ward B", "doc-1")
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.True(t, found[0].AppointmentDate.Before(found[1].AppointmentDate))

		inRange, err := appointments.FindByAppointmentDateBetween(ctx, base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, inRange, 2)

		active, err := appointments.FindByPatientIDAndStatus(ctx, patient.ID, entities.AppointmentStatusActive)
		require.NoError(t, err)
		assert.Len(t, active, 3)

		require.NoError(t, appointments.DeleteByID(ctx, found[0].ID))
		assert.ErrorIs(t, appointments.DeleteByID(ctx, found[0].ID), domain.ErrNotFound)
	})

	t.Run("ProgressReports", func(t *testing.T) {
		saved, err := reports.Save(ctx, &entities.ProgressReport{
			Date:            time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
			Summary:         "Mobility at 50% of baseline",
			Recommendations: "Physio twice a week",
			PatientID:       "p-1",
			CaregiverID:     "c-1",
		})
		require.NoError(t, err)

		found, err := reports.SearchReports(ctx, "PHYSIO")
		require.NoError(t, err)
		assert.Len(t, found, 1)

		found, err = reports.SearchReports(ctx, "50%")
		require.NoError(t, err)
		assert.Len(t, found, 1)

		found, err = reports.SearchReports(ctx, "%")
		require.NoError(t, err)
		assert.Len(t, found, 1, "wildcards are matched literally")

		found, err = reports.SearchReports(ctx, "_x_")
		require.NoError(t, err)
		assert.Empty(t, found)

		require.NoError(t, reports.Delete(ctx, saved))
		require.NoError(t, reports.Delete(ctx, saved))
	})
}
