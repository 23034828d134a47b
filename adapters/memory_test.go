package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/domain/repositories"
)

var (
	_ repositories.UserRepository           = (*MemoryUserRepository)(nil)
	_ repositories.PatientRepository        = (*MemoryPatientRepository)(nil)
	_ repositories.AppointmentRepository    = (*MemoryAppointmentRepository)(nil)
	_ repositories.ProgressReportRepository = (*MemoryProgressReportRepository)(nil)
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	saved, err := repo.Save(ctx, &entities.User{Username: "house", Role: entities.RoleDoctor})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	_, err = repo.Save(ctx, &entities.User{Username: "house", Role: entities.RoleNurse})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists, "duplicate username should be rejected")

	byName, err := repo.GetByUsername(ctx, "house")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byName.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	doctors, err := repo.FindByRole(ctx, entities.RoleDoctor)
	require.NoError(t, err)
	assert.Len(t, doctors, 1)

	// rename keeps the username index consistent
	saved.Username = "gregory"
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)
	_, err = repo.GetByUsername(ctx, "house")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.DeleteByID(ctx, saved.ID))
	exists, err := repo.ExistsByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPatientRepository()

	saved, err := repo.Save(ctx, &entities.Patient{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	saved.FirstName = "Changed"
	stored, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.FirstName)
}

func TestMemoryAppointmentRepository_Finders(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointmentRepository()
	base := time.Date(2030, time.January, 10, 9, 0, 0, 0, time.UTC)

	seed := []*entities.Appointment{
		{ID: "a1", DoctorID: "d1", PatientID: "p1", Location: "Room 1", Status: entities.AppointmentStatusActive, AppointmentDate: base.Add(2 * time.Hour)},
		{ID: "a2", DoctorID: "d1", PatientID: "p2", Location: "Room 2", Status: entities.AppointmentStatusCancelled, AppointmentDate: base},
		{ID: "a3", DoctorID: "d2", PatientID: "p1", Location: "Room 1", Status: entities.AppointmentStatusActive, AppointmentDate: base.Add(24 * time.Hour)},
	}
	for _, a := range seed {
		_, err := repo.Save(ctx, a)
		require.NoError(t, err)
	}

	ids := func(list []*entities.Appointment) []string {
		out := make([]string, len(list))
		for i, a := range list {
			out[i] = a.ID
		}
		return out
	}

	got, _ := repo.FindByDoctorID(ctx, "d1")
	assert.Equal(t, []string{"a2", "a1"}, ids(got), "ordered by appointment date")

	got, _ = repo.FindByPatientIDAndStatus(ctx, "p1", entities.AppointmentStatusActive)
	assert.Equal(t, []string{"a1", "a3"}, ids(got))

	got, _ = repo.FindByLocationAndDoctorID(ctx, "Room 1", "d2")
	assert.Equal(t, []string{"a3"}, ids(got))

	got, _ = repo.FindByPatientIDAndDoctorID(ctx, "p2", "d1")
	assert.Equal(t, []string{"a2"}, ids(got))

	got, _ = repo.FindByStatus(ctx, entities.AppointmentStatusCompleted)
	assert.Empty(t, got)

	// both bounds are inclusive
	got, _ = repo.FindByAppointmentDateBetween(ctx, base, base.Add(2*time.Hour))
	assert.Equal(t, []string{"a2", "a1"}, ids(got))

	assert.ErrorIs(t, repo.DeleteByID(ctx, "nope"), domain.ErrNotFound)
}

func TestMemoryProgressReportRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProgressReportRepository()
	day := time.Date(2030, time.May, 1, 0, 0, 0, 0, time.UTC)

	r1, err := repo.Save(ctx, &entities.ProgressReport{PatientID: "p1", CaregiverID: "n1", Date: day, Summary: "Slept well", Recommendations: "Keep routine"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &entities.ProgressReport{PatientID: "p2", CaregiverID: "n1", Date: day.AddDate(0, 0, 3), Summary: "Mild fever", Recommendations: "Monitor SLEEP"})
	require.NoError(t, err)

	found, _ := repo.SearchReports(ctx, "sleep")
	assert.Len(t, found, 1)

	found, _ = repo.SearchReports(ctx, "insulin")
	assert.Empty(t, found)

	found, _ = repo.SearchReports(ctx, "")
	assert.Len(t, found, 2)

	found, _ = repo.FindByCaregiverID(ctx, "n1")
	assert.Len(t, found, 2)

	found, _ = repo.FindByDateBetween(ctx, day, day)
	assert.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, r1))
	require.NoError(t, repo.Delete(ctx, r1), "deleting twice is a no-op")

	all, _ := repo.FindAll(ctx)
	assert.Len(t, all, 1)
}
