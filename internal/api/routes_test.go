package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/adapters"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/internal/auth"
	"github.com/app4080/eldercareserver/usecase"
)

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func newTestServer(t *testing.T, loginBurst int) *testServer {
	t.Helper()
	logger := zap.NewNop()

	userRepo := adapters.NewMemoryUserRepository()
	patientRepo := adapters.NewMemoryPatientRepository()
	patients := usecase.NewPatientService(patientRepo, logger)

	services := Services{
		Users:        usecase.NewUserService(userRepo, logger),
		Patients:     patients,
		Appointments: usecase.NewAppointmentService(adapters.NewMemoryAppointmentRepository(), patients, logger),
		Reports: usecase.NewProgressReportService(
			adapters.NewMemoryProgressReportRepository(), patientRepo, userRepo, logger),
	}

	limiter := NewRateLimiter(0.001, loginBurst)
	t.Cleanup(limiter.Close)

	e := echo.New()
	InitRoutes(e, services, auth.NewTokenIssuer("test-secret", time.Hour), limiter, logger)
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if s.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// login registers a doctor and authenticates as them
func (s *testServer) login() *entities.User {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/users/register",
		`{"username":"house","full_name":"Gregory House","role":"doctor","password":"vicodin123"}`)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(s.t, rec.Body.String(), "password")

	rec = s.do(http.MethodPost, "/api/v1/users/login", `{"username":"house","password":"vicodin123"}`)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[LoginResponse](s.t, rec)
	require.NotEmpty(s.t, resp.Token)
	s.token = resp.Token
	return resp.User
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 10)
	rec := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.do(http.MethodGet, "/api/v1/patients", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.token = "garbage"
	rec = s.do(http.MethodGet, "/api/v1/patients", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, 10)
	s.login()

	s.token = ""
	rec := s.do(http.MethodPost, "/api/v1/users/login", `{"username":"house","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode[ErrorResponse](t, rec).Message)

	rec = s.do(http.MethodPost, "/api/v1/users/register",
		`{"username":"house","role":"nurse","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/users/register",
		`{"username":"wilson","role":"oncologist","password":"password123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid role", decode[ErrorResponse](t, rec).Message)
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t, 2)

	body := `{"username":"nobody","password":"whatever"}`
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/users/login", body).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/users/login", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/v1/users/login", body).Code)
}

func TestUsers(t *testing.T) {
	s := newTestServer(t, 10)
	me := s.login()

	rec := s.do(http.MethodGet, "/api/v1/users/"+me.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "house", decode[entities.User](t, rec).Username)

	rec = s.do(http.MethodGet, "/api/v1/users/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/users?role=doctor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entities.User](t, rec), 1)
}

func TestAppointmentsFlow(t *testing.T) {
	s := newTestServer(t, 10)
	doctor := s.login()

	rec := s.do(http.MethodPost, "/api/v1/patients", `{"first_name":"Rebecca","last_name":"Adler"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	patient := decode[entities.Patient](t, rec)

	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	past := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)

	rec = s.do(http.MethodPost, "/api/v1/appointments",
		`{"doctor_id":"`+doctor.ID+`","patient_id":"`+patient.ID+`","appointment_date":"`+future+`","location":"Clinic"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appointment := decode[entities.Appointment](t, rec)
	assert.Equal(t, entities.AppointmentStatusActive, appointment.Status)
	assert.Equal(t, "Clinic", appointment.Location)

	rec = s.do(http.MethodPost, "/api/v1/appointments",
		`{"doctor_id":"`+doctor.ID+`","patient_id":"`+patient.ID+`","appointment_date":"`+past+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid date", decode[ErrorResponse](t, rec).Message)

	rec = s.do(http.MethodPost, "/api/v1/appointments",
		`{"doctor_id":"ghost","patient_id":"`+patient.ID+`","appointment_date":"`+future+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid doctor", decode[ErrorResponse](t, rec).Message)

	queries := []string{
		"doctor_id=" + doctor.ID,
		"patient_id=" + patient.ID,
		"location=Clinic",
		"status=active",
		"patient_id=" + patient.ID + "&status=active",
		"doctor_id=" + doctor.ID + "&status=active",
		"patient_id=" + patient.ID + "&doctor_id=" + doctor.ID,
		"location=Clinic&doctor_id=" + doctor.ID,
		"from=" + past + "&to=" + future,
	}
	for _, q := range queries {
		rec = s.do(http.MethodGet, "/api/v1/appointments?"+q, "")
		require.Equal(t, http.StatusOK, rec.Code, q)
		found := decode[[]entities.Appointment](t, rec)
		require.Len(t, found, 1, q)
		assert.Equal(t, appointment.ID, found[0].ID, q)
	}

	rec = s.do(http.MethodGet, "/api/v1/appointments", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Parameters", decode[ErrorResponse](t, rec).Message)

	rec = s.do(http.MethodGet, "/api/v1/appointments?status=pending", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/appointments/"+appointment.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/appointments/"+appointment.ID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Appointment", decode[ErrorResponse](t, rec).Message)
}

func TestReportsFlow(t *testing.T) {
	s := newTestServer(t, 10)
	me := s.login()

	rec := s.do(http.MethodPost, "/api/v1/patients", `{"first_name":"Lucas","last_name":"Douglas"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	patient := decode[entities.Patient](t, rec)

	rec = s.do(http.MethodPost, "/api/v1/reports",
		`{"date":"2025-01-02T00:00:00Z","summary":"Mild FEVER","recommendations":"Fluids","patient_id":"`+patient.ID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	report := decode[entities.ProgressReport](t, rec)
	assert.Equal(t, me.ID, report.CaregiverID, "caregiver defaults to the caller")

	for _, q := range []string{
		"",
		"?patient_id=" + patient.ID,
		"?caregiver_id=" + me.ID,
		"?from=2025-01-01T00:00:00Z&to=2025-01-02T00:00:00Z",
		"?q=fever",
		"?q=",
	} {
		rec = s.do(http.MethodGet, "/api/v1/reports"+q, "")
		require.Equal(t, http.StatusOK, rec.Code, q)
		assert.Len(t, decode[[]entities.ProgressReport](t, rec), 1, q)
	}

	rec = s.do(http.MethodGet, "/api/v1/reports?patient_id=ghost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Patient not found", decode[ErrorResponse](t, rec).Message)

	rec = s.do(http.MethodGet, "/api/v1/reports?caregiver_id=ghost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nurse not found", decode[ErrorResponse](t, rec).Message)

	rec = s.do(http.MethodGet, "/api/v1/reports?from=yesterday&to=today", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/reports/"+report.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodDelete, "/api/v1/reports/"+report.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPatients(t *testing.T) {
	s := newTestServer(t, 10)
	s.login()

	rec := s.do(http.MethodPost, "/api/v1/patients", `{"first_name":"","last_name":"Nobody"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/patients", `{"first_name":"Stacy","last_name":"Warner"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	patient := decode[entities.Patient](t, rec)

	rec = s.do(http.MethodGet, "/api/v1/patients/"+patient.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/patients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entities.Patient](t, rec), 1)

	rec = s.do(http.MethodDelete, "/api/v1/patients/"+patient.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/patients/"+patient.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/patients/"+patient.ID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindAppointmentsByStatusCombinations(t *testing.T) {
	s := newTestServer(t, 10)
	doctor := s.login()

	rec := s.do(http.MethodPost, "/api/v1/patients", `{"first_name":"Allison","last_name":"Cameron"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	patient := decode[entities.Patient](t, rec)

	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	rec = s.do(http.MethodPost, "/api/v1/appointments",
		`{"doctor_id":"`+doctor.ID+`","patient_id":"`+patient.ID+`","appointment_date":"`+future+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appointment := decode[entities.Appointment](t, rec)

	tests := []struct {
		query string
		code  int
		want  int
	}{
		{"patient_id=" + patient.ID + "&status=active", http.StatusOK, 1},
		{"patient_id=" + patient.ID + "&status=completed", http.StatusOK, 0},
		{"doctor_id=" + doctor.ID + "&status=active", http.StatusOK, 1},
		{"doctor_id=" + doctor.ID + "&status=cancelled", http.StatusOK, 0},
		{"doctor_id=" + doctor.ID + "&status=pending", http.StatusBadRequest, 0},
		{"patient_id=" + patient.ID + "&doctor_id=" + doctor.ID + "&status=active", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/api/v1/appointments?"+tt.query, "")
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				return
			}
			found := decode[[]entities.Appointment](t, rec)
			require.Len(t, found, tt.want)
			if tt.want > 0 {
				assert.Equal(t, appointment.ID, found[0].ID)
			}
		})
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.do(http.MethodPost, "/api/v1/users/register",
		`{"username":"chase","role":"doctor","password":"`+strings.Repeat("x", 80)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at most 72 bytes", decode[ErrorResponse](t, rec).Message)
}
