package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/app4080/eldercareserver/domain"
	"github.com/app4080/eldercareserver/domain/entities"
	"github.com/app4080/eldercareserver/usecase"
)

func (h *Handler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	user, err := h.users.Register(c.Request().Context(), req.Username, req.FullName, req.Role, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "authentication_failed",
				Message: err.Error(),
			})
		}
		return h.fail(c, err)
	}

	token, expiresAt, err := h.tokens.GenerateUserToken(user)
	if err != nil {
		h.logger.Error("Failed to generate user token", zap.String("user_id", user.ID), zap.Error(err))
		return h.fail(c, err)
	}

	h.logger.Info("User authenticated successfully", zap.String("user_id", user.ID))

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

func (h *Handler) getUser(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) listUsers(c echo.Context) error {
	users, err := h.users.ListByRole(c.Request().Context(), entities.Role(c.QueryParam("role")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) createPatient(c echo.Context) error {
	var req CreatePatientRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	patient, err := h.patients.CreatePatient(c.Request().Context(), &entities.Patient{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, patient)
}

func (h *Handler) listPatients(c echo.Context) error {
	patients, err := h.patients.ListPatients(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) getPatient(c echo.Context) error {
	patient, err := h.patients.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, patient)
}

func (h *Handler) deletePatient(c echo.Context) error {
	if err := h.patients.DeletePatient(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) createAppointment(c echo.Context) error {
	var req CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	ctx := c.Request().Context()

	doctor, err := h.doctor(c, req.DoctorID)
	if err != nil {
		return h.fail(c, err)
	}

	appointment, err := h.appointments.CreateAppointment(ctx, doctor,
		&entities.Patient{ID: req.PatientID}, req.AppointmentDate, usecase.WithLocation(req.Location))
	if err != nil {
		return h.fail(c, err)
	}

	if claims, ok := ClaimsFrom(c); ok {
		h.logger.Info("Appointment booked",
			zap.String("appointment_id", appointment.ID),
			zap.String("booked_by", claims.UserID))
	}
	return c.JSON(http.StatusCreated, appointment)
}

func (h *Handler) deleteAppointment(c echo.Context) error {
	err := h.appointments.DeleteAppointment(c.Request().Context(), &entities.Appointment{ID: c.Param("id")})
	if err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// findAppointments dispatches to the finder matching the supplied query parameters
func (h *Handler) findAppointments(c echo.Context) error {
	ctx := c.Request().Context()
	doctorID := c.QueryParam("doctor_id")
	patientID := c.QueryParam("patient_id")
	location := c.QueryParam("location")
	status := entities.AppointmentStatus(c.QueryParam("status"))
	from, to := c.QueryParam("from"), c.QueryParam("to")

	has := func(v string) bool { return v != "" }
	doctor := &entities.User{ID: doctorID}
	patient := &entities.Patient{ID: patientID}

	var (
		found []*entities.Appointment
		err   error
	)
	switch {
	case has(from) || has(to):
		if has(doctorID) || has(patientID) || has(location) || has(string(status)) {
			return badRequest(c, "Invalid Parameters")
		}
		start, end, perr := parseRange(from, to)
		if perr != nil {
			return badRequest(c, perr.Error())
		}
		found, err = h.appointments.GetAppointmentByDateRange(ctx, start, end)
	case has(patientID) && has(string(status)) && !has(doctorID) && !has(location):
		found, err = h.appointments.GetAppointmentByPatientAndStatus(ctx, patient, status)
	case has(doctorID) && has(string(status)) && !has(patientID) && !has(location):
		found, err = h.appointments.GetAppointmentByDoctorAndStatus(ctx, doctor, status)
	case has(patientID) && has(doctorID) && !has(location) && !has(string(status)):
		found, err = h.appointments.GetAppointmentByPatientAndDoctor(ctx, patient, doctor)
	case has(location) && has(doctorID) && !has(patientID) && !has(string(status)):
		found, err = h.appointments.GetAppointmentByLocationAndDoctor(ctx, location, doctor)
	case has(doctorID) && !has(patientID) && !has(location) && !has(string(status)):
		if doctor, err = h.doctor(c, doctorID); err == nil {
			found, err = h.appointments.GetAppointmentByDoc(ctx, doctor)
		}
	case has(patientID) && !has(doctorID) && !has(location) && !has(string(status)):
		found, err = h.appointments.GetAppointmentByPatient(ctx, patient)
	case has(location) && !has(doctorID) && !has(patientID) && !has(string(status)):
		found, err = h.appointments.GetAppointmentByLocation(ctx, location)
	case has(string(status)) && !has(doctorID) && !has(patientID) && !has(location):
		found, err = h.appointments.GetAppointmentByStatus(ctx, status)
	default:
		return badRequest(c, "Invalid Parameters")
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

func (h *Handler) createReport(c echo.Context) error {
	var req CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	caregiverID := req.CaregiverID
	if caregiverID == "" {
		if claims, ok := ClaimsFrom(c); ok {
			caregiverID = claims.UserID
		}
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	report, err := h.reports.CreateProgressReport(c.Request().Context(), &entities.ProgressReport{
		Date:            date,
		Summary:         req.Summary,
		Recommendations: req.Recommendations,
		PatientID:       req.PatientID,
		CaregiverID:     caregiverID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, report)
}

func (h *Handler) deleteReport(c echo.Context) error {
	err := h.reports.DeleteProgressReport(c.Request().Context(), &entities.ProgressReport{ID: c.Param("id")})
	if err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// findReports serves one filter at a time; without any it returns every report
func (h *Handler) findReports(c echo.Context) error {
	ctx := c.Request().Context()
	params := c.QueryParams()

	var (
		found []*entities.ProgressReport
		err   error
	)
	switch {
	case params.Has("patient_id"):
		found, err = h.reports.GetPRbyPatient(ctx, &entities.Patient{ID: params.Get("patient_id")})
	case params.Has("caregiver_id"):
		found, err = h.reports.GetPRbyCaregiver(ctx, &entities.User{ID: params.Get("caregiver_id")})
	case params.Has("from") || params.Has("to"):
		start, end, perr := parseRange(params.Get("from"), params.Get("to"))
		if perr != nil {
			return badRequest(c, perr.Error())
		}
		found, err = h.reports.FindPRbyRange(ctx, start, end)
	case params.Has("q"):
		found, err = h.reports.KeywordSearch(ctx, params.Get("q"))
	default:
		found, err = h.reports.GetAllProgressReports(ctx)
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// doctor resolves a user id, reporting unknown ids the same way as wrong roles
func (h *Handler) doctor(c echo.Context, id string) (*entities.User, error) {
	user, err := h.users.GetUser(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.InvalidArgument("Invalid doctor")
	}
	return user, err
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, errors.New("both from and to are required")
	}
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from must be an RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("to must be an RFC 3339 timestamp")
	}
	return start, end, nil
}
