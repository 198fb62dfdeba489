package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetcore/clinic-api/internal/core/ports"
)

type PatientHandler struct {
	patientService ports.PatientService
}

func NewPatientHandler(patientService ports.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

type createPatientRequest struct {
	Name       string `json:"name" validate:"required"`
	Species    string `json:"species" validate:"required"`
	Breed      string `json:"breed,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	TutorName  string `json:"tutor_name" validate:"required"`
	TutorPhone string `json:"tutor_phone,omitempty"`
}

// Create admits a new patient into the caller's clinic.
//
// @Summary      Admit a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient details"
// @Success      201   {object}  domain.Patient
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	_, tenantID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var birthDate time.Time
	if req.BirthDate != "" {
		birthDate, err = time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		}
	}

	patient, err := h.patientService.Create(c.Request().Context(), ports.CreatePatientInput{
		TenantID:   tenantID,
		Name:       req.Name,
		Species:    req.Species,
		Breed:      req.Breed,
		BirthDate:  birthDate,
		TutorName:  req.TutorName,
		TutorPhone: req.TutorPhone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, patient)
}

// Get returns one patient by record number, scoped to the caller's clinic.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        recordNumber  path      string  true  "Patient record number"
// @Success      200           {object}  domain.Patient
// @Failure      404           {object}  map[string]string
// @Router       /patients/{recordNumber} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	_, tenantID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	patient, err := h.patientService.GetByRecordNumber(c.Request().Context(), tenantID, c.Param("recordNumber"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

// List returns one page of the caller's clinic registry.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {object}  ports.PatientList
// @Router       /patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	_, tenantID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseInt(c.QueryParam("offset"), 10, 64)

	list, err := h.patientService.List(c.Request().Context(), tenantID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
