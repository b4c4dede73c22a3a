package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/department"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/master/grade"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll/internal/service/master"
	"github.com/go-chi/chi/v5"
)

type MasterHandler interface {
	// Grade handlers
	CreateGrade(w http.ResponseWriter, r *http.Request)
	GetGrade(w http.ResponseWriter, r *http.Request)
	ListGrades(w http.ResponseWriter, r *http.Request)

	// Department handlers
	CreateDepartment(w http.ResponseWriter, r *http.Request)
	ListDepartments(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// ==================== GRADE HANDLERS ====================

func (h *masterHandlerImpl) CreateGrade(w http.ResponseWriter, r *http.Request) {
	var req grade.CreateGradeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.CreateGrade(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Grade created successfully", result)
}

func (h *masterHandlerImpl) GetGrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.masterService.GetGrade(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) ListGrades(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListGrades(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== DEPARTMENT HANDLERS ====================

func (h *masterHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req department.CreateDepartmentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.masterService.CreateDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created successfully", result)
}

func (h *masterHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
