package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type PayrollHandler interface {
	// Overtime rules
	GetOvertimeRule(w http.ResponseWriter, r *http.Request)
	UpsertOvertimeRule(w http.ResponseWriter, r *http.Request)
	ListOvertimeRules(w http.ResponseWriter, r *http.Request)

	// Overtime adjustments
	CreateOvertimeAdjustment(w http.ResponseWriter, r *http.Request)
	ListOvertimeAdjustments(w http.ResponseWriter, r *http.Request)
	PreviewOvertimeRate(w http.ResponseWriter, r *http.Request)

	// Compensation records
	CreateAllowance(w http.ResponseWriter, r *http.Request)
	ListAllowances(w http.ResponseWriter, r *http.Request)
	CreateBonus(w http.ResponseWriter, r *http.Request)
	ListBonuses(w http.ResponseWriter, r *http.Request)
	CreateDeduction(w http.ResponseWriter, r *http.Request)
	UpdateDeductionStatus(w http.ResponseWriter, r *http.Request)
	ListDeductions(w http.ResponseWriter, r *http.Request)
	ListReimbursements(w http.ResponseWriter, r *http.Request)

	// Aggregation
	GetSummary(w http.ResponseWriter, r *http.Request)
	ListEarnings(w http.ResponseWriter, r *http.Request)

	// Compensation batches
	PreviewCompensation(w http.ResponseWriter, r *http.Request)
	ApplyCompensation(w http.ResponseWriter, r *http.Request)

	// Payroll cycles
	RunPayroll(w http.ResponseWriter, r *http.Request)
	ListCycles(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== OVERTIME RULES ==========

func (h *payrollHandlerImpl) GetOvertimeRule(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetOvertimeRule(r.Context(), chi.URLParam(r, "gradeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpsertOvertimeRule(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpsertOvertimeRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.GradeID = chi.URLParam(r, "gradeId")

	result, err := h.payrollService.UpsertOvertimeRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rule saved", result)
}

func (h *payrollHandlerImpl) ListOvertimeRules(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListOvertimeRules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== OVERTIME ADJUSTMENTS ==========

func (h *payrollHandlerImpl) CreateOvertimeAdjustment(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateOvertimeAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateOvertimeAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime adjustment recorded", result)
}

func (h *payrollHandlerImpl) ListOvertimeAdjustments(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListOvertimeAdjustments(r.Context(), queryString(r, "employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PreviewOvertimeRate resolves the rate an adjustment would be frozen at.
// A missing hours value is left at zero so validation reports it.
func (h *payrollHandlerImpl) PreviewOvertimeRate(w http.ResponseWriter, r *http.Request) {
	hours, err := queryDecimal(r, "hours")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	rate, err := queryDecimal(r, "rate")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	var qty decimal.Decimal
	if hours != nil {
		qty = *hours
	}

	employeeID := r.URL.Query().Get("employee_id")
	result, err := h.payrollService.ResolveRateForAdjustment(r.Context(), employeeID, queryString(r, "grade_id"), rate, qty)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewOvertimeRatePreviewResponse(employeeID, qty, result))
}

// ========== COMPENSATION RECORDS ==========

func (h *payrollHandlerImpl) CreateAllowance(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateAllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateAllowance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Allowance created successfully", result)
}

func (h *payrollHandlerImpl) ListAllowances(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.ListAllowances(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CreateBonus(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateBonus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bonus created successfully", result)
}

func (h *payrollHandlerImpl) ListBonuses(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.ListBonuses(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CreateDeduction(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deduction created successfully", result)
}

func (h *payrollHandlerImpl) UpdateDeductionStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateDeductionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.UpdateDeductionStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Deduction status updated", result)
}

func (h *payrollHandlerImpl) ListDeductions(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.ListDeductions(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListReimbursements(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.ListReimbursements(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== AGGREGATION ==========

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := requiredPeriod(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.Summarize(r.Context(), payroll.SummaryRequest{
		Month:  month,
		Year:   year,
		Filter: employeeFilterFromQuery(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListEarnings(w http.ResponseWriter, r *http.Request) {
	month, err := queryInt(r, "month")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.payrollService.ListEarnings(r.Context(), payroll.EarningsRequest{
		Month:  month,
		Year:   year,
		Filter: employeeFilterFromQuery(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== COMPENSATION BATCHES ==========

func (h *payrollHandlerImpl) PreviewCompensation(w http.ResponseWriter, r *http.Request) {
	var req payroll.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewCompensation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ApplyCompensation(w http.ResponseWriter, r *http.Request) {
	var req payroll.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ApplyCompensation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, fmt.Sprintf("Applied %s to %d employees", req.Type, result.AppliedCount), result)
}

// ========== PAYROLL CYCLES ==========

func (h *payrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RunForPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", result)
}

func (h *payrollHandlerImpl) ListCycles(w http.ResponseWriter, r *http.Request) {
	var filter payroll.CycleFilter

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	month, err := queryInt(r, "month")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	filter.Month = month
	filter.Year = year
	filter.EmployeeID = queryString(r, "employee_id")
	filter.GeneratedBy = queryString(r, "generated_by")

	result, err := h.payrollService.ListCycles(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Cycles, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	month, year, err := requiredPeriod(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	doc, err := h.payrollService.GeneratePayslip(r.Context(), payroll.PayslipRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      month,
		Year:       year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, "application/pdf", doc.Filename, doc.Content)
}
