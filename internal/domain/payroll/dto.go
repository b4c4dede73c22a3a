package payroll

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ========== SHARED ==========

// RecordFilter narrows record listings. Month and Year must be given
// together; for dated records they match the effective date, for
// reimbursements the tagged period.
type RecordFilter struct {
	EmployeeID *string
	Month      *int
	Year       *int
}

func (f RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if (f.Month == nil) != (f.Year == nil) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month and year must be provided together"})
	}
	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if f.Year != nil && !validator.IsValidYear(*f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 1900 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(errs validator.ValidationErrors, monthField string, month int, yearField string, year int) validator.ValidationErrors {
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: monthField, Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: yearField, Message: "must be 1900 or later"})
	}
	return errs
}

func mergeErrors(errs validator.ValidationErrors, err error) validator.ValidationErrors {
	var more validator.ValidationErrors
	if errors.As(err, &more) {
		errs = append(errs, more...)
	}
	return errs
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// ========== OVERTIME RULE DTOs ==========

type UpsertOvertimeRuleRequest struct {
	GradeID  string           `json:"-"`
	Rate     *decimal.Decimal `json:"rate"`
	MaxHours *decimal.Decimal `json:"max_hours"`
}

func (r *UpsertOvertimeRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.GradeID) {
		errs = append(errs, validator.ValidationError{Field: "grade_id", Message: "grade_id must be a valid UUID"})
	}
	if r.Rate == nil {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "rate is required"})
	} else if r.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "rate must be non-negative"})
	}
	if r.MaxHours == nil {
		errs = append(errs, validator.ValidationError{Field: "max_hours", Message: "max_hours is required"})
	} else if r.MaxHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "max_hours", Message: "max_hours must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OvertimeRuleResponse struct {
	ID        string          `json:"id"`
	GradeID   string          `json:"grade_id"`
	GradeName *string         `json:"grade_name,omitempty"`
	Rate      decimal.Decimal `json:"rate"`
	MaxHours  decimal.Decimal `json:"max_hours"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewOvertimeRuleResponse(r OvertimeRule) OvertimeRuleResponse {
	return OvertimeRuleResponse{
		ID:        r.ID,
		GradeID:   r.GradeID,
		GradeName: r.GradeName,
		Rate:      r.Rate,
		MaxHours:  r.MaxHours,
		UpdatedAt: r.UpdatedAt,
	}
}

// ========== OVERTIME ADJUSTMENT DTOs ==========

type RateSource string

const (
	RateSourceExplicit RateSource = "explicit"
	RateSourceRule     RateSource = "rule"
)

// RateResolution is the rate an adjustment will be frozen at.
type RateResolution struct {
	Rate    decimal.Decimal
	GradeID *string
	Source  RateSource
	Rule    *OvertimeRule
}

// OvertimeRatePreviewResponse shows the rate and amount an adjustment would
// be stored with, without storing it.
type OvertimeRatePreviewResponse struct {
	EmployeeID string           `json:"employee_id"`
	GradeID    *string          `json:"grade_id,omitempty"`
	Hours      decimal.Decimal  `json:"hours"`
	Rate       decimal.Decimal  `json:"rate"`
	Amount     decimal.Decimal  `json:"amount"`
	RateSource RateSource       `json:"rate_source"`
	MaxHours   *decimal.Decimal `json:"max_hours,omitempty"`
}

func NewOvertimeRatePreviewResponse(employeeID string, hours decimal.Decimal, res RateResolution) OvertimeRatePreviewResponse {
	out := OvertimeRatePreviewResponse{
		EmployeeID: employeeID,
		GradeID:    res.GradeID,
		Hours:      hours,
		Rate:       res.Rate,
		Amount:     hours.Mul(res.Rate).Round(2),
		RateSource: res.Source,
	}
	if res.Rule != nil {
		out.MaxHours = &res.Rule.MaxHours
	}
	return out
}

type CreateOvertimeAdjustmentRequest struct {
	EmployeeID    string           `json:"employee_id"`
	GradeID       *string          `json:"grade_id,omitempty"`
	Hours         decimal.Decimal  `json:"hours"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	Reason        *string          `json:"reason,omitempty"`
	EffectiveDate *string          `json:"effective_date,omitempty"`
}

func (r *CreateOvertimeAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if r.GradeID != nil && !validator.IsValidUUID(*r.GradeID) {
		errs = append(errs, validator.ValidationError{Field: "grade_id", Message: "grade_id must be a valid UUID"})
	}
	if !r.Hours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "hours must be greater than 0"})
	}
	if r.Rate != nil && r.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "rate must be non-negative"})
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OvertimeAdjustmentResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	GradeID       *string         `json:"grade_id,omitempty"`
	Hours         decimal.Decimal `json:"hours"`
	Rate          decimal.Decimal `json:"rate"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        *string         `json:"reason,omitempty"`
	EffectiveDate string          `json:"effective_date"`
	RateSource    RateSource      `json:"rate_source,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewOvertimeAdjustmentResponse(a OvertimeAdjustment) OvertimeAdjustmentResponse {
	return OvertimeAdjustmentResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		GradeID:       a.GradeID,
		Hours:         a.Hours,
		Rate:          a.Rate,
		Amount:        a.Amount().Round(2),
		Reason:        a.Reason,
		EffectiveDate: formatDate(a.EffectiveDate),
		CreatedAt:     a.CreatedAt,
	}
}

// ========== ALLOWANCE DTOs ==========

type CreateAllowanceRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Description   string          `json:"description"`
	Category      *string         `json:"category,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Taxable       bool            `json:"taxable"`
	Frequency     *string         `json:"frequency,omitempty"`
	EffectiveFrom *string         `json:"effective_from,omitempty"`
	EffectiveTo   *string         `json:"effective_to,omitempty"`
	Status        *RecordStatus   `json:"status,omitempty"`
}

func (r *CreateAllowanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description is required"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be non-negative"})
	}
	if r.Status != nil && *r.Status != StatusActive && *r.Status != StatusInactive {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be Active or Inactive"})
	}

	var from, to time.Time
	var hasFrom, hasTo bool
	if r.EffectiveFrom != nil {
		if from, hasFrom = validator.IsValidDate(*r.EffectiveFrom); !hasFrom {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be in YYYY-MM-DD format"})
		}
	}
	if r.EffectiveTo != nil {
		if to, hasTo = validator.IsValidDate(*r.EffectiveTo); !hasTo {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must be in YYYY-MM-DD format"})
		}
	}
	if hasFrom && hasTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must not be before effective_from"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AllowanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Taxable       bool            `json:"taxable"`
	Frequency     string          `json:"frequency"`
	EffectiveFrom *string         `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to"`
	Status        RecordStatus    `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewAllowanceResponse(a Allowance) AllowanceResponse {
	return AllowanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		Description:   a.Name,
		Category:      a.Category,
		Amount:        a.Amount,
		Taxable:       a.Taxable,
		Frequency:     a.Frequency,
		EffectiveFrom: formatDatePtr(a.EffectiveFrom),
		EffectiveTo:   formatDatePtr(a.EffectiveTo),
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
	}
}

// ========== BONUS DTOs ==========

type CreateBonusRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        *string         `json:"reason,omitempty"`
	Kind          *BonusKind      `json:"kind,omitempty"`
	EffectiveDate string          `json:"effective_date"`
}

func (r *CreateBonusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	kind := BonusKindBonus
	if r.Kind != nil {
		kind = *r.Kind
		if !validator.IsOneOf(kind, BonusKindBonus, BonusKindArrears, BonusKindCorrection) {
			errs = append(errs, validator.ValidationError{Field: "kind", Message: "kind must be Bonus, Arrears or Correction"})
		}
	}
	if r.Amount.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount is required"})
	} else if r.Amount.IsNegative() && kind != BonusKindCorrection {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "only corrections may be negative"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BonusResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        *string         `json:"reason,omitempty"`
	Kind          BonusKind       `json:"kind"`
	EffectiveDate string          `json:"effective_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewBonusResponse(b Bonus) BonusResponse {
	return BonusResponse{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		EmployeeName:  b.EmployeeName,
		Amount:        b.Amount,
		Reason:        b.Reason,
		Kind:          b.Kind,
		EffectiveDate: formatDate(b.EffectiveDate),
		CreatedAt:     b.CreatedAt,
	}
}

// ========== DEDUCTION DTOs ==========

var deductionTypes = []DeductionType{
	DeductionTax, DeductionStatutory, DeductionInsurance, DeductionLoan, DeductionOther,
}

type CreateDeductionRequest struct {
	EmployeeID    string           `json:"employee_id"`
	Name          string           `json:"name"`
	Type          DeductionType    `json:"type"`
	Basis         DeductionBasis   `json:"basis"`
	Percent       *decimal.Decimal `json:"percent,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	EffectiveDate string           `json:"effective_date"`
	Status        *RecordStatus    `json:"status,omitempty"`
}

func (r *CreateDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsOneOf(r.Type, deductionTypes...) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of Tax, Statutory, Insurance, Loan, Other"})
	}
	switch r.Basis {
	case BasisPercent:
		if r.Percent == nil {
			errs = append(errs, validator.ValidationError{Field: "percent", Message: "percent is required for Percent basis"})
		} else if r.Percent.IsNegative() || r.Percent.GreaterThan(hundred) {
			errs = append(errs, validator.ValidationError{Field: "percent", Message: "percent must be between 0 and 100"})
		}
		if r.Amount != nil {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be empty for Percent basis"})
		}
	case BasisFixed:
		if r.Amount == nil {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount is required for Fixed basis"})
		} else if r.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be non-negative"})
		}
		if r.Percent != nil {
			errs = append(errs, validator.ValidationError{Field: "percent", Message: "percent must be empty for Fixed basis"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "basis", Message: "basis must be Fixed or Percent"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be in YYYY-MM-DD format"})
	}
	if r.Status != nil && *r.Status != StatusActive && *r.Status != StatusInactive {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be Active or Inactive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDeductionStatusRequest struct {
	ID     string       `json:"-"`
	Status RecordStatus `json:"status"`
}

func (r *UpdateDeductionStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Status != StatusActive && r.Status != StatusInactive {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be Active or Inactive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeductionResponse struct {
	ID            string           `json:"id"`
	EmployeeID    string           `json:"employee_id"`
	EmployeeName  *string          `json:"employee_name,omitempty"`
	Name          string           `json:"name"`
	Type          DeductionType    `json:"type"`
	Basis         DeductionBasis   `json:"basis"`
	Percent       *decimal.Decimal `json:"percent"`
	Amount        *decimal.Decimal `json:"amount"`
	Status        RecordStatus     `json:"status"`
	EffectiveDate string           `json:"effective_date"`
	CreatedAt     time.Time        `json:"created_at"`
}

func NewDeductionResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:            d.ID,
		EmployeeID:    d.EmployeeID,
		EmployeeName:  d.EmployeeName,
		Name:          d.Name,
		Type:          d.Type,
		Basis:         d.Basis,
		Percent:       d.Percent,
		Amount:        d.Amount,
		Status:        d.Status,
		EffectiveDate: formatDate(d.EffectiveDate),
		CreatedAt:     d.CreatedAt,
	}
}

// ========== REIMBURSEMENT DTOs ==========

type ReimbursementResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	Note         *string         `json:"note,omitempty"`
	PeriodMonth  int             `json:"period_month"`
	PeriodYear   int             `json:"period_year"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewReimbursementResponse(r Reimbursement) ReimbursementResponse {
	return ReimbursementResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Amount:       r.Amount,
		Category:     r.Category,
		Note:         r.Note,
		PeriodMonth:  r.PeriodMonth,
		PeriodYear:   r.PeriodYear,
		CreatedAt:    r.CreatedAt,
	}
}

// ========== SUMMARY DTOs ==========

type SummaryRequest struct {
	Month  int
	Year   int
	Filter employee.EmployeeFilter
}

func (r *SummaryRequest) Validate() error {
	errs := validatePeriod(nil, "month", r.Month, "year", r.Year)
	errs = mergeErrors(errs, r.Filter.Validate())

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EmployeeSummary is one employee's folded payroll for a period.
type EmployeeSummary struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	Department   *string `json:"department,omitempty"`
	Totals
}

// EarningsRequest leaves Month and Year nil to use the current month.
type EarningsRequest struct {
	Month  *int
	Year   *int
	Filter employee.EmployeeFilter
}

func (r *EarningsRequest) Validate() error {
	errs := mergeErrors(nil, RecordFilter{Month: r.Month, Year: r.Year}.Validate())
	errs = mergeErrors(errs, r.Filter.Validate())

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EarningsRow struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode string          `json:"employee_code"`
	Name         string          `json:"name"`
	Department   string          `json:"department"`
	BasicSalary  decimal.Decimal `json:"basic_salary"`
	Allowances   decimal.Decimal `json:"allowances"`
	Overtime     decimal.Decimal `json:"overtime"`
	Bonus        decimal.Decimal `json:"bonus"`
	Gross        decimal.Decimal `json:"gross"`
}

// ========== COMPENSATION BATCH DTOs ==========

type CompensationType string

const (
	CompensationBonus         CompensationType = "Bonus"
	CompensationArrears       CompensationType = "Arrears"
	CompensationCorrection    CompensationType = "Correction"
	CompensationAllowance     CompensationType = "Allowance"
	CompensationReimbursement CompensationType = "Reimbursement"
)

// BonusKind maps bonus-family compensation types to the stored kind.
func (t CompensationType) BonusKind() (BonusKind, bool) {
	switch t {
	case CompensationBonus:
		return BonusKindBonus, true
	case CompensationArrears:
		return BonusKindArrears, true
	case CompensationCorrection:
		return BonusKindCorrection, true
	default:
		return "", false
	}
}

type BatchMode string

const (
	ModeFixed   BatchMode = "fixed"
	ModePercent BatchMode = "percent"
)

const DefaultBatchCategory = "Batch"

var compensationTypes = []CompensationType{
	CompensationBonus, CompensationArrears, CompensationCorrection,
	CompensationAllowance, CompensationReimbursement,
}

// BatchRequest targets either explicit EmployeeIDs or, when that list is
// empty, every active employee matching Filter. PeriodYear 0 means the
// current year.
type BatchRequest struct {
	Type        CompensationType         `json:"type"`
	Mode        BatchMode                `json:"mode"`
	Amount      *decimal.Decimal         `json:"amount,omitempty"`
	Percent     *decimal.Decimal         `json:"percent,omitempty"`
	PeriodMonth int                      `json:"period_month"`
	PeriodYear  int                      `json:"period_year,omitempty"`
	EmployeeIDs []string                 `json:"employee_ids,omitempty"`
	Filter      *employee.EmployeeFilter `json:"filter,omitempty"`
	Note        *string                  `json:"note,omitempty"`
	Category    *string                  `json:"category,omitempty"`
}

func (r *BatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsOneOf(r.Type, compensationTypes...) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of Bonus, Arrears, Correction, Allowance, Reimbursement"})
	}
	switch r.Mode {
	case ModeFixed:
		if r.Amount == nil || r.Amount.IsZero() {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount is required for fixed mode"})
		} else if r.Amount.IsNegative() && r.Type != CompensationCorrection {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "only corrections may be negative"})
		}
	case ModePercent:
		if r.Percent == nil || !r.Percent.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "percent", Message: "percent must be greater than 0 for percent mode"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "mode", Message: "mode must be fixed or percent"})
	}
	errs = validatePeriod(errs, "period_month", r.PeriodMonth, "period_year", r.PeriodYear)
	for _, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "employee_ids must contain valid UUIDs"})
			break
		}
	}
	if r.Filter != nil {
		errs = mergeErrors(errs, r.Filter.Validate())
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BatchLine is one employee's computed amount, rounded to two decimals.
type BatchLine struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode string          `json:"employee_code"`
	EmployeeName string          `json:"employee_name"`
	Basic        decimal.Decimal `json:"basic"`
	Amount       decimal.Decimal `json:"amount"`
}

type BatchPreview struct {
	Type   CompensationType `json:"type"`
	Mode   BatchMode        `json:"mode"`
	Period string           `json:"period"`
	Count  int              `json:"count"`
	Total  decimal.Decimal  `json:"total"`
	Lines  []BatchLine      `json:"lines"`
}

type BatchResult struct {
	BatchID      string           `json:"batch_id"`
	AppliedCount int              `json:"applied_count"`
	Type         CompensationType `json:"type"`
	Mode         BatchMode        `json:"mode"`
	Period       string           `json:"period"`
	Total        decimal.Decimal  `json:"total"`
	Lines        []BatchLine      `json:"lines"`
}

// ========== PAYROLL CYCLE DTOs ==========

type RunPayrollRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *RunPayrollRequest) Validate() error {
	errs := validatePeriod(nil, "month", r.Month, "year", r.Year)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunPayrollResult struct {
	Count       int       `json:"count"`
	Period      string    `json:"period"`
	GeneratedAt time.Time `json:"generated_at"`
}

type CycleFilter struct {
	Month       *int
	Year        *int
	EmployeeID  *string
	GeneratedBy *string
	Page        int
	Limit       int
}

func (f *CycleFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if f.Year != nil && !validator.IsValidYear(*f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 1900 or later"})
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "must be positive"})
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "must be between 1 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	return nil
}

func (f CycleFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type PayrollCycleResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	PeriodMonth  int     `json:"period_month"`
	PeriodYear   int     `json:"period_year"`
	Totals
	GeneratedAt time.Time `json:"generated_at"`
	GeneratedBy *string   `json:"generated_by,omitempty"`
}

func NewPayrollCycleResponse(c PayrollCycle) PayrollCycleResponse {
	return PayrollCycleResponse{
		ID:           c.ID,
		EmployeeID:   c.EmployeeID,
		EmployeeName: c.EmployeeName,
		PeriodMonth:  c.PeriodMonth,
		PeriodYear:   c.PeriodYear,
		Totals:       c.Totals,
		GeneratedAt:  c.GeneratedAt,
		GeneratedBy:  c.GeneratedBy,
	}
}

type ListCyclesResponse struct {
	Cycles     []PayrollCycleResponse `json:"cycles"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ========== PAYSLIP DTOs ==========

type PayslipRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *PayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	errs = validatePeriod(errs, "month", r.Month, "year", r.Year)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PayslipLine is one itemised entry on a payslip.
type PayslipLine struct {
	Label  string
	Amount decimal.Decimal
}

// Payslip is the render input: the period summary plus its itemised records.
type Payslip struct {
	EmployeeName  string
	EmployeeCode  string
	EmployeeEmail *string
	Department    *string
	Period        string
	Summary       EmployeeSummary
	Allowances    []PayslipLine
	Overtime      []PayslipLine
	Bonuses       []PayslipLine
	Deductions    []PayslipLine
	GeneratedAt   time.Time
}

type PayslipDocument struct {
	Filename string
	Content  []byte
	Summary  EmployeeSummary
}
