package payroll

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "0190a6f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs.ToMap()
}

func TestUpsertOvertimeRuleRequest_Validate(t *testing.T) {
	ok := UpsertOvertimeRuleRequest{GradeID: testID, Rate: decPtr("50"), MaxHours: decPtr("20")}
	assert.NoError(t, ok.Validate())

	missing := UpsertOvertimeRuleRequest{GradeID: testID}
	fields := fieldsOf(t, missing.Validate())
	assert.Contains(t, fields, "rate")
	assert.Contains(t, fields, "max_hours")

	negative := UpsertOvertimeRuleRequest{GradeID: "bad", Rate: decPtr("-1"), MaxHours: decPtr("-2")}
	assert.Len(t, fieldsOf(t, negative.Validate()), 3)
}

func TestCreateDeductionRequest_Validate(t *testing.T) {
	base := func() CreateDeductionRequest {
		return CreateDeductionRequest{EmployeeID: testID, Name: "PPh21", Type: DeductionTax, EffectiveDate: "2024-01-01"}
	}

	fixed := base()
	fixed.Basis = BasisFixed
	fixed.Amount = decPtr("100")
	assert.NoError(t, fixed.Validate())

	percent := base()
	percent.Basis = BasisPercent
	percent.Percent = decPtr("10")
	assert.NoError(t, percent.Validate())

	noPercent := base()
	noPercent.Basis = BasisPercent
	assert.Contains(t, fieldsOf(t, noPercent.Validate()), "percent")

	noAmount := base()
	noAmount.Basis = BasisFixed
	assert.Contains(t, fieldsOf(t, noAmount.Validate()), "amount")

	mixed := base()
	mixed.Basis = BasisFixed
	mixed.Amount = decPtr("1")
	mixed.Percent = decPtr("1")
	assert.Contains(t, fieldsOf(t, mixed.Validate()), "percent")

	badType := base()
	badType.Basis = BasisFixed
	badType.Amount = decPtr("1")
	badType.Type = "Fine"
	assert.Contains(t, fieldsOf(t, badType.Validate()), "type")
}

func TestCreateAllowanceRequest_Validate(t *testing.T) {
	from, to := "2024-01-20", "2024-01-10"
	req := CreateAllowanceRequest{EmployeeID: testID, Description: "Housing", Amount: dec("300"), EffectiveFrom: &from, EffectiveTo: &to}
	assert.Contains(t, fieldsOf(t, req.Validate()), "effective_to")

	req.EffectiveTo = nil
	assert.NoError(t, req.Validate())
}

func TestBatchRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       BatchRequest
		wantField string
	}{
		{"fixed ok", BatchRequest{Type: CompensationBonus, Mode: ModeFixed, Amount: decPtr("500"), PeriodMonth: 1, PeriodYear: 2024}, ""},
		{"percent ok", BatchRequest{Type: CompensationAllowance, Mode: ModePercent, Percent: decPtr("15"), PeriodMonth: 2, PeriodYear: 2024}, ""},
		{"negative correction ok", BatchRequest{Type: CompensationCorrection, Mode: ModeFixed, Amount: decPtr("-50"), PeriodMonth: 2, PeriodYear: 2024}, ""},
		{"negative bonus", BatchRequest{Type: CompensationBonus, Mode: ModeFixed, Amount: decPtr("-50"), PeriodMonth: 2, PeriodYear: 2024}, "amount"},
		{"unsupported type", BatchRequest{Type: "Stock", Mode: ModeFixed, Amount: decPtr("1"), PeriodMonth: 1, PeriodYear: 2024}, "type"},
		{"fixed without amount", BatchRequest{Type: CompensationBonus, Mode: ModeFixed, PeriodMonth: 1, PeriodYear: 2024}, "amount"},
		{"percent without percent", BatchRequest{Type: CompensationBonus, Mode: ModePercent, PeriodMonth: 1, PeriodYear: 2024}, "percent"},
		{"bad mode", BatchRequest{Type: CompensationBonus, Mode: "ratio", PeriodMonth: 1, PeriodYear: 2024}, "mode"},
		{"bad month", BatchRequest{Type: CompensationBonus, Mode: ModeFixed, Amount: decPtr("1"), PeriodMonth: 13, PeriodYear: 2024}, "period_month"},
		{"bad id", BatchRequest{Type: CompensationBonus, Mode: ModeFixed, Amount: decPtr("1"), PeriodMonth: 1, PeriodYear: 2024, EmployeeIDs: []string{"1"}}, "employee_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldsOf(t, err), tt.wantField)
		})
	}
}

func TestRecordFilter_Validate(t *testing.T) {
	m, y := 1, 2024
	assert.NoError(t, RecordFilter{Month: &m, Year: &y}.Validate())
	assert.Contains(t, fieldsOf(t, RecordFilter{Month: &m}.Validate()), "month")
}

func TestCycleFilter_Defaults(t *testing.T) {
	f := CycleFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = CycleFilter{Page: 3, Limit: 10}
	require.NoError(t, f.Validate())
	assert.Equal(t, 20, f.Offset())

	bad := CycleFilter{Limit: 500}
	assert.Contains(t, fieldsOf(t, bad.Validate()), "limit")
}
