package audit

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/auth"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

type ActionType string

const (
	ActionCreateEmployee           ActionType = "CREATE_EMPLOYEE"
	ActionSetBasicSalary           ActionType = "SET_BASIC_SALARY"
	ActionCreateGrade              ActionType = "CREATE_GRADE"
	ActionCreateDepartment         ActionType = "CREATE_DEPARTMENT"
	ActionUpsertOvertimeRule       ActionType = "UPSERT_OVERTIME_RULE"
	ActionCreateOvertimeAdjustment ActionType = "CREATE_OVERTIME_ADJUSTMENT"
	ActionCreateAllowance          ActionType = "CREATE_ALLOWANCE"
	ActionCreateBonus              ActionType = "CREATE_BONUS"
	ActionCreateDeduction          ActionType = "CREATE_DEDUCTION"
	ActionUpdateDeductionStatus    ActionType = "UPDATE_DEDUCTION_STATUS"
	ActionApplyCompensation        ActionType = "APPLY_COMPENSATION"
	ActionRunPayroll               ActionType = "RUN_PAYROLL"
	ActionGeneratePayslip          ActionType = "GENERATE_PAYSLIP"
)

// Change is the before/after pair of a single field.
type Change struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// Entry is written once per operation attempt and never updated.
type Entry struct {
	ID           string            `json:"id,omitempty"`
	ActorID      string            `json:"actor_id"`
	ActorRole    string            `json:"actor_role"`
	ActionType   ActionType        `json:"action_type"`
	TargetTable  string            `json:"target_table"`
	TargetID     string            `json:"target_id,omitempty"`
	BeforeState  any               `json:"before_state,omitempty"`
	AfterState   any               `json:"after_state,omitempty"`
	Changes      map[string]Change `json:"changes,omitempty"`
	Status       Status            `json:"status"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Success builds a SUCCESS entry with the field diff between before and after.
func Success(actor auth.Actor, action ActionType, table, targetID string, before, after any) Entry {
	return Entry{
		ActorID:     actor.ID,
		ActorRole:   string(actor.Role),
		ActionType:  action,
		TargetTable: table,
		TargetID:    targetID,
		BeforeState: before,
		AfterState:  after,
		Changes:     Diff(before, after),
		Status:      StatusSuccess,
	}
}

// Failure builds a FAILURE entry carrying the error message.
func Failure(actor auth.Actor, action ActionType, table, targetID string, cause error) Entry {
	e := Entry{
		ActorID:     actor.ID,
		ActorRole:   string(actor.Role),
		ActionType:  action,
		TargetTable: table,
		TargetID:    targetID,
		Status:      StatusFailure,
	}
	if cause != nil {
		msg := cause.Error()
		e.ErrorMessage = &msg
	}
	return e
}
