package salary

import (
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AdjustSalaryRequest struct {
	SnapshotID string          `json:"-"`
	Delta      decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason" validate:"required,max=2000"`
	ActorID    *string         `json:"-"`
}

func (r *AdjustSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SnapshotID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "invalid snapshot id"})
	}
	if r.Delta.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must not be zero"})
	}
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidRequest struct {
	SnapshotID string  `json:"-"`
	VaultID    *string `json:"vault_id"`
	ActorID    *string `json:"-"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SnapshotID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "invalid snapshot id"})
	}
	if r.VaultID != nil && !validator.IsValidUUID(*r.VaultID) {
		errs = append(errs, validator.ValidationError{Field: "vault_id", Message: "invalid vault id"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SnapshotResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        string          `json:"employee_name,omitempty"`
	Month               string          `json:"month"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	Bonuses             decimal.Decimal `json:"bonuses"`
	Deductions          decimal.Decimal `json:"deductions"`
	Advances            decimal.Decimal `json:"advances"`
	AttendanceDeduction decimal.Decimal `json:"attendance_deduction"`
	ManualAdjustment    decimal.Decimal `json:"manual_adjustment"`
	AdjustmentReason    *string         `json:"adjustment_reason,omitempty"`
	FinalSalary         decimal.Decimal `json:"final_salary"`
	Status              Status          `json:"status"`
	CalculatedAt        *time.Time      `json:"calculated_at,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
}

func NewSnapshotResponse(s Snapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:                  s.ID,
		EmployeeID:          s.EmployeeID,
		EmployeeName:        s.EmployeeName,
		Month:               s.Month,
		BaseSalary:          s.BaseSalary,
		Bonuses:             s.Bonuses,
		Deductions:          s.Deductions,
		Advances:            s.Advances,
		AttendanceDeduction: s.AttendanceDeduction,
		ManualAdjustment:    s.ManualAdjustment,
		AdjustmentReason:    s.AdjustmentReason,
		FinalSalary:         s.FinalSalary,
		Status:              s.Status,
		CalculatedAt:        s.CalculatedAt,
		PaidAt:              s.PaidAt,
	}
}

type LogResponse struct {
	ID        string           `json:"id"`
	Action    Action           `json:"action"`
	OldAmount *decimal.Decimal `json:"old_amount,omitempty"`
	NewAmount *decimal.Decimal `json:"new_amount,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
	CreatedBy *string          `json:"created_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type BulkFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type BulkRecalculateResponse struct {
	Month     string        `json:"month"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped_paid"`
	Failed    []BulkFailure `json:"failed,omitempty"`
}

type SalaryReportResponse struct {
	Snapshot SnapshotResponse          `json:"snapshot"`
	Requests []request.RequestResponse `json:"requests"`
}
