package request

import (
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRequestRequest struct {
	EmployeeID string          `json:"employee_id" validate:"required"`
	Type       Type            `json:"type" validate:"required,oneof=advance bonus deduction"`
	Amount     decimal.Decimal `json:"amount" validate:"gte=0"`
	Month      *string         `json:"month" validate:"omitempty,month"`
	VaultID    *string         `json:"vault_id"`
	Reason     *string         `json:"reason" validate:"omitempty,max=2000"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "invalid employee id"})
	}
	if r.VaultID != nil && !validator.IsValidUUID(*r.VaultID) {
		errs = append(errs, validator.ValidationError{Field: "vault_id", Message: "invalid vault id"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveRequestRequest struct {
	ID         string  `json:"-"`
	VaultID    *string `json:"vault_id"`
	ApproverID string  `json:"-"`
}

func (r *ApproveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "invalid request id"})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver is required"})
	}
	if r.VaultID != nil && !validator.IsValidUUID(*r.VaultID) {
		errs = append(errs, validator.ValidationError{Field: "vault_id", Message: "invalid vault id"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectRequestRequest struct {
	ID         string `json:"-"`
	ApproverID string `json:"-"`
}

type RequestFilter struct {
	EmployeeID *string `json:"employee_id"`
	Status     *Status `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Type       *Type   `json:"type" validate:"omitempty,oneof=advance bonus deduction"`
}

func (f *RequestFilter) Validate() error {
	return validator.Struct(f)
}

type RequestResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	Type         Type            `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	VaultID      *string         `json:"vault_id,omitempty"`
	Reason       *string         `json:"reason,omitempty"`
	Month        *string         `json:"month,omitempty"`
	Status       Status          `json:"status"`
	ApprovedBy   *string         `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time      `json:"approved_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewRequestResponse(r Request) RequestResponse {
	return RequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Type:         r.Type,
		Amount:       r.Amount,
		VaultID:      r.VaultID,
		Reason:       r.Reason,
		Month:        r.Month,
		Status:       r.Status,
		ApprovedBy:   r.ApprovedBy,
		ApprovedAt:   r.ApprovedAt,
		CreatedAt:    r.CreatedAt,
	}
}
