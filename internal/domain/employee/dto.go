package employee

import (
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name              string          `json:"name" validate:"required,max=255"`
	Phone             string          `json:"phone" validate:"required,phone"`
	Email             *string         `json:"email" validate:"omitempty,email"`
	Password          *string         `json:"password" validate:"omitempty,min=6"`
	BaseSalary        decimal.Decimal `json:"base_salary" validate:"gte=0"`
	Role              Role            `json:"role" validate:"omitempty,oneof=employee admin super_admin"`
	Status            Status          `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	HireDate          *string         `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	ExternalAccountID *string         `json:"external_account_id" validate:"omitempty,max=64"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Phone = validator.SanitizePhone(r.Phone)
	if r.Role == "" {
		r.Role = RoleEmployee
	}
	if r.Status == "" {
		r.Status = StatusActive
	}
	return validator.Struct(r)
}

type UpdateEmployeeRequest struct {
	ID                string           `json:"-"`
	Name              *string          `json:"name" validate:"omitempty,max=255"`
	Phone             *string          `json:"phone" validate:"omitempty,phone"`
	Email             *string          `json:"email" validate:"omitempty,email"`
	Password          *string          `json:"password" validate:"omitempty,min=6"`
	BaseSalary        *decimal.Decimal `json:"base_salary" validate:"omitempty,gte=0"`
	Role              *Role            `json:"role" validate:"omitempty,oneof=employee admin super_admin"`
	Status            *Status          `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	HireDate          *string          `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	ExternalAccountID *string          `json:"external_account_id" validate:"omitempty,max=64"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "invalid employee id"})
	}
	if r.Phone != nil {
		sanitized := validator.SanitizePhone(*r.Phone)
		r.Phone = &sanitized
	}
	if err := validator.Struct(r); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		} else {
			return err
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	Status *Status `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

type EmployeeResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	Email             *string         `json:"email,omitempty"`
	BaseSalary        decimal.Decimal `json:"base_salary"`
	Role              Role            `json:"role"`
	Status            Status          `json:"status"`
	HireDate          *string         `json:"hire_date,omitempty"`
	ExternalAccountID *string         `json:"external_account_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	var hireDate *string
	if e.HireDate != nil {
		s := e.HireDate.Format("2006-01-02")
		hireDate = &s
	}
	return EmployeeResponse{
		ID:                e.ID,
		Name:              e.Name,
		Phone:             e.Phone,
		Email:             e.Email,
		BaseSalary:        e.BaseSalary,
		Role:              e.Role,
		Status:            e.Status,
		HireDate:          hireDate,
		ExternalAccountID: e.ExternalAccountID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
