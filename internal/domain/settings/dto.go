package settings

import (
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpdateSettingsRequest struct {
	WorkStartTime               *string          `json:"work_start_time" validate:"omitempty,clock"`
	WorkEndTime                 *string          `json:"work_end_time" validate:"omitempty,clock"`
	LateGraceMinutes            *int             `json:"late_grace_minutes" validate:"omitempty,gte=0,lte=240"`
	AbsenceDeductionPercentage  *decimal.Decimal `json:"absence_deduction_percentage" validate:"omitempty,gte=0,lte=100"`
	LateDeductionPercentage     *decimal.Decimal `json:"late_deduction_percentage" validate:"omitempty,gte=0,lte=100"`
	AttendanceSalaryLinkEnabled *bool            `json:"attendance_salary_link_enabled"`
	LedgerIntegrationEnabled    *bool            `json:"ffa_integration_enabled"`
	Currency                    *string          `json:"currency" validate:"omitempty,len=3,alpha"`
}

func (r *UpdateSettingsRequest) Validate() error {
	return validator.Struct(r)
}

type SettingsResponse struct {
	WorkStartTime               string          `json:"work_start_time"`
	WorkEndTime                 string          `json:"work_end_time"`
	LateGraceMinutes            int             `json:"late_grace_minutes"`
	AbsenceDeductionPercentage  decimal.Decimal `json:"absence_deduction_percentage"`
	LateDeductionPercentage     decimal.Decimal `json:"late_deduction_percentage"`
	AttendanceSalaryLinkEnabled bool            `json:"attendance_salary_link_enabled"`
	LedgerIntegrationEnabled    bool            `json:"ffa_integration_enabled"`
	Currency                    string          `json:"currency"`
	UpdatedAt                   *time.Time      `json:"updated_at,omitempty"`
}

func NewSettingsResponse(s Settings) SettingsResponse {
	return SettingsResponse{
		WorkStartTime:               s.WorkStartTime,
		WorkEndTime:                 s.WorkEndTime,
		LateGraceMinutes:            s.LateGraceMinutes,
		AbsenceDeductionPercentage:  s.AbsenceDeductionPercentage,
		LateDeductionPercentage:     s.LateDeductionPercentage,
		AttendanceSalaryLinkEnabled: s.AttendanceSalaryLinkEnabled,
		LedgerIntegrationEnabled:    s.LedgerIntegrationEnabled,
		Currency:                    s.Currency,
		UpdatedAt:                   s.UpdatedAt,
	}
}
