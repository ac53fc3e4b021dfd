package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
	defaults     settings.Settings
}

// NewSettingsService serves defaults until a settings row has been saved.
func NewSettingsService(settingsRepo settings.SettingsRepository, defaults settings.Settings) settings.SettingsService {
	return &SettingsServiceImpl{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// GetSettings implements settings.Provider.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (settings.Settings, error) {
	stored, err := s.settingsRepo.Get(ctx)
	if errors.Is(err, settings.ErrSettingsNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return settings.Settings{}, err
	}
	return stored, nil
}

// UpdateSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	if req.WorkStartTime != nil {
		current.WorkStartTime = *req.WorkStartTime
	}
	if req.WorkEndTime != nil {
		current.WorkEndTime = *req.WorkEndTime
	}
	if req.LateGraceMinutes != nil {
		current.LateGraceMinutes = *req.LateGraceMinutes
	}
	if req.AbsenceDeductionPercentage != nil {
		current.AbsenceDeductionPercentage = *req.AbsenceDeductionPercentage
	}
	if req.LateDeductionPercentage != nil {
		current.LateDeductionPercentage = *req.LateDeductionPercentage
	}
	if req.AttendanceSalaryLinkEnabled != nil {
		current.AttendanceSalaryLinkEnabled = *req.AttendanceSalaryLinkEnabled
	}
	if req.LedgerIntegrationEnabled != nil {
		current.LedgerIntegrationEnabled = *req.LedgerIntegrationEnabled
	}
	if req.Currency != nil {
		current.Currency = *req.Currency
	}

	// HH:MM compares correctly as a string
	if current.WorkEndTime <= current.WorkStartTime {
		return settings.SettingsResponse{}, validator.ValidationErrors{
			{Field: "work_end_time", Message: "work_end_time must be after work_start_time"},
		}
	}

	saved, err := s.settingsRepo.Upsert(ctx, current)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	slog.Info("Updated HR settings",
		"attendance_salary_link_enabled", saved.AttendanceSalaryLinkEnabled,
		"ffa_integration_enabled", saved.LedgerIntegrationEnabled,
	)
	return settings.NewSettingsResponse(saved), nil
}
