package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

const settingsColumns = `
	work_start_time, work_end_time, late_grace_minutes, absence_deduction_percentage,
	late_deduction_percentage, attendance_salary_link_enabled, ffa_integration_enabled,
	currency, updated_at`

func scanSettings(row pgx.Row) (settings.Settings, error) {
	var s settings.Settings
	err := row.Scan(
		&s.WorkStartTime, &s.WorkEndTime, &s.LateGraceMinutes, &s.AbsenceDeductionPercentage,
		&s.LateDeductionPercentage, &s.AttendanceSalaryLinkEnabled, &s.LedgerIntegrationEnabled,
		&s.Currency, &s.UpdatedAt,
	)
	return s, err
}

func (r *settingsRepositoryImpl) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSettings(q.QueryRow(ctx, `SELECT `+settingsColumns+` FROM hr_settings WHERE id = 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, settings.ErrSettingsNotFound
		}
		return settings.Settings{}, fmt.Errorf("failed to get hr settings: %w", err)
	}
	return s, nil
}

func (r *settingsRepositoryImpl) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO hr_settings (
			id, work_start_time, work_end_time, late_grace_minutes, absence_deduction_percentage,
			late_deduction_percentage, attendance_salary_link_enabled, ffa_integration_enabled, currency
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			work_start_time = EXCLUDED.work_start_time,
			work_end_time = EXCLUDED.work_end_time,
			late_grace_minutes = EXCLUDED.late_grace_minutes,
			absence_deduction_percentage = EXCLUDED.absence_deduction_percentage,
			late_deduction_percentage = EXCLUDED.late_deduction_percentage,
			attendance_salary_link_enabled = EXCLUDED.attendance_salary_link_enabled,
			ffa_integration_enabled = EXCLUDED.ffa_integration_enabled,
			currency = EXCLUDED.currency,
			updated_at = NOW()
		RETURNING ` + settingsColumns

	saved, err := scanSettings(q.QueryRow(ctx, query,
		s.WorkStartTime, s.WorkEndTime, s.LateGraceMinutes, s.AbsenceDeductionPercentage,
		s.LateDeductionPercentage, s.AttendanceSalaryLinkEnabled, s.LedgerIntegrationEnabled, s.Currency,
	))
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to save hr settings: %w", err)
	}
	return saved, nil
}
