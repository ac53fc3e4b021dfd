package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings holds the HR rules read by attendance, payroll and the ledger
// integration. A stored row overrides the environment defaults.
type Settings struct {
	WorkStartTime               string
	WorkEndTime                 string
	LateGraceMinutes            int
	AbsenceDeductionPercentage  decimal.Decimal
	LateDeductionPercentage     decimal.Decimal
	AttendanceSalaryLinkEnabled bool
	LedgerIntegrationEnabled    bool
	Currency                    string
	UpdatedAt                   *time.Time
}
