package dashboard

import "time"

// Counters are the headline numbers of the HR dashboard.
type Counters struct {
	ActiveEmployees int64
	PresentToday    int64
	PendingRequests int64
	UnpaidSnapshots int64
}

type DashboardResponse struct {
	Date            string    `json:"date"`
	Month           string    `json:"month"`
	ActiveEmployees int64     `json:"active_employees"`
	PresentToday    int64     `json:"present_today"`
	PendingRequests int64     `json:"pending_requests"`
	UnpaidSalaries  int64     `json:"unpaid_salaries"`
	LedgerEnabled   bool      `json:"ledger_enabled"`
	LedgerReady     bool      `json:"ledger_ready"`
	GeneratedAt     time.Time `json:"generated_at"`
}
