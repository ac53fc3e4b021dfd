package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shrms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated connection to the test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. The
// calling test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all data except the seeded expense categories.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{
		"ledger_expenses",
		"ledger_cashflows",
		"ledger_vaults",
		"hr_settings",
		"salary_logs",
		"salary_snapshots",
		"salary_requests",
		"attendances",
		"employees",
	}

	return t.DB.WithinTx(ctx, func(ctx context.Context) error {
		tx, _ := database.TxFromContext(ctx)
		for _, table := range tables {
			if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

func createTestEmployee(t *testing.T, db *database.DB, phone string, base int64) employee.Employee {
	t.Helper()
	emp, err := postgresql.NewEmployeeRepository(db).Create(context.Background(), employee.Employee{
		Name:       "Employee " + phone,
		Phone:      phone,
		BaseSalary: decimal.NewFromInt(base),
		Role:       employee.RoleEmployee,
		Status:     employee.StatusActive,
	})
	require.NoError(t, err)
	return emp
}
