package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection for integration tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err, "failed to apply schema")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

// TruncateAllTables removes all rows from the presence tables.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{
		"attendance_records",
		"leave_requests",
		"work_schedules",
		"network_configs",
		"employees",
	}

	_, err := s.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// CreateEmployee inserts an employee with generated identity data.
func (s *TestDatabaseSetup) CreateEmployee(t *testing.T, role employee.Role) employee.Employee {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	e := employee.Employee{
		ID:       id.String(),
		FullName: gofakeit.Name(),
		Email:    fmt.Sprintf("%s.%s", id.String()[:8], gofakeit.Email()),
		Role:     role,
	}
	_, err = s.DB.Exec(context.Background(), `
		INSERT INTO employees (id, full_name, email, role) VALUES ($1, $2, $3, $4)
	`, e.ID, e.FullName, e.Email, e.Role)
	require.NoError(t, err)
	return e
}
