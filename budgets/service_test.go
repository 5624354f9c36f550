package budgets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/finflow-go/apperror"
)

func fixedNow() time.Time {
	return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
}

// Validation happens before any database access, so a nil pool suffices.
func validationOnlyService() *serviceImpl {
	return &serviceImpl{db: nil, now: fixedNow}
}

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string    { return &s }

// fakeRow satisfies pgx.Row with a canned Scan.
type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type storedBudget struct {
	id         int
	userID     int
	categoryID int
	month      string
	amount     float64
	createdAt  time.Time
}

// fakeBudgetDB mimics the budgets table keyed on its natural key, so the
// conflict clause's one-row-per-key behavior is observable in memory.
type fakeBudgetDB struct {
	categoryTypes map[int]string
	rows          map[string]*storedBudget
	nextID        int
}

func newFakeBudgetDB(categoryTypes map[int]string) *fakeBudgetDB {
	return &fakeBudgetDB{
		categoryTypes: categoryTypes,
		rows:          make(map[string]*storedBudget),
	}
}

func budgetKey(userID, categoryID int, month string) string {
	return fmt.Sprintf("%d/%d/%s", userID, categoryID, month)
}

func (f *fakeBudgetDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	switch {
	case strings.Contains(sql, "SELECT type FROM categories"):
		return fakeRow{scan: func(dest ...any) error {
			t, ok := f.categoryTypes[args[0].(int)]
			if !ok {
				return pgx.ErrNoRows
			}
			*(dest[0].(*string)) = t
			return nil
		}}
	case strings.Contains(sql, "INSERT INTO budgets"):
		return fakeRow{scan: func(dest ...any) error {
			userID, categoryID := args[0].(int), args[1].(int)
			month, amount := args[2].(string), args[3].(float64)
			key := budgetKey(userID, categoryID, month)
			row, ok := f.rows[key]
			if !ok {
				f.nextID++
				row = &storedBudget{
					id: f.nextID, userID: userID, categoryID: categoryID,
					month: month, createdAt: fixedNow(),
				}
				f.rows[key] = row
			}
			row.amount = amount
			*(dest[0].(*int)) = row.id
			return nil
		}}
	case strings.Contains(sql, "FROM budgets b"):
		return fakeRow{scan: func(dest ...any) error {
			budgetID, userID := args[0].(int), args[1].(int)
			for _, row := range f.rows {
				if row.id == budgetID && row.userID == userID {
					*(dest[0].(*int)) = row.id
					*(dest[1].(*int)) = row.userID
					*(dest[2].(*int)) = row.categoryID
					*(dest[3].(*string)) = "Food & Drink"
					*(dest[4].(**string)) = nil
					*(dest[5].(*string)) = row.month
					*(dest[6].(*float64)) = row.amount
					*(dest[7].(*time.Time)) = row.createdAt
					return nil
				}
			}
			return pgx.ErrNoRows
		}}
	}
	return fakeRow{scan: func(_ ...any) error {
		return errors.New("unexpected query: " + sql)
	}}
}

func (f *fakeBudgetDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query: " + sql)
}

func (f *fakeBudgetDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected exec: " + sql)
}

func TestUpsertValidation(t *testing.T) {
	s := validationOnlyService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  UpsertBudgetRequest
	}{
		{"missing category", UpsertBudgetRequest{Amount: floatPtr(100)}},
		{"missing amount", UpsertBudgetRequest{CategoryID: 3}},
		{"negative amount", UpsertBudgetRequest{CategoryID: 3, Amount: floatPtr(-1)}},
		{"bad month", UpsertBudgetRequest{CategoryID: 3, Amount: floatPtr(100), Month: strPtr("08-2026")}},
		{"month with day", UpsertBudgetRequest{CategoryID: 3, Amount: floatPtr(100), Month: strPtr("2026-08-01")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Upsert(ctx, 1, tt.req)
			assert.True(t, apperror.IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

// Writing the same (user, category, month) key twice keeps a single row
// with the latest amount; a different month is a separate budget.
func TestUpsertKeepsOneRowPerKey(t *testing.T) {
	db := newFakeBudgetDB(map[int]string{3: "EXPENSE"})
	s := &serviceImpl{db: db, now: fixedNow}
	ctx := context.Background()

	first, err := s.Upsert(ctx, 1, UpsertBudgetRequest{CategoryID: 3, Amount: floatPtr(100), Month: strPtr("2026-08")})
	require.NoError(t, err)
	assert.Equal(t, 100.0, first.Amount)

	second, err := s.Upsert(ctx, 1, UpsertBudgetRequest{CategoryID: 3, Amount: floatPtr(250), Month: strPtr("2026-08")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 250.0, second.Amount)
	assert.Len(t, db.rows, 1)

	other, err := s.Upsert(ctx, 1, UpsertBudgetRequest{CategoryID: 3, Amount: floatPtr(300), Month: strPtr("2026-09")})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Len(t, db.rows, 2)
}

func TestUpsertDefaultsToCurrentMonth(t *testing.T) {
	db := newFakeBudgetDB(map[int]string{3: "EXPENSE"})
	s := &serviceImpl{db: db, now: fixedNow}

	b, err := s.Upsert(context.Background(), 1, UpsertBudgetRequest{CategoryID: 3, Amount: floatPtr(100)})
	require.NoError(t, err)
	assert.Equal(t, "2026-08", b.Month)
}

func TestUpsertRejectsIncomeCategory(t *testing.T) {
	db := newFakeBudgetDB(map[int]string{5: "INCOME"})
	s := &serviceImpl{db: db, now: fixedNow}

	_, err := s.Upsert(context.Background(), 1, UpsertBudgetRequest{CategoryID: 5, Amount: floatPtr(100)})
	assert.True(t, apperror.IsValidationError(err))
}

func TestUpsertRejectsUnknownCategory(t *testing.T) {
	db := newFakeBudgetDB(map[int]string{})
	s := &serviceImpl{db: db, now: fixedNow}

	_, err := s.Upsert(context.Background(), 1, UpsertBudgetRequest{CategoryID: 9, Amount: floatPtr(100)})
	assert.True(t, apperror.IsValidationError(err))
}

func TestListRejectsMalformedMonth(t *testing.T) {
	s := validationOnlyService()
	_, err := s.List(context.Background(), 1, "August 2026")
	assert.True(t, apperror.IsValidationError(err))
}
