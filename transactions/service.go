package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/finflow-go/apperror"
	"github.com/user/finflow-go/categories"
)

// listLimit caps the default transaction listing to the most recent entries.
const listLimit = 100

// Service defines transaction operations as seen by the HTTP layer.
type Service interface {
	Create(ctx context.Context, userID int, req CreateTransactionRequest) (*Transaction, error)
	List(ctx context.Context, userID int) ([]Transaction, error)
	Get(ctx context.Context, userID, transactionID int) (*Transaction, error)
	Update(ctx context.Context, userID, transactionID int, req UpdateTransactionRequest) (*Transaction, error)
	Delete(ctx context.Context, userID, transactionID int) error
	CurrentMonth(ctx context.Context, userID int, categoryType string) ([]Transaction, error)
	WeeklyReport(ctx context.Context, userID int) ([]DayTotal, error)
	MonthlyCategoryReport(ctx context.Context, userID int) ([]CategoryTotal, error)
}

type serviceImpl struct {
	db *pgxpool.Pool
	// now is swappable for tests of the window-dependent queries.
	now func() time.Time
}

// NewService creates a transaction service backed by PostgreSQL.
func NewService(db *pgxpool.Pool) Service {
	return &serviceImpl{db: db, now: time.Now}
}

const selectColumns = `
	t.id, t.user_id, t.category_id, c.name, c.type, t.amount, t.date, t.note, t.created_at`

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.CategoryName, &t.CategoryType,
		&t.Amount, &t.Date, &t.Note, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *serviceImpl) Create(ctx context.Context, userID int, req CreateTransactionRequest) (*Transaction, error) {
	if req.Amount == nil {
		return nil, apperror.NewValidationError("amount is required", nil)
	}
	if *req.Amount < 0 {
		return nil, apperror.NewValidationError("amount must not be negative", nil)
	}
	if req.CategoryID == 0 {
		return nil, apperror.NewValidationError("categoryId is required", nil)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperror.NewValidationError("date must be in YYYY-MM-DD format", nil)
	}

	if _, err := s.visibleCategoryType(ctx, userID, req.CategoryID); err != nil {
		return nil, err
	}

	var transactionID int
	err = s.db.QueryRow(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, date, note)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		userID, req.CategoryID, *req.Amount, date, req.Note,
	).Scan(&transactionID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create transaction", err)
	}

	return s.Get(ctx, userID, transactionID)
}

// List returns the caller's most recent transactions, newest first.
func (s *serviceImpl) List(ctx context.Context, userID int) ([]Transaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT`+selectColumns+`
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1
		 ORDER BY t.date DESC, t.id DESC
		 LIMIT $2`,
		userID, listLimit,
	)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list transactions", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (s *serviceImpl) Get(ctx context.Context, userID, transactionID int) (*Transaction, error) {
	t, err := scanTransaction(s.db.QueryRow(ctx,
		`SELECT`+selectColumns+`
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.id = $1 AND t.user_id = $2`,
		transactionID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("transaction not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get transaction", err)
	}
	return t, nil
}

func (s *serviceImpl) Update(ctx context.Context, userID, transactionID int, req UpdateTransactionRequest) (*Transaction, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if req.Amount != nil {
		if *req.Amount < 0 {
			return nil, apperror.NewValidationError("amount must not be negative", nil)
		}
		setClauses = append(setClauses, fmt.Sprintf("amount = $%d", argID))
		args = append(args, *req.Amount)
		argID++
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, apperror.NewValidationError("date must be in YYYY-MM-DD format", nil)
		}
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", argID))
		args = append(args, date)
		argID++
	}
	if req.Note != nil {
		setClauses = append(setClauses, fmt.Sprintf("note = $%d", argID))
		args = append(args, *req.Note)
		argID++
	}
	if req.CategoryID != nil {
		if _, err := s.visibleCategoryType(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
		setClauses = append(setClauses, fmt.Sprintf("category_id = $%d", argID))
		args = append(args, *req.CategoryID)
		argID++
	}

	if len(setClauses) == 0 {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}

	args = append(args, transactionID, userID)
	query := fmt.Sprintf(
		`UPDATE transactions SET %s WHERE id = $%d AND user_id = $%d RETURNING id`,
		strings.Join(setClauses, ", "), argID, argID+1)

	var updatedID int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("transaction not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update transaction", err)
	}

	return s.Get(ctx, userID, updatedID)
}

func (s *serviceImpl) Delete(ctx context.Context, userID, transactionID int) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		transactionID, userID,
	)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("transaction not found", nil)
	}
	return nil
}

// CurrentMonth lists the caller's transactions in the current UTC calendar
// month, optionally filtered by category type.
func (s *serviceImpl) CurrentMonth(ctx context.Context, userID int, categoryType string) ([]Transaction, error) {
	start, end := monthRange(s.now())

	query := `SELECT` + selectColumns + `
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3`
	args := []interface{}{userID, start, end}

	if categoryType != "" {
		if !categories.ValidType(categoryType) {
			return nil, apperror.NewValidationError("type must be INCOME or EXPENSE", nil)
		}
		query += ` AND c.type = $4`
		args = append(args, categoryType)
	}
	query += ` ORDER BY t.date DESC, t.id DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list current month transactions", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// WeeklyReport totals the caller's expenses per day for the current ISO
// week. The result always has seven rows, Monday through Sunday.
func (s *serviceImpl) WeeklyReport(ctx context.Context, userID int) ([]DayTotal, error) {
	start, end := weekRange(s.now())

	rows, err := s.db.Query(ctx,
		`SELECT t.date, SUM(t.amount)
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1 AND c.type = 'EXPENSE' AND t.date >= $2 AND t.date < $3
		 GROUP BY t.date`,
		userID, start, end,
	)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to build weekly report", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var day time.Time
		var total float64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan weekly report row", err)
		}
		totals[day.Format("2006-01-02")] = total
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read weekly report", err)
	}

	return fillWeek(start, totals), nil
}

// MonthlyCategoryReport totals the caller's expenses per category for the
// current UTC month, largest first. Income categories are excluded.
func (s *serviceImpl) MonthlyCategoryReport(ctx context.Context, userID int) ([]CategoryTotal, error) {
	start, end := monthRange(s.now())

	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.name, SUM(t.amount) AS total
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1 AND c.type = 'EXPENSE' AND t.date >= $2 AND t.date < $3
		 GROUP BY c.id, c.name
		 ORDER BY total DESC`,
		userID, start, end,
	)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to build monthly category report", err)
	}
	defer rows.Close()

	report := []CategoryTotal{}
	for rows.Next() {
		var row CategoryTotal
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.Total); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan monthly report row", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read monthly report", err)
	}
	return report, nil
}

// visibleCategoryType resolves a category the user may reference: their own
// or a shared system category. An invisible category is reported as a
// validation failure rather than a 404, since it arrives as a body field.
func (s *serviceImpl) visibleCategoryType(ctx context.Context, userID, categoryID int) (string, error) {
	var categoryType string
	err := s.db.QueryRow(ctx,
		`SELECT type FROM categories WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)`,
		categoryID, userID,
	).Scan(&categoryType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperror.NewValidationError("category not found", nil)
		}
		return "", apperror.NewDatabaseError("failed to check category", err)
	}
	return categoryType, nil
}

func collectTransactions(rows pgx.Rows) ([]Transaction, error) {
	txs := []Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan transaction", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read transactions", err)
	}
	return txs, nil
}
