package budgets

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/finflow-go/apperror"
	"github.com/user/finflow-go/categories"
)

// Service defines budget operations as seen by the HTTP layer.
type Service interface {
	Upsert(ctx context.Context, userID int, req UpsertBudgetRequest) (*Budget, error)
	List(ctx context.Context, userID int, month string) ([]Budget, error)
	Delete(ctx context.Context, userID, budgetID int) error
}

// database is the subset of pgxpool.Pool the service touches. Tests
// substitute an in-memory implementation to exercise the upsert semantics
// without a server.
type database interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type serviceImpl struct {
	db  database
	now func() time.Time
}

// NewService creates a budget service backed by PostgreSQL.
func NewService(db *pgxpool.Pool) Service {
	return &serviceImpl{db: db, now: time.Now}
}

// Upsert creates or replaces the budget for (user, category, month) as a
// single atomic statement. A read-then-write would race concurrent requests
// for the same key; the ON CONFLICT clause targets the natural-key
// constraint instead, so the last write wins and only one row ever exists.
func (s *serviceImpl) Upsert(ctx context.Context, userID int, req UpsertBudgetRequest) (*Budget, error) {
	if req.CategoryID == 0 {
		return nil, apperror.NewValidationError("categoryId is required", nil)
	}
	if req.Amount == nil {
		return nil, apperror.NewValidationError("amount is required", nil)
	}
	if *req.Amount < 0 {
		return nil, apperror.NewValidationError("amount must not be negative", nil)
	}

	month := currentMonth(s.now())
	if req.Month != nil && *req.Month != "" {
		if !validMonth(*req.Month) {
			return nil, apperror.NewValidationError("month must be in YYYY-MM format", nil)
		}
		month = *req.Month
	}

	// Budgets only make sense for expense categories; income has no
	// spending limit in any flow the app exposes.
	categoryType, err := s.visibleCategoryType(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if categoryType != categories.TypeExpense {
		return nil, apperror.NewValidationError("budgets require an EXPENSE category", nil)
	}

	var budgetID int
	err = s.db.QueryRow(ctx,
		`INSERT INTO budgets (user_id, category_id, month, amount)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, category_id, month) DO UPDATE
		 SET amount = EXCLUDED.amount
		 RETURNING id`,
		userID, req.CategoryID, month, *req.Amount,
	).Scan(&budgetID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to upsert budget", err)
	}

	return s.get(ctx, userID, budgetID)
}

// List returns the caller's budgets for a month, defaulting to the current
// one.
func (s *serviceImpl) List(ctx context.Context, userID int, month string) ([]Budget, error) {
	if month == "" {
		month = currentMonth(s.now())
	} else if !validMonth(month) {
		return nil, apperror.NewValidationError("month must be in YYYY-MM format", nil)
	}

	rows, err := s.db.Query(ctx,
		`SELECT b.id, b.user_id, b.category_id, c.name, c.icon, b.month, b.amount, b.created_at
		 FROM budgets b
		 JOIN categories c ON c.id = b.category_id
		 WHERE b.user_id = $1 AND b.month = $2
		 ORDER BY c.name`,
		userID, month,
	)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list budgets", err)
	}
	defer rows.Close()

	budgets := []Budget{}
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.CategoryIcon, &b.Month, &b.Amount, &b.CreatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan budget", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read budgets", err)
	}
	return budgets, nil
}

// Delete removes a budget owned by the caller. A budget belonging to
// another user is indistinguishable from a missing one.
func (s *serviceImpl) Delete(ctx context.Context, userID, budgetID int) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`,
		budgetID, userID,
	)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete budget", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("budget not found", nil)
	}
	return nil
}

func (s *serviceImpl) get(ctx context.Context, userID, budgetID int) (*Budget, error) {
	var b Budget
	err := s.db.QueryRow(ctx,
		`SELECT b.id, b.user_id, b.category_id, c.name, c.icon, b.month, b.amount, b.created_at
		 FROM budgets b
		 JOIN categories c ON c.id = b.category_id
		 WHERE b.id = $1 AND b.user_id = $2`,
		budgetID, userID,
	).Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.CategoryIcon, &b.Month, &b.Amount, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("budget not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get budget", err)
	}
	return &b, nil
}

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
