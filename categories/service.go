package categories

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/finflow-go/apperror"
)

const pgUniqueViolation = "23505"

// Service defines category operations as seen by the HTTP layer.
type Service interface {
	List(ctx context.Context, userID int, categoryType string) ([]Category, error)
	Create(ctx context.Context, userID int, req CreateCategoryRequest) (*Category, error)
	Update(ctx context.Context, userID, categoryID int, req UpdateCategoryRequest) (*Category, error)
	Delete(ctx context.Context, userID, categoryID int) error
}

type serviceImpl struct {
	db *pgxpool.Pool
}

// NewService creates a category service backed by PostgreSQL.
func NewService(db *pgxpool.Pool) Service {
	return &serviceImpl{db: db}
}

// List returns the user's own categories plus shared system categories,
// optionally filtered by type.
func (s *serviceImpl) List(ctx context.Context, userID int, categoryType string) ([]Category, error) {
	query := `
		SELECT id, user_id, name, type, icon, created_at
		FROM categories
		WHERE (user_id = $1 OR user_id IS NULL)`
	args := []interface{}{userID}

	if categoryType != "" {
		if !ValidType(categoryType) {
			return nil, apperror.NewValidationError("type must be INCOME or EXPENSE", nil)
		}
		query += ` AND type = $2`
		args = append(args, categoryType)
	}
	query += ` ORDER BY type, name`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list categories", err)
	}
	defer rows.Close()

	cats := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.CreatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan category", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read categories", err)
	}
	return cats, nil
}

func (s *serviceImpl) Create(ctx context.Context, userID int, req CreateCategoryRequest) (*Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, apperror.NewValidationError("name is required", nil)
	}
	if !ValidType(req.Type) {
		return nil, apperror.NewValidationError("type must be INCOME or EXPENSE", nil)
	}

	c := Category{UserID: &userID, Name: req.Name, Type: req.Type, Icon: req.Icon}
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, type, icon)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		userID, c.Name, c.Type, c.Icon,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("category already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create category", err)
	}
	return &c, nil
}

// Update modifies a category owned by the caller. Shared categories have no
// owner, so the WHERE clause keeps them out of reach; the result is the same
// 404 as for a category that does not exist.
func (s *serviceImpl) Update(ctx context.Context, userID, categoryID int, req UpdateCategoryRequest) (*Category, error) {
	if req.Name == nil && req.Icon == nil {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, apperror.NewValidationError("name must not be empty", nil)
		}
		req.Name = &trimmed
	}

	var c Category
	err := s.db.QueryRow(ctx,
		`UPDATE categories
		 SET name = COALESCE($1, name), icon = COALESCE($2, icon)
		 WHERE id = $3 AND user_id = $4
		 RETURNING id, user_id, name, type, icon, created_at`,
		req.Name, req.Icon, categoryID, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("category not found", nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("category already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update category", err)
	}
	return &c, nil
}

func (s *serviceImpl) Delete(ctx context.Context, userID, categoryID int) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`,
		categoryID, userID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// Foreign key violation: transactions or budgets still reference it.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflictError("category is still in use", nil)
		}
		return apperror.NewDatabaseError("failed to delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("category not found", nil)
	}
	return nil
}
