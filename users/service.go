package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/finflow-go/apperror"
)

const pgUniqueViolation = "23505"

// Service defines user profile operations as seen by the HTTP layer.
type Service interface {
	GetProfile(ctx context.Context, userID int) (*UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userID int, req *UpdateUserProfileRequest) (*UserProfileResponse, error)
	ChangePassword(ctx context.Context, userID int, req *ChangePasswordRequest) error
}

type serviceImpl struct {
	db *pgxpool.Pool
}

// NewService creates a user profile service backed by PostgreSQL.
func NewService(db *pgxpool.Pool) Service {
	return &serviceImpl{db: db}
}

func (s *serviceImpl) GetProfile(ctx context.Context, userID int) (*UserProfileResponse, error) {
	var p UserProfileResponse
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, phone, fullname, dateofbirth, image, created_at
		 FROM users
		 WHERE id = $1`,
		userID,
	).Scan(&p.ID, &p.Username, &p.Email, &p.Phone, &p.Fullname, &p.DateOfBirth, &p.Image, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user profile", err)
	}
	return &p, nil
}

// UpdateProfile applies a partial update, building the SET clause from the
// fields actually present in the request.
func (s *serviceImpl) UpdateProfile(ctx context.Context, userID int, req *UpdateUserProfileRequest) (*UserProfileResponse, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if req.Fullname != nil {
		if strings.TrimSpace(*req.Fullname) == "" {
			return nil, apperror.NewValidationError("fullname must not be empty", nil)
		}
		setClauses = append(setClauses, fmt.Sprintf("fullname = $%d", argID))
		args = append(args, *req.Fullname)
		argID++
	}
	if req.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", argID))
		args = append(args, *req.Phone)
		argID++
	}
	if req.DateOfBirth != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, apperror.NewValidationError("dateofbirth must be in YYYY-MM-DD format", nil)
		}
		setClauses = append(setClauses, fmt.Sprintf("dateofbirth = $%d", argID))
		args = append(args, parsed)
		argID++
	}
	if req.Image != nil {
		setClauses = append(setClauses, fmt.Sprintf("image = $%d", argID))
		args = append(args, *req.Image)
		argID++
	}

	if len(setClauses) == 0 {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}

	args = append(args, userID)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING id, username, email, phone, fullname, dateofbirth, image, created_at`,
		strings.Join(setClauses, ", "), argID)

	var p UserProfileResponse
	err := s.db.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Username, &p.Email, &p.Phone, &p.Fullname, &p.DateOfBirth, &p.Image, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "phone") {
			return nil, apperror.NewConflictError("phone already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update user profile", err)
	}
	return &p, nil
}

// ChangePassword verifies the current password before storing a hash of the
// new one. A wrong current password is an authentication failure, not a
// validation failure.
func (s *serviceImpl) ChangePassword(ctx context.Context, userID int, req *ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperror.NewValidationError("currentPassword and newPassword are required", nil)
	}

	var currentHash string
	err := s.db.QueryRow(ctx,
		`SELECT password FROM users WHERE id = $1`,
		userID,
	).Scan(&currentHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError("user not found", nil)
		}
		return apperror.NewDatabaseError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.NewAuthError("current password is incorrect", nil)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`UPDATE users SET password = $1 WHERE id = $2`,
		string(newHash), userID,
	)
	if err != nil {
		return apperror.NewDatabaseError("failed to update password", err)
	}
	return nil
}
