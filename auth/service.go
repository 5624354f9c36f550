package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/finflow-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// database is the subset of pgxpool.Pool the service touches. Tests
// substitute an in-memory implementation to exercise the session lifecycle
// without a server.
type database interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AuthService implements the session lifecycle. A user is either without a
// session (no stored refresh hash) or with exactly one active session; every
// login or refresh replaces the stored hash, and logout clears it.
type AuthService struct {
	db     database
	tokens *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *pgxpool.Pool, tokens *TokenService) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Register creates a new user together with their default categories, then
// opens a session. The user insert and the category seeding run in one
// transaction: a user row without its default categories must not exist.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Fullname == "" {
		return nil, apperror.NewValidationError("username, email, password and fullname are required", nil)
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, apperror.NewValidationError("dateofbirth must be in YYYY-MM-DD format", nil)
		}
		dateOfBirth = &parsed
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		Phone:          req.Phone,
		HashedPassword: string(hashedPassword),
		Fullname:       req.Fullname,
		DateOfBirth:    dateOfBirth,
		Image:          req.Image,
	}

	// Friendly pre-check so the conflict message names the taken field.
	// The unique constraints remain the source of truth; a concurrent
	// registration racing past this check is caught on insert below.
	if err := s.checkTakenFields(ctx, user); err != nil {
		return nil, err
	}

	if err := s.createUserWithDefaults(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, conflictForConstraint(pgErr.ConstraintName)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	pair, err := s.openSession(ctx, user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		Info:         user,
	}, nil
}

// Login verifies credentials and opens a new session, invalidating any
// previously issued refresh token for the user.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperror.NewValidationError("username and password are required", nil)
	}

	user, err := s.getUserByIdentifier(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same response for unknown identifier and wrong password.
			return nil, apperror.NewAuthError("invalid credentials", nil)
		}
		log.Printf("database error in Login: %v", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError("invalid credentials", nil)
	}

	pair, err := s.openSession(ctx, user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		Info:         user,
	}, nil
}

// Refresh validates a presented refresh token against the stored hash and
// rotates the session: a new pair is issued and the old refresh token
// becomes unusable. A replayed token therefore fails with 403.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperror.NewForbiddenError("invalid refresh token", nil)
	}

	var storedHash *string
	err = s.db.QueryRow(ctx,
		`SELECT refresh_token_hash FROM users WHERE id = $1`,
		claims.UserID,
	).Scan(&storedHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewForbiddenError("invalid refresh token", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load session", err)
	}

	if storedHash == nil || *storedHash != HashToken(refreshToken) {
		return nil, apperror.NewForbiddenError("invalid refresh token", nil)
	}

	pair, err := s.openSession(ctx, claims.UserID, claims.Username)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// Logout clears the stored refresh hash. Calling it without an active
// session is not an error.
func (s *AuthService) Logout(ctx context.Context, userID int) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = NULL WHERE id = $1`,
		userID,
	)
	if err != nil {
		return apperror.NewDatabaseError("failed to log out", err)
	}
	return nil
}

// openSession issues a token pair and persists the refresh-token hash,
// overwriting any previous session wholesale.
func (s *AuthService) openSession(ctx context.Context, userID int, username string) (*TokenPair, error) {
	pair, err := s.tokens.IssuePair(userID, username)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue tokens", err)
	}

	_, err = s.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $1 WHERE id = $2`,
		HashToken(pair.RefreshToken), userID,
	)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to persist session", err)
	}
	return pair, nil
}

// checkTakenFields attributes a would-be conflict to a single field, in the
// fixed order username > email > phone.
func (s *AuthService) checkTakenFields(ctx context.Context, user *User) error {
	var usernameTaken, emailTaken, phoneTaken bool
	// Aggregates over zero matching rows yield NULL, hence the COALESCEs.
	err := s.db.QueryRow(ctx,
		`SELECT
			COALESCE(bool_or(username = $1), false),
			COALESCE(bool_or(email = $2), false),
			COALESCE(bool_or(phone IS NOT NULL AND phone = $3), false)
		 FROM users
		 WHERE username = $1 OR email = $2 OR phone = $3`,
		user.Username, user.Email, user.Phone,
	).Scan(&usernameTaken, &emailTaken, &phoneTaken)
	if err != nil {
		return apperror.NewDatabaseError("failed to check existing users", err)
	}
	switch {
	case usernameTaken:
		return apperror.NewConflictError("username already exists", nil)
	case emailTaken:
		return apperror.NewConflictError("email already exists", nil)
	case phoneTaken:
		return apperror.NewConflictError("phone already exists", nil)
	}
	return nil
}

// conflictForConstraint maps a violated unique constraint to the conflict
// error for the corresponding field.
func conflictForConstraint(constraintName string) *apperror.AppError {
	switch {
	case strings.Contains(constraintName, "username"):
		return apperror.NewConflictError("username already exists", nil)
	case strings.Contains(constraintName, "email"):
		return apperror.NewConflictError("email already exists", nil)
	case strings.Contains(constraintName, "phone"):
		return apperror.NewConflictError("phone already exists", nil)
	}
	return apperror.NewConflictError("user already exists", nil)
}

// The error result is named so the deferred commit/rollback can report its
// outcome to the caller.
func (s *AuthService) createUserWithDefaults(ctx context.Context, user *User) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, phone, password, fullname, dateofbirth, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		user.Username, user.Email, user.Phone, user.HashedPassword,
		user.Fullname, user.DateOfBirth, user.Image,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return err
	}

	for _, c := range defaultCategories {
		_, err = tx.Exec(ctx,
			`INSERT INTO categories (user_id, name, type, icon)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, name, type) DO NOTHING`,
			user.ID, c.Name, c.Type, c.Icon,
		)
		if err != nil {
			return fmt.Errorf("failed to seed default category %q: %w", c.Name, err)
		}
	}
	return err
}

// getUserByIdentifier finds a user by username, email or phone.
func (s *AuthService) getUserByIdentifier(ctx context.Context, identifier string) (*User, error) {
	var user User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, phone, password, fullname, dateofbirth, image, created_at
		 FROM users
		 WHERE username = $1 OR email = lower($1) OR phone = $1`,
		identifier,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.Phone,
		&user.HashedPassword, &user.Fullname, &user.DateOfBirth,
		&user.Image, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
