package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService resolves session principals to user records
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail checks the address parses and is a bare address
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if len(email) > models.MaxEmailLength {
		return fmt.Errorf("%w: email is too long", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	return nil
}

// placeholderName derives a display name from the local part of an email
func placeholderName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// GetByID returns a user by ID
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// FindByEmail looks a user up by email; a missing row is ErrNotFound
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = NormalizeEmail(email)
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no user with email %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// ResolvePrincipal maps an authenticated session email to its user record.
// A missing row means the session is stale and is reported as ErrUnauthenticated.
func (s *UserService) ResolvePrincipal(ctx context.Context, email string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		return nil, err
	}
	return user, nil
}

// ResolveOrCreate returns the user for email, creating a placeholder user if none exists.
// It is idempotent: concurrent callers converge on the same row through the unique email index.
func (s *UserService) ResolveOrCreate(ctx context.Context, email string) (*models.User, error) {
	return resolveOrCreate(s.db.WithContext(ctx), email)
}

// resolveOrCreate runs against db, which may be a transaction
func resolveOrCreate(db *gorm.DB, email string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	candidate := models.User{
		UserID: models.UserIDPrefix + uuid.New().String(),
		Email:  email,
		Name:   placeholderName(email),
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&candidate)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create user: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		slog.Info("Provisioned placeholder user", "userId", candidate.UserID)
		return &candidate, nil
	}

	var existing models.User
	if err := db.First(&existing, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &existing, nil
}

// UpsertOnSignIn creates the user on first sign-in and refreshes the avatar on later ones.
// An existing non-empty name is kept so profile edits survive re-login.
func (s *UserService) UpsertOnSignIn(ctx context.Context, email, name string, image *string) (*models.User, error) {
	user, err := s.ResolveOrCreate(ctx, email)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	name = strings.TrimSpace(name)
	if name != "" && (user.Name == "" || user.Name == placeholderName(user.Email)) {
		updates["name"] = name
	}
	if image != nil && *image != "" {
		updates["image"] = *image
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user on sign-in: %w", err)
	}
	return s.GetByID(ctx, user.UserID)
}

// UpdateProfile renames a user. Users may only update their own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, userID string, req *models.UpdateProfileRequest) (*models.UserResponse, error) {
	if actorID != userID {
		return nil, fmt.Errorf("%w: cannot update another user's profile", ErrForbidden)
	}
	if req.Name == nil {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" || len(name) > models.MaxNameLength {
		return nil, fmt.Errorf("%w: name must be between 1 and %d characters", ErrValidation, models.MaxNameLength)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.Name = name

	resp := user.ToResponse()
	return &resp, nil
}
