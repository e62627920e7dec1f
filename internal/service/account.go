package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/barisbll/influshop-backend-sub000/internal/auth"
	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/event"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// maxUsernameLength bounds usernames to keep them display-friendly.
const maxUsernameLength = 30

// ImageUploader pushes an image to external storage and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, ownerKind, ownerID, imageBase64 string) (string, error)
}

// AccountService implements registration, login, and session management for
// both user and influencer accounts.
type AccountService struct {
	userRepo         repository.UserRepository
	influencerRepo   repository.InfluencerRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtManager       *auth.JWTManager
	producer         *event.Producer
	logger           *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	userRepo repository.UserRepository,
	influencerRepo repository.InfluencerRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtManager *auth.JWTManager,
	producer *event.Producer,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		userRepo:         userRepo,
		influencerRepo:   influencerRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtManager:       jwtManager,
		producer:         producer,
		logger:           logger,
	}
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the parameters for logging in. Either the username or the
// email identifies the account.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// RegisterUser creates a new user account, hashes the password, and returns tokens.
func (s *AccountService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	if err := validateRegistration(input); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user.ID, user.Email, domain.RoleUser)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, tokens, nil
}

// RegisterInfluencer creates a new influencer account and returns tokens.
func (s *AccountService) RegisterInfluencer(ctx context.Context, input RegisterInput) (*domain.Influencer, *domain.TokenPair, error) {
	if err := validateRegistration(input); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	inf := &domain.Influencer{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hashedPassword),
		DisplayName:  input.Username,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.influencerRepo.Create(ctx, inf); err != nil {
		return nil, nil, fmt.Errorf("create influencer: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, inf.ID, inf.Email, domain.RoleInfluencer)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	if err := s.producer.PublishInfluencerRegistered(ctx, inf); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish influencer.registered event",
			slog.String("influencer_id", inf.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "influencer registered",
		slog.String("influencer_id", inf.ID),
		slog.String("username", inf.Username),
	)

	return inf, tokens, nil
}

// LoginUser authenticates a user by username or email and returns tokens.
func (s *AccountService) LoginUser(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	var (
		user *domain.User
		err  error
	)
	switch {
	case input.Username != "":
		user, err = s.userRepo.GetByUsername(ctx, input.Username)
	case input.Email != "":
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(input.Email))
	default:
		return nil, nil, apperrors.InvalidInput("username or email is required")
	}
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials")
	}

	tokens, err := s.generateTokenPair(ctx, user.ID, user.Email, domain.RoleUser)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return user, tokens, nil
}

// LoginInfluencer authenticates an influencer by username or email and returns tokens.
func (s *AccountService) LoginInfluencer(ctx context.Context, input LoginInput) (*domain.Influencer, *domain.TokenPair, error) {
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	var (
		inf *domain.Influencer
		err error
	)
	switch {
	case input.Username != "":
		inf, err = s.influencerRepo.GetByUsername(ctx, input.Username)
	case input.Email != "":
		inf, err = s.influencerRepo.GetByEmail(ctx, strings.ToLower(input.Email))
	default:
		return nil, nil, apperrors.InvalidInput("username or email is required")
	}
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(inf.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials")
	}

	tokens, err := s.generateTokenPair(ctx, inf.ID, inf.Email, domain.RoleInfluencer)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "influencer logged in",
		slog.String("influencer_id", inf.ID),
	)

	return inf, tokens, nil
}

// RefreshToken validates a refresh token, rotates it, and returns a new pair.
func (s *AccountService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired refresh token")
	}

	tokenHash := hashToken(refreshToken)
	stored, err := s.refreshTokenRepo.GetByHash(ctx, tokenHash)
	if err != nil {
		return nil, apperrors.Unauthorized("refresh token not found")
	}

	if stored.RevokedAt != nil {
		return nil, apperrors.Unauthorized("refresh token has been revoked")
	}

	if time.Now().UTC().After(stored.ExpiresAt) {
		return nil, apperrors.Unauthorized("refresh token has expired")
	}

	// Rotate: the old token is single-use.
	if err := s.refreshTokenRepo.Revoke(ctx, tokenHash); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke old refresh token",
			slog.String("account_id", claims.AccountID),
			slog.String("error", err.Error()),
		)
	}

	email, err := s.accountEmail(ctx, claims.AccountID, claims.Role)
	if err != nil {
		return nil, fmt.Errorf("get account for token refresh: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, claims.AccountID, email, claims.Role)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "tokens refreshed",
		slog.String("account_id", claims.AccountID),
	)

	return tokens, nil
}

// Logout revokes all refresh tokens for the account.
func (s *AccountService) Logout(ctx context.Context, accountID string) error {
	if err := s.refreshTokenRepo.RevokeByAccountID(ctx, accountID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "account logged out",
		slog.String("account_id", accountID),
	)

	return nil
}

// ChangePassword lets an authenticated account change its password. All
// refresh tokens are revoked afterwards.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, role, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return apperrors.InvalidInput("new password must be different from current password")
	}

	hash, setHash, err := s.passwordHashAccessors(ctx, accountID, role)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(currentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := setHash(string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.refreshTokenRepo.RevokeByAccountID(ctx, accountID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke refresh tokens after password change",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("account_id", accountID),
	)

	return nil
}

// --- Helpers ---

func (s *AccountService) accountEmail(ctx context.Context, accountID, role string) (string, error) {
	if role == domain.RoleInfluencer {
		inf, err := s.influencerRepo.GetByID(ctx, accountID)
		if err != nil {
			return "", err
		}
		return inf.Email, nil
	}

	user, err := s.userRepo.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// passwordHashAccessors returns the stored hash for the account and a closure
// that persists a replacement, hiding the user/influencer split.
func (s *AccountService) passwordHashAccessors(ctx context.Context, accountID, role string) (string, func(string) error, error) {
	if role == domain.RoleInfluencer {
		inf, err := s.influencerRepo.GetByID(ctx, accountID)
		if err != nil {
			return "", nil, fmt.Errorf("get influencer: %w", err)
		}
		return inf.PasswordHash, func(hash string) error {
			inf.PasswordHash = hash
			inf.UpdatedAt = time.Now().UTC()
			return s.influencerRepo.Update(ctx, inf)
		}, nil
	}

	user, err := s.userRepo.GetByID(ctx, accountID)
	if err != nil {
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	return user.PasswordHash, func(hash string) error {
		user.PasswordHash = hash
		user.UpdatedAt = time.Now().UTC()
		return s.userRepo.Update(ctx, user)
	}, nil
}

// generateTokenPair creates an access/refresh token pair and stores the
// refresh token hash.
func (s *AccountService) generateTokenPair(ctx context.Context, accountID, email, role string) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(accountID, email, role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(accountID, role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	tokenHash := hashToken(refreshToken)
	refreshClaims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("validate refresh token for expiry: %w", err)
	}

	if err := s.refreshTokenRepo.Create(ctx, accountID, role, tokenHash, refreshClaims.ExpiresAt.Time); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// hashToken returns the SHA256 hex digest of the given token string.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func validateRegistration(input RegisterInput) error {
	if input.Username == "" {
		return apperrors.InvalidInput("username is required")
	}
	if len(input.Username) > maxUsernameLength {
		return apperrors.InvalidInput(fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return apperrors.InvalidInput("a valid email is required")
	}
	return validatePassword(input.Password)
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
