package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shop-api/internal/domain"
	"shop-api/internal/logging"
	"shop-api/internal/mail"
	tokenrepo "shop-api/internal/repository/token"
	userrepo "shop-api/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when login/password do not match.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	// ErrNotVerified is returned on login before the email was confirmed.
	ErrNotVerified = fmt.Errorf("%w: email not verified", domain.ErrUnauthorized)
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
)

const usernameAttempts = 5

type Config struct {
	PublicBaseURL string
	FrontendURL   string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Service handles registration, login and profile flows.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	mailer      mail.Sender
	cfg         Config
	logger      *zap.Logger
	passwordMin int
}

// New creates a Service. Zero TTLs fall back to 48h access and 30d refresh.
func New(repo userrepo.Repository, tokens tokenrepo.Repository, mailer mail.Sender, cfg Config, logger *zap.Logger) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 48 * time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		mailer:      mailer,
		cfg:         cfg,
		logger:      logging.OrNop(logger),
		passwordMin: 8,
	}
}

// RegisterInput captures the fields of the registration form.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Lastname     string
	Telefonumber string
	Address      string
	City         string
	ZipCode      string
	Birthday     string
}

// Register creates an unverified account and mails the verification link.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	verification, err := randomHex(16)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		Email:             email,
		PasswordHash:      string(hashed),
		FirstName:         strings.TrimSpace(in.Name),
		LastName:          strings.TrimSpace(in.Lastname),
		VerificationToken: verification,
		Profile: domain.Profile{
			Telefonumber: strings.TrimSpace(in.Telefonumber),
			Address:      strings.TrimSpace(in.Address),
			City:         strings.TrimSpace(in.City),
			ZipCode:      strings.TrimSpace(in.ZipCode),
			Birthday:     strings.TrimSpace(in.Birthday),
		},
	}

	base := usernameBase(user.FirstName, user.LastName, email)
	var created *domain.User
	for i := 0; i < usernameAttempts; i++ {
		user.Username = base
		if i > 0 {
			user.Username = base + strconv.Itoa(i+1)
		}
		created, err = s.repo.Create(ctx, user)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: email or username already registered", domain.ErrAlreadyExists)
	}

	s.logger.Info("account: registered", zap.Int64("user_id", created.ID), zap.String("username", created.Username))
	s.sendVerification(ctx, created.Email, verification)
	return created, nil
}

func (s *Service) sendVerification(ctx context.Context, email, token string) {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	link := s.cfg.PublicBaseURL + "/api/verify-email/?" + q.Encode()

	msg, err := mail.VerificationMessage(email, link)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Error("account: verification mail failed", zap.String("email", email), zap.Error(err))
	}
}

// VerifyEmail confirms the address when token matches the stored one.
// Verifying an already verified account is a no-op.
func (s *Service) VerifyEmail(ctx context.Context, email, token string) error {
	email = strings.TrimSpace(email)
	token = strings.TrimSpace(token)
	if email == "" || token == "" {
		return fmt.Errorf("%w: token and email are required", domain.ErrInvalidInput)
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return nil
	}
	if !tokensEqual(u.VerificationToken, token) {
		return fmt.Errorf("%w: invalid verification token", domain.ErrInvalidInput)
	}
	if err := s.repo.MarkVerified(ctx, u.ID); err != nil {
		return err
	}
	s.logger.Info("account: email verified", zap.Int64("user_id", u.ID))
	return nil
}

// VerifiedRedirectURL is where the browser lands after a successful
// verification.
func (s *Service) VerifiedRedirectURL() string {
	return s.cfg.FrontendURL + "/verified-email"
}

// Login accepts a username or an email address and returns issued tokens.
func (s *Service) Login(ctx context.Context, login, password string) (*domain.User, string, string, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)
	if login == "" || password == "" {
		return nil, "", "", fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, "", "", ErrNotVerified
	}

	access, err := s.tokens.Issue(ctx, u.ID, tokenrepo.KindAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, tokenrepo.KindRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	s.logger.Info("account: login", zap.Int64("user_id", u.ID))
	return u, access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refresh string) (string, error) {
	meta, ok := s.tokens.Validate(ctx, strings.TrimSpace(refresh), tokenrepo.KindRefresh)
	if !ok {
		return "", ErrInvalidToken
	}
	if _, err := s.repo.GetByID(ctx, meta.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return s.tokens.Issue(ctx, meta.UserID, tokenrepo.KindAccess, s.cfg.AccessTTL)
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	meta, ok := s.tokens.Validate(ctx, token, tokenrepo.KindAccess)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// RequestPasswordReset stores a reset token and mails the reset link.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := randomHex(16)
	if err != nil {
		return err
	}
	if err := s.repo.SetPasswordResetToken(ctx, u.ID, token); err != nil {
		return err
	}

	q := url.Values{}
	q.Set("token", token)
	q.Set("email", u.Email)
	link := s.cfg.FrontendURL + "/reset-password?" + q.Encode()

	name := u.FirstName
	if name == "" {
		name = u.Username
	}
	msg, err := mail.PasswordResetMessage(u.Email, name, link)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	s.logger.Info("account: password reset requested", zap.Int64("user_id", u.ID))
	return nil
}

// ConfirmPasswordReset sets a new password when token matches the pending
// reset. All issued tokens of the user are revoked.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, token, password string) error {
	email = strings.TrimSpace(email)
	token = strings.TrimSpace(token)
	password = strings.TrimSpace(password)
	if email == "" || token == "" || password == "" {
		return fmt.Errorf("%w: email, token and password are required", domain.ErrInvalidInput)
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !tokensEqual(u.PasswordResetToken, token) {
		return fmt.Errorf("%w: invalid or expired reset token", domain.ErrInvalidInput)
	}
	if err := validatePassword(password, s.passwordMin); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, string(hashed)); err != nil {
		return err
	}
	if err := s.tokens.RevokeAll(ctx, u.ID); err != nil {
		s.logger.Warn("account: revoke tokens after reset", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	s.logger.Info("account: password reset", zap.Int64("user_id", u.ID))
	return nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.User, error) {
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: email is invalid", domain.ErrInvalidInput)
		}
		upd.Email = &email
	}
	return s.repo.UpdateProfile(ctx, userID, upd)
}

func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("account: deleted", zap.Int64("user_id", userID))
	return nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.cfg.AccessTTL.Seconds())
}

func usernameBase(first, last, email string) string {
	base := strings.ReplaceAll(first+last, " ", "")
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}
	return base
}

func tokensEqual(stored, given string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number", domain.ErrInvalidInput)
	}
	return nil
}
