package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"notekeep/internal/domain"
	"notekeep/internal/email"
	"notekeep/internal/repository"
)

// AuthService coordina alta, login y recuperacion de credenciales.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	tokens *TokenService
	codes  ResetCodeStore
	sender email.Sender
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService, codes ResetCodeStore, sender email.Sender) *AuthService {
	if codes == nil {
		codes = NewMemoryResetCodeStore(resetCodeTTL)
	}
	return &AuthService{
		logger: logger,
		users:  users,
		tokens: tokens,
		codes:  codes,
		sender: sender,
	}
}

var (
	ErrMissingFields      = errors.New("missing fields")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrCodeInvalid        = errors.New("code invalid")
	ErrCodeExpired        = errors.New("code expired")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrEmailSendFailure   = errors.New("email send failed")
)

const minPasswordLength = 6

// AuthResult es lo que recibe el cliente tras signup o login.
type AuthResult struct {
	Token string
	Name  string
}

func (s *AuthService) Signup(ctx context.Context, name, emailAddr, password string) (AuthResult, error) {
	name = strings.TrimSpace(name)
	emailAddr = strings.TrimSpace(emailAddr)
	password = strings.TrimSpace(password)

	if name == "" || emailAddr == "" || password == "" {
		return AuthResult{}, ErrMissingFields
	}
	if len(password) < minPasswordLength {
		return AuthResult{}, ErrPasswordTooShort
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return AuthResult{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return AuthResult{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        emailAddr,
		PasswordHash: string(hashBytes),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info("user registered", zap.String("email", user.Email))
	return AuthResult{Token: token, Name: user.Name}, nil
}

// Login responde con el mismo error tanto para email desconocido como para
// password incorrecta, para no revelar que emails estan registrados.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (AuthResult, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	password = strings.TrimSpace(password)

	if emailAddr == "" || password == "" {
		return AuthResult{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if user.PasswordHash == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info("user login", zap.String("email", user.Email))
	return AuthResult{Token: token, Name: user.Name}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	code, err := s.codes.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	if s.sender == nil {
		return ErrEmailSendFailure
	}
	expiresAt := time.Now().UTC().Add(s.codes.TTL())
	if err := s.sender.SendPasswordResetCode(ctx, user.Email, code, expiresAt); err != nil {
		s.logger.Warn("send reset code failed", zap.Error(err), zap.String("email", user.Email))
		return ErrEmailSendFailure
	}

	s.logger.Info("password reset code sent", zap.String("email", user.Email))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	emailAddr = strings.TrimSpace(emailAddr)
	code = strings.TrimSpace(code)
	newPassword = strings.TrimSpace(newPassword)

	if emailAddr == "" || code == "" || newPassword == "" {
		return ErrMissingFields
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	verdict, err := s.codes.Verify(ctx, user.ID, code)
	if err != nil {
		return err
	}
	switch verdict {
	case CodeNoActive, CodeMismatch:
		return ErrCodeInvalid
	case CodeExpired:
		return ErrCodeExpired
	case CodeTooManyAttempts:
		return ErrTooManyAttempts
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashBytes)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset successful", zap.String("email", user.Email))
	return nil
}

// UpdateProfileInput aplica solo los campos presentes. ProfileImage es puntero
// para distinguir "ausente" de "vaciar la imagen".
type UpdateProfileInput struct {
	Name         string
	Email        string
	Password     string
	ProfileImage *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (domain.User, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, "", ErrUserNotFound
		}
		return domain.User{}, "", err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if emailAddr := strings.TrimSpace(input.Email); emailAddr != "" {
		user.Email = emailAddr
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}
	if password := strings.TrimSpace(input.Password); password != "" {
		if len(password) < minPasswordLength {
			return domain.User{}, "", ErrPasswordTooShort
		}
		hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, "", err
		}
		user.PasswordHash = string(hashBytes)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return domain.User{}, "", err
	}

	// Claims de nombre/email cambiaron: se reemite el token.
	token, err := s.tokens.Generate(user)
	if err != nil {
		return domain.User{}, "", err
	}

	s.logger.Info("profile updated", zap.String("email", user.Email))
	return user, token, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
