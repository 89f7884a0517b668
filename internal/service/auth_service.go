package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"shopadmin/internal/entity"
	"shopadmin/internal/repository"
	"shopadmin/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dummyPasswordHash = "$2a$12$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Age      *int
	Gender   *string
	Phone    *string
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the authenticated user and the session token the
// handler turns into the cookie.
type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresIn time.Duration
}

type AuthService struct {
	accounts      repository.AccountRepository
	users         repository.UserRepository
	credentials   repository.CredentialRepository
	verifications repository.VerificationTokenRepository
	auditLogs     repository.AuditLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	tokens       TokenIssuer
	clock        Clock

	verificationTTL time.Duration
}

func NewAuthService(
	accounts repository.AccountRepository,
	users repository.UserRepository,
	credentials repository.CredentialRepository,
	verifications repository.VerificationTokenRepository,
	auditLogs repository.AuditLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	tokens TokenIssuer,
	clock Clock,
) *AuthService {
	return &AuthService{
		accounts:        accounts,
		users:           users,
		credentials:     credentials,
		verifications:   verifications,
		auditLogs:       auditLogs,
		emailSender:     emailSender,
		passwordHash:    passwordHash,
		tokens:          tokens,
		clock:           clock,
		verificationTTL: 24 * time.Hour,
	}
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput, ipAddress *string) (*LoginResult, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	role := entity.UserRole(input.Role)
	if input.Role == "" {
		role = entity.UserRoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	existing, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	var gender *entity.UserGender
	if input.Gender != nil {
		value := entity.UserGender(*input.Gender)
		gender = &value
	}

	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Age:      input.Age,
		Gender:   gender,
		Phone:    input.Phone,
		Role:     role,
		IsActive: true,
	}
	credential := &entity.Credential{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.accounts.CreateWithCredential(ctx, user, credential); err != nil {
		// Two signups can race past the existence check; the unique index
		// decides the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, expiresIn, err := s.tokens.Issue(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	_ = s.sendEmailVerification(ctx, user)
	_ = s.audit(ctx, &user.ID, ipAddress, entity.SignupSuccess, map[string]any{"email": email})

	return &LoginResult{User: user, Token: token, ExpiresIn: expiresIn}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput, ipAddress *string) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	credential, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if credential == nil || !credential.IsActive {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.audit(ctx, nil, ipAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(credential.PasswordHash, input.Password) {
		_ = s.audit(ctx, &credential.UserID, ipAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, credential.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.credentials.MarkLogin(ctx, credential.ID, now); err != nil {
		return nil, err
	}
	if err := s.users.MarkLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, expiresIn, err := s.tokens.Issue(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	_ = s.audit(ctx, &user.ID, ipAddress, entity.LoginSuccess, nil)
	return &LoginResult{User: user, Token: token, ExpiresIn: expiresIn}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID *uuid.UUID, ipAddress *string) {
	_ = s.audit(ctx, userID, ipAddress, entity.Logout, nil)
}

// CurrentUser resolves the token subject to a live profile. Returns
// ErrUserNotFound when the profile was deleted or deactivated after the
// token was issued.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidInput
	}
	verification, err := s.verifications.Consume(ctx, utils.TokenDigest(token), entity.EmailVerify, s.now())
	if err != nil {
		return err
	}
	if verification == nil {
		return ErrInvalidToken
	}
	return s.users.VerifyEmail(ctx, verification.UserID)
}

func (s *AuthService) sendEmailVerification(ctx context.Context, user *entity.User) error {
	if s.emailSender == nil {
		return nil
	}
	rawToken, digest, err := utils.NewOneTimeToken()
	if err != nil {
		return err
	}
	verification := &entity.VerificationToken{
		UserID:    user.ID,
		TokenHash: digest,
		Type:      entity.EmailVerify,
		ExpiresAt: s.now().Add(s.verificationTTL),
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return err
	}
	return s.emailSender.SendVerificationEmail(ctx, user.Email, rawToken)
}

func (s *AuthService) audit(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.AuditAction,
	metadata map[string]any,
) error {
	if s.auditLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}
	return s.auditLogs.Log(ctx, &entity.AuditLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	})
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
