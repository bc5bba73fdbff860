package service

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/xela07ax/teamcrm/internal/crm/apperr"
	"github.com/xela07ax/teamcrm/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthUserRepository — срез хранилища, нужный потоку аутентификации.
type AuthUserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

type AuthService struct {
	repo       AuthUserRepository
	recorder   ActivityRecorder
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthService(repo AuthUserRepository, recorder ActivityRecorder, privateKey *rsa.PrivateKey, tokenTTL time.Duration, bcryptCost int, logger *zap.Logger) *AuthService {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		recorder:   recorder,
		privateKey: privateKey,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger.Named("auth-service"),
	}
}

// Login проверяет пару email/пароль и выпускает RS256 токен.
// Ответ для «нет такой учетки» и «пароль не подошел» одинаков,
// чтобы не подсвечивать существующие адреса.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	u, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service: lookup failed: %w", err)
	}
	if u == nil {
		return nil, apperr.Unauthenticated()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected: bad credentials", zap.String("email", req.Email))
		return nil, apperr.Unauthenticated()
	}

	if !u.IsActive {
		s.logger.Warn("login rejected: account deactivated", zap.String("user_id", u.ID))
		return nil, apperr.Unauthenticated()
	}

	token, err := s.generateToken(u)
	if err != nil {
		return nil, fmt.Errorf("auth_service: token signing failed: %w", err)
	}

	s.logger.Info("token issued",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)))

	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

// ChangePassword — смена собственного пароля с подтверждением текущего.
// Чужой пароль не меняет никто, включая админа: для сброса есть
// выпуск новой учетки.
func (s *AuthService) ChangePassword(ctx context.Context, p *domain.Principal, targetID string, req domain.ChangePasswordRequest) error {
	if p == nil {
		return apperr.Unauthenticated()
	}
	if p.ID != targetID {
		return apperr.Forbidden("Insufficient permissions")
	}
	if req.NewPassword == "" {
		return apperr.Validation("New password is required")
	}

	u, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("User")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperr.Validation("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("auth_service: password hash failed: %w", err)
	}

	if err := s.repo.UpdateUserPassword(ctx, targetID, string(hash)); err != nil {
		return err
	}

	s.recorder.Record(domain.ActivityEntry{
		Type:        domain.ActivityUpdated,
		EntityType:  domain.EntityUser,
		EntityID:    u.ID,
		ActorID:     p.ID,
		ActorName:   p.Name,
		Description: fmt.Sprintf("Changed password: %s", u.DisplayName()),
	})

	s.logger.Info("password changed", zap.String("user_id", targetID))
	return nil
}

func (s *AuthService) generateToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := domain.CustomClaims{
		UserID: u.ID,
		Name:   u.DisplayName(),
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}
