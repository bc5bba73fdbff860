package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/teamcrm/internal/access"
	"github.com/xela07ax/teamcrm/internal/activity"
	"github.com/xela07ax/teamcrm/internal/crm/apperr"
	"github.com/xela07ax/teamcrm/internal/domain"
	"github.com/xela07ax/teamcrm/internal/infra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository описывает требования сервиса к хранилищу учеток
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	UpdateUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

// CreateUserRequest — регистрация учетки (доступна только админу).
type CreateUserRequest struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
}

type UserService struct {
	repo       UserRepository
	recorder   ActivityRecorder
	rdb        *redis.Client
	logger     *zap.Logger
	bcryptCost int
}

func NewUserService(repo UserRepository, recorder ActivityRecorder, rdb *redis.Client, bcryptCost int, logger *zap.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		repo:       repo,
		recorder:   recorder,
		rdb:        rdb,
		logger:     logger.Named("user-service"),
		bcryptCost: bcryptCost,
	}
}

// Get: свой профиль видит каждый, чужие — менеджер и выше.
func (s *UserService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("User")
	}
	if d := access.Decide(p, access.OpRead, u); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, p *domain.Principal) ([]domain.User, error) {
	if d := access.DecideType(p, access.OpList, domain.EntityUser); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("user_service: list failed: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, p *domain.Principal, req CreateUserRequest) (*domain.User, error) {
	if d := access.DecideType(p, access.OpCreate, domain.EntityUser); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	if req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	if !req.Role.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("Unknown role: %s", req.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("user_service: password hash failed: %w", err)
	}

	now := time.Now()
	u := &domain.User{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForCreate(p, u))
	return u, nil
}

// Update применяет частичное обновление профиля через редактор полей:
// password вырезается всегда, self-service не-админа — только имя.
// Редактор не является воротами авторизации: запрет на «чужой профиль
// без прав» уже вынесен таблицей политики выше.
func (s *UserService) Update(ctx context.Context, p *domain.Principal, id string, payload map[string]any) (*domain.User, error) {
	before, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, apperr.NotFound("User")
	}
	if d := access.Decide(p, access.OpUpdate, before); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	after := *before
	if err := applyUserPatch(&after, access.RedactUserUpdate(p, id, payload)); err != nil {
		return nil, err
	}
	after.UpdatedAt = time.Now()

	if err := s.repo.UpdateUser(ctx, &after); err != nil {
		return nil, err
	}

	// Выключение учетки должно подействовать немедленно на всех
	// инстансах: иначе живой токен переживет деактивацию.
	if before.IsActive != after.IsActive {
		s.signalStatus(ctx, after.ID, after.IsActive)
	}

	s.recorder.Record(activity.EntryForUpdate(p, before, &after))
	return &after, nil
}

// Delete: только админ и только не себя.
func (s *UserService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("User")
	}
	if d := access.Decide(p, access.OpDelete, u); !d.Allow {
		return apperr.FromDecision(d)
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(activity.EntryForDelete(p, u))
	return nil
}

// signalStatus обновляет Redis-множество деактивированных учеток и
// шлет широковещательный сигнал. Сбой сигнала не фатален: БД уже
// обновлена, инстансы догонят при следующем прогреве.
func (s *UserService) signalStatus(ctx context.Context, userID string, active bool) {
	if s.rdb == nil {
		return
	}

	val := "off"
	var redisErr error
	if active {
		val = "on"
		redisErr = s.rdb.SRem(ctx, infra.RedisKeyDeactivatedUsers, userID).Err()
	} else {
		redisErr = s.rdb.SAdd(ctx, infra.RedisKeyDeactivatedUsers, userID).Err()
	}
	if redisErr != nil {
		s.logger.Warn("user status set update failed", zap.Error(redisErr))
	}

	payload := fmt.Sprintf("%s:%s", userID, val)
	if err := s.rdb.Publish(ctx, infra.RedisChanUserStatus, payload).Err(); err != nil {
		s.logger.Warn("user status signal failed", zap.Error(err))
	} else {
		s.logger.Info("user status toggled",
			zap.String("user_id", userID),
			zap.Bool("active", active))
	}
}

func applyUserPatch(u *domain.User, patch map[string]any) error {
	for k, v := range patch {
		switch k {
		case "firstName":
			if s, ok := v.(string); ok {
				u.FirstName = s
			}
		case "lastName":
			if s, ok := v.(string); ok {
				u.LastName = s
			}
		case "email":
			if s, ok := v.(string); ok {
				u.Email = s
			}
		case "role":
			s, ok := v.(string)
			if !ok || !domain.Role(s).Valid() {
				return apperr.Validation(fmt.Sprintf("Unknown role: %v", v))
			}
			u.Role = domain.Role(s)
		case "isActive":
			if b, ok := v.(bool); ok {
				u.IsActive = b
			}
		}
	}
	return nil
}
