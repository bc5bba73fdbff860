package auth

import (
	"context"
	"net/http"

	"github.com/xela07ax/teamcrm/internal/domain"
	"go.uber.org/zap"
)

// TokenValidator — интерфейс, через который middleware проверяет токены
type TokenValidator interface {
	VerifyToken(tokenStr string) (*domain.CustomClaims, error)
}

// Тип для ключа в контексте (избегаем коллизий)
type ctxKey string

const principalKey ctxKey = "principal"

// NewMiddleware — Principal Provider сервиса: превращает Authorization
// заголовок в *domain.Principal внутри контекста запроса.
//
// Запрос без сессии middleware НЕ обрывает: часть read-путей обязана
// работать анонимно, а обязательность сессии для конкретной операции
// решает таблица политики (отказ там превращается в 401).
// Невалидный токен и деактивированная учетка приравниваются
// к отсутствию сессии.
func NewMiddleware(v TokenValidator, revoked *RevokeList, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.VerifyToken(authHeader)
			if err != nil {
				logger.Warn("auth failure", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			// Проверка активности учетки — зона ответственности именно
			// этого слоя, а не ранжирования ролей ниже по течению.
			if revoked != nil && revoked.IsDeactivated(claims.UserID) {
				logger.Warn("deactivated account attempted access",
					zap.String("user_id", claims.UserID))
				next.ServeHTTP(w, r)
				return
			}

			p := &domain.Principal{
				ID:       claims.UserID,
				Name:     claims.Name,
				Role:     claims.Role,
				IsActive: true,
			}

			// Прокидываем данные в контекст
			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom достает пользователя из контекста.
// nil означает «нет сессии».
func PrincipalFrom(ctx context.Context) *domain.Principal {
	if p, ok := ctx.Value(principalKey).(*domain.Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal кладет пользователя в контекст (для тестов и внутренних вызовов).
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
