package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Заголовки, которые выставляет шлюз после аутентификации
const (
	HeaderUserID  = "X-User-ID"
	HeaderCanEdit = "X-Can-Edit"
)

type contextKey string

const actorKey contextKey = "actor"

// Auth требует X-User-ID и кладет Actor в контекст запроса
// Роль не вычисляется: флаг X-Can-Edit передается как есть
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if raw == "" {
			handlers.RespondUnauthorized(w, "missing "+HeaderUserID+" header")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "invalid "+HeaderUserID+" header")
			return
		}

		actor := domain.Actor{
			UserID:  userID,
			CanEdit: parseFlag(r.Header.Get(HeaderCanEdit)),
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor возвращает контекст с актором
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor извлекает актора из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}

func parseFlag(value string) bool {
	ok, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && ok
}
