package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers"
)

// HeaderUserID заголовок с ID оператора, проставляемый API-шлюзом
const HeaderUserID = "X-User-ID"

type userIDKey struct{}

// Auth пропускает запрос только с положительным X-User-ID и кладёт его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if raw == "" {
			handlers.RespondUnauthorized(w, "missing "+HeaderUserID+" header")
			return
		}
		userID, ok := ParseUserID(r)
		if !ok {
			handlers.RespondUnauthorized(w, "invalid "+HeaderUserID+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// ParseUserID читает X-User-ID без проверки маршрута; false для пустого или не положительного значения
func ParseUserID(r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(HeaderUserID)), 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// WithUserID кладёт ID оператора в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID достаёт ID оператора, проставленный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}
