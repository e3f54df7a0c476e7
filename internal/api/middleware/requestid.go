package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDKey ключ контекста с ID запроса
const RequestIDKey contextKey = "requestID"

const headerRequestID = "X-Request-ID"

// RequestID middleware присваивает каждому запросу идентификатор
// Пришедший от клиента X-Request-ID сохраняется, отсутствующий - генерируется
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(headerRequestID, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext возвращает ID запроса, положенный RequestID middleware
func RequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	return requestID, ok
}
