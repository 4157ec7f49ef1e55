package timeout

import (
	"context"
	"net/http"
	"time"
)

// Middleware навешивает дедлайн на контекст каждого запроса. Хендлеры и
// слои под ними обязаны уважать ctx, сам middleware ответ не обрывает.
func Middleware(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// r.Context() приходит из BaseContext сервера
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
