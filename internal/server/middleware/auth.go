package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// masterKeyHeader - заголовок, которым клиент передает ключ доступа
const masterKeyHeader = "X-Master-Key"

// AuthMiddleware создает middleware проверки ключа доступа.
// Ключ из заголовка X-Master-Key сверяется с bcrypt-хешем, заданным
// при старте сервера; сам ключ нигде не хранится и не логируется.
func AuthMiddleware(logger *slog.Logger, accessKeyHash []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(masterKeyHeader)
			if key == "" {
				logger.Warn("missing access key header", "remote_addr", r.RemoteAddr)
				writeAuthError(w, "missing access key")
				return
			}

			if err := bcrypt.CompareHashAndPassword(accessKeyHash, []byte(key)); err != nil {
				logger.Warn("access key rejected", "remote_addr", r.RemoteAddr)
				writeAuthError(w, "invalid access key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
