package middleware

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/itvlab/lab-scheduler/internal/api/handlers"
)

const (
	// HeaderAdminSecret заголовок с административным секретом
	HeaderAdminSecret = "X-Admin-Secret"

	msgForbidden      = "Acesso negado."
	msgAdminDisabled  = "Funções administrativas desabilitadas."
	maxAdminBodyBytes = 1 << 20
)

// AdminAuth проверяет общий административный секрет.
// Секрет ищется в query "secret", заголовке X-Admin-Secret или поле "secret" JSON тела.
// Если задан secretHash, сравнение идет через bcrypt, иначе за постоянное время с secret.
type AdminAuth struct {
	secret     []byte
	secretHash []byte
	logger     Logger
}

func NewAdminAuth(secret, secretHash string, logger Logger) *AdminAuth {
	a := &AdminAuth{logger: logger}
	if secret != "" {
		a.secret = []byte(secret)
	}
	if secretHash != "" {
		a.secretHash = []byte(secretHash)
	}
	return a
}

// Enabled сообщает, настроен ли секрет
func (a *AdminAuth) Enabled() bool {
	return len(a.secret) > 0 || len(a.secretHash) > 0
}

// Middleware возвращает 403, если секрет не настроен или не совпал
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			a.logger.Warn("%s %s - Admin access attempted while disabled", r.Method, r.URL.Path)
			handlers.RespondForbidden(w, msgAdminDisabled)
			return
		}

		provided, err := extractSecret(r)
		if err != nil {
			a.logger.Warn("%s %s - Failed to read body: %v", r.Method, r.URL.Path, err)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}

		if provided == "" || !a.check(provided) {
			a.logger.Warn("%s %s - Invalid admin secret from %s", r.Method, r.URL.Path, r.RemoteAddr)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *AdminAuth) check(provided string) bool {
	if len(a.secretHash) > 0 {
		return bcrypt.CompareHashAndPassword(a.secretHash, []byte(provided)) == nil
	}
	return subtle.ConstantTimeCompare(a.secret, []byte(provided)) == 1
}

// extractSecret читает секрет из запроса. Тело JSON буферизуется и возвращается в r.Body.
func extractSecret(r *http.Request) (string, error) {
	if s := r.URL.Query().Get("secret"); s != "" {
		return s, nil
	}
	if s := r.Header.Get(HeaderAdminSecret); s != "" {
		return s, nil
	}
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxAdminBodyBytes))
	_ = r.Body.Close()
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Secret string `json:"secret"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil
	}
	return payload.Secret, nil
}
