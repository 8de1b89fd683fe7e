package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"SpeedReaderwebserver/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "speedread_session"

var ErrInvalidToken = errors.New("invalid session token")

// Claims are fixed at sign-in. Role and status are only refreshed by signing in again.
type Claims struct {
	jwt.RegisteredClaims
	Role   domain.Role          `json:"role"`
	Status domain.AccountStatus `json:"status"`
}

func (c Claims) AccountID() string { return c.Subject }

type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) TokenCodec {
	secretCopy := make([]byte, len(secret))
	copy(secretCopy, secret)
	return TokenCodec{secret: secretCopy, ttl: ttl, now: time.Now}
}

func (c TokenCodec) TTL() time.Duration { return c.ttl }

func (c TokenCodec) Issue(id domain.Identity) (string, error) {
	if id.ID == "" {
		return "", errors.New("issue token: missing account id")
	}
	now := c.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Role:   id.Role,
		Status: id.Status,
	})
	return token.SignedString(c.secret)
}

func (c TokenCodec) Parse(tokenString string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (c TokenCodec) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// TokenFromRequest reads the session token from the cookie, falling back to a
// Bearer Authorization header for non-browser clients.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func SetSessionCookie(w http.ResponseWriter, cookieValue string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
