package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/freekieb7/myat/config"
	"github.com/freekieb7/myat/http"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-Id"

type contextKey int

const (
	requestIDKey contextKey = iota
	subjectKey
)

// RequestID makes sure every request carries an X-Request-Id, keeping the one
// the client sent.
func RequestID() http.Middleware {
	return func(req *http.Request) *http.Response {
		id, ok := req.Header(headerRequestID)
		if !ok || id == "" {
			id = uuid.NewString()
			req.Headers.Set(headerRequestID, id)
		}

		req.SetContext(context.WithValue(req.Context(), requestIDKey, id))
		return nil
	}
}

func RequestIDFrom(req *http.Request) string {
	id, _ := req.Context().Value(requestIDKey).(string)
	return id
}

// AccessLog logs one line per request.
func AccessLog(logger *slog.Logger) http.Middleware {
	return func(req *http.Request) *http.Response {
		logger.InfoContext(req.Context(), "request",
			"method", req.Method,
			"path", req.Path,
			"request_id", RequestIDFrom(req),
		)
		return nil
	}
}

// APILogger logs the details of API calls, including captured parameters.
func APILogger(logger *slog.Logger) http.Middleware {
	return func(req *http.Request) *http.Response {
		attrs := []any{
			"method", req.Method,
			"path", req.Path,
			"headers", map[string]string(req.Headers),
		}
		if len(req.PathParams) > 0 {
			attrs = append(attrs, "params", req.PathParams)
		}

		logger.DebugContext(req.Context(), "api request", attrs...)
		return nil
	}
}

var errUnauthorized = errors.New("unauthorized")

// RequireAuth accepts a bearer token that either equals the configured static
// token or is an HS256 JWT signed with the configured secret. Anything else is
// answered with 401.
func RequireAuth(auth config.AuthConfig) http.Middleware {
	return func(req *http.Request) *http.Response {
		subject, err := authenticate(req, auth)
		if err != nil {
			return http.JSON(http.StatusUnauthorized, `{"error": "Unauthorized"}`)
		}

		req.SetContext(context.WithValue(req.Context(), subjectKey, subject))
		return nil
	}
}

func SubjectFrom(req *http.Request) string {
	subject, _ := req.Context().Value(subjectKey).(string)
	return subject
}

func authenticate(req *http.Request, auth config.AuthConfig) (string, error) {
	header, ok := req.Header("Authorization")
	if !ok {
		return "", errUnauthorized
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", errUnauthorized
	}

	if auth.StaticToken != "" && token == auth.StaticToken {
		return "authenticated", nil
	}

	if auth.JWTSecret == "" {
		return "", errUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", errUnauthorized
	}

	if claims.Subject == "" {
		return "authenticated", nil
	}
	return claims.Subject, nil
}
