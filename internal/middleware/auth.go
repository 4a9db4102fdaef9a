package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	claimsCtxKey      = contextKey("userClaims")
	bearerTokenCtxKey = contextKey("bearerToken")
)

// TokenDecoder extracts identity claims from a bearer token.
type TokenDecoder interface {
	Decode(tokenString string) (*domain.UserClaims, error)
}

// UnverifiedDecoder decodes a JWT without checking its signature. The API
// gateway in front of this service has already verified it; this service only
// needs the claims.
type UnverifiedDecoder struct{}

func (UnverifiedDecoder) Decode(tokenString string) (*domain.UserClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return mapClaims(claims), nil
}

// HMACDecoder verifies the token signature with a shared secret before
// extracting claims. Used in deployments without a verifying gateway.
type HMACDecoder struct {
	Secret []byte
}

func (d HMACDecoder) Decode(tokenString string) (*domain.UserClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return d.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	return mapClaims(claims), nil
}

func mapClaims(claims jwt.MapClaims) *domain.UserClaims {
	str := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := claims[k].(string); ok && v != "" {
				return v
			}
		}
		return ""
	}
	subscription := str("subscription")
	if subscription == "" {
		subscription = "basico"
	}
	return &domain.UserClaims{
		ID:           str("id", "userId", "sub"),
		Name:         str("name"),
		Email:        str("email"),
		IBAN:         str("iban"),
		PhoneNumber:  str("phoneNumber"),
		Subscription: subscription,
	}
}

// ClaimsExtractionMiddleware decodes the Authorization bearer token, when
// present, and attaches the resulting claims and raw token to the request
// context. A missing or undecodable token is not an error here: endpoints
// that require identity enforce it with RequireIBANClaims.
func ClaimsExtractionMiddleware(decoder TokenDecoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Warn("Authorization header format invalid")
			c.Next()
			return
		}

		claims, err := decoder.Decode(parts[1])
		if err != nil {
			logger.Warn("Failed to decode bearer token", slog.String("error", err.Error()))
			c.Next()
			return
		}

		ctx := context.WithValue(c.Request.Context(), claimsCtxKey, claims)
		ctx = context.WithValue(ctx, bearerTokenCtxKey, parts[1])

		// Enrich the request logger with the caller identity
		enriched := logger.With(slog.String("caller_id", claims.ID))
		ctx = context.WithValue(ctx, loggerCtxKey, enriched)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireIBANClaims aborts with 401 unless the request carries decoded claims
// with an IBAN.
func RequireIBANClaims() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaimsFromContext(c)
		if !ok || claims.IBAN == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request without valid IBAN identity")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "valid authentication with IBAN is required"})
			return
		}
		c.Next()
	}
}

// GetClaimsFromContext retrieves the caller's decoded claims, if any.
func GetClaimsFromContext(c *gin.Context) (*domain.UserClaims, bool) {
	claims, ok := c.Request.Context().Value(claimsCtxKey).(*domain.UserClaims)
	return claims, ok && claims != nil
}

// GetBearerTokenFromContext retrieves the raw bearer token for forwarding to
// upstream collaborators. Empty when the request was anonymous.
func GetBearerTokenFromContext(c *gin.Context) string {
	token, _ := c.Request.Context().Value(bearerTokenCtxKey).(string)
	return token
}
