package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/auth"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor context keys and headers
const (
	ActorCompanyIDKey = "actor_company_id"
	ActorUserIDKey    = "actor_user_id"
	AuthHeaderKey     = "Authorization"
	BearerPrefix      = "Bearer "
	CompanyIDHeader   = "X-Company-ID"
	UserIDHeader      = "X-User-ID"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// ActorConfig configures actor resolution
type ActorConfig struct {
	// Validator checks bearer tokens. Nil disables bearer authentication.
	Validator TokenValidator
	// AllowHeaderActor accepts X-Company-ID / X-User-ID when no bearer
	// token is sent. Development only.
	AllowHeaderActor bool
	Logger           *zap.Logger
}

// Actor resolves the acting company and user of every request from a
// verified bearer token, or from the development headers when allowed.
// Requests without an actor are rejected with 401.
func Actor(cfg ActorConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		companyID, userID, err := resolveActor(c, cfg)
		if err != nil {
			log.Warn("Actor resolution failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString("request_id")),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithDetails(
				shared.CodeUnauthorized,
				authErrorMessage(err),
				nil,
				c.GetString("request_id"),
			))
			return
		}

		c.Set(ActorCompanyIDKey, companyID)
		c.Set(ActorUserIDKey, userID)

		ctx, reqLogger := logger.WithActor(
			c.Request.Context(),
			logger.GetGinLogger(c),
			companyID.String(),
			userID.String(),
		)
		c.Request = c.Request.WithContext(ctx)
		logger.SetGinLogger(c, reqLogger)

		c.Next()
	}
}

var errMissingActor = errors.New("no bearer token or actor headers")

func resolveActor(c *gin.Context, cfg ActorConfig) (uuid.UUID, uuid.UUID, error) {
	if header := c.GetHeader(AuthHeaderKey); header != "" && cfg.Validator != nil {
		if !strings.HasPrefix(header, BearerPrefix) {
			return uuid.Nil, uuid.Nil, auth.ErrInvalidToken
		}
		claims, err := cfg.Validator.ValidateToken(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			return uuid.Nil, uuid.Nil, err
		}
		return claims.Actor()
	}

	if !cfg.AllowHeaderActor {
		return uuid.Nil, uuid.Nil, errMissingActor
	}
	companyRaw, userRaw := c.GetHeader(CompanyIDHeader), c.GetHeader(UserIDHeader)
	if companyRaw == "" || userRaw == "" {
		return uuid.Nil, uuid.Nil, errMissingActor
	}
	companyID, err := uuid.Parse(companyRaw)
	if err != nil {
		return uuid.Nil, uuid.Nil, auth.ErrMissingCompanyID
	}
	userID, err := uuid.Parse(userRaw)
	if err != nil {
		return uuid.Nil, uuid.Nil, auth.ErrMissingUserID
	}
	return companyID, userID, nil
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingCompanyID), errors.Is(err, auth.ErrMissingUserID), errors.Is(err, auth.ErrInvalidClaims):
		return "Invalid actor identity"
	default:
		return "Authentication required"
	}
}

// GetActor returns the actor resolved by the Actor middleware
func GetActor(c *gin.Context) (companyID, userID uuid.UUID, ok bool) {
	rawCompany, exists := c.Get(ActorCompanyIDKey)
	if !exists {
		return uuid.Nil, uuid.Nil, false
	}
	rawUser, _ := c.Get(ActorUserIDKey)
	companyID, ok = rawCompany.(uuid.UUID)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok = rawUser.(uuid.UUID)
	return companyID, userID, ok
}
