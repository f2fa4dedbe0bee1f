// Package handler implements the REST handlers of the stockly API.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/dto"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string, details any) {
	c.JSON(statusCode, dto.NewErrorResponseWithDetails(code, message, details, c.GetString("request_id")))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message, nil)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context) {
	h.Error(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Authentication required", nil)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred", nil)
}

// HandleError converts an error to an HTTP response. Domain errors keep
// their code, message and details; anything else is logged and answered
// with a 500 that leaks nothing.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message, domainErr.Details)
		return
	}

	logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	_ = c.Error(err)
	h.InternalError(c)
}

// HandleBindError answers a request that failed binding. Validator errors
// are reported per field.
func (h *BaseHandler) HandleBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.ValidationDetail, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = dto.ValidationDetail{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: validationMessage(fe),
			}
		}
		h.Error(c, http.StatusBadRequest, shared.CodeValidation, "Request validation failed", details)
		return
	}
	h.BadRequest(c, "Malformed request body: "+err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
}

// actor returns the company and user of the request. It answers 401 and
// returns false when the actor middleware did not run.
func (h *BaseHandler) actor(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	companyID, userID, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c)
		return uuid.Nil, uuid.Nil, false
	}
	return companyID, userID, true
}

// pathID parses a uuid path parameter, answering 400 on failure
func (h *BaseHandler) pathID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+resource+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter, answering 400 on failure
func (h *BaseHandler) queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return nil, false
	}
	return &id, true
}

// pageOf returns the effective page and page size of a listing
func pageOf(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = shared.DefaultFilter().PageSize
	}
	return page, pageSize
}
