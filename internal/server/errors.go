package server

import (
	"errors"
	"net/http"

	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	plandomain "github.com/Huve14/Go-Moto-sub000/internal/plan/domain"
	rentaldomain "github.com/Huve14/Go-Moto-sub000/internal/rental/domain"
	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	"github.com/gin-gonic/gin"
)

// APIError is an error with an HTTP status and a stable machine code.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Code }

var (
	ErrUnauthorized       = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "unauthorized"}
	ErrNotFound           = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrTooManyRequests    = &APIError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
	ErrServiceUnavailable = &APIError{Status: http.StatusServiceUnavailable, Code: "service_unavailable", Message: "service unavailable"}
)

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "request body could not be parsed"}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: field + ": " + message}
}

// AbortWithError renders any error as a JSON envelope. Domain sentinel errors
// map to 400/404; everything unrecognized is a 500.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal server error"

	switch {
	case isNotFoundError(err):
		status = http.StatusNotFound
		code = err.Error()
		message = "resource not found"
	case isValidationError(err):
		status = http.StatusBadRequest
		code = err.Error()
		message = "invalid request"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": &APIError{Status: status, Code: code, Message: message}})
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, listingdomain.ErrListingNotFound),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound),
		errors.Is(err, rentaldomain.ErrApplicationNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, plandomain.ErrInvalidPlanID),
		errors.Is(err, listingdomain.ErrInvalidListingID),
		errors.Is(err, listingdomain.ErrInvalidSeller),
		errors.Is(err, listingdomain.ErrInvalidTitle),
		errors.Is(err, listingdomain.ErrInvalidPrice),
		errors.Is(err, listingdomain.ErrListingQuota),
		errors.Is(err, subscriptiondomain.ErrInvalidSubscriptionID),
		errors.Is(err, subscriptiondomain.ErrInvalidStatus),
		errors.Is(err, rentaldomain.ErrInvalidApplicationID),
		errors.Is(err, rentaldomain.ErrInvalidListing),
		errors.Is(err, rentaldomain.ErrInvalidApplicant),
		errors.Is(err, rentaldomain.ErrInvalidPlanType),
		errors.Is(err, rentaldomain.ErrInvalidTransition),
		errors.Is(err, rentaldomain.ErrInvalidLead):
		return true
	default:
		return false
	}
}
