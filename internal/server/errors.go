package server

import (
	"errors"
	"net/http"
	"strings"

	importerdomain "github.com/labsupply/smartpricing/internal/importer/domain"
	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
	recdomain "github.com/labsupply/smartpricing/internal/recommendation/domain"
	shippingdomain "github.com/labsupply/smartpricing/internal/shipping/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts errors recorded on the context into
// the JSON error envelope. Handlers that already wrote a body win.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if mhErr := asMissingHeaders(err); mhErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "missing required headers",
			Errors:  missingHeaderDetails(mhErr),
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, recdomain.ErrDuplicateSKU):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func asMissingHeaders(err error) *importerdomain.MissingHeadersError {
	var mhErr *importerdomain.MissingHeadersError
	if errors.As(err, &mhErr) && mhErr != nil {
		return mhErr
	}
	return nil
}

func missingHeaderDetails(err *importerdomain.MissingHeadersError) []ValidationError {
	out := make([]ValidationError, 0, len(err.MissingHeaders))
	for _, h := range err.MissingHeaders {
		out = append(out, ValidationError{
			Field:   h,
			Code:    "missing_header",
			Message: "required header is missing",
		})
	}
	return out
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case errors.Is(err, invoicedomain.ErrNoLineItems),
		errors.Is(err, invoicedomain.ErrInvalidQuantity),
		errors.Is(err, invoicedomain.ErrInvalidUnitPrice),
		errors.Is(err, invoicedomain.ErrInvalidSegment),
		errors.Is(err, invoicedomain.ErrInvalidFeeType):
		return true
	case errors.Is(err, shippingdomain.ErrInvalidServiceLevel),
		errors.Is(err, shippingdomain.ErrMissingLocation):
		return true
	case errors.Is(err, importerdomain.ErrNoRows):
		return true
	case errors.Is(err, recdomain.ErrInvalidSKU),
		errors.Is(err, recdomain.ErrInvalidPrice),
		errors.Is(err, recdomain.ErrInvalidQuery),
		errors.Is(err, recdomain.ErrNoLineItems),
		errors.Is(err, recdomain.ErrInvalidSegment):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "no_line_items":
		return "items"
	case "no_rows":
		return "rows"
	case "missing_location":
		return "destination_country"
	case "invalid_unit_price":
		return "unit_price"
	case "invalid_service_level":
		return "service_level"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "no_line_items":
		return "at least one line item is required"
	case "no_rows":
		return "at least one data row is required"
	case "missing_location":
		return "origin and destination countries are required"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog labels request errors for the access log.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "internal_error", payload.Type
	}
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
