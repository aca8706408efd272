package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	accountdomain "github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/internal/auth/token"
	invoicedomain "github.com/smallbiznis/taxdesk/internal/invoice/domain"
	"github.com/smallbiznis/taxdesk/internal/observability"
	taxprofiledomain "github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
	"github.com/smallbiznis/taxdesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrMissingToken   = errors.New("missing_token")
	ErrInvalidToken   = errors.New("invalid_token")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware turns errors collected via AbortWithError into the
// response envelope. Handlers never write error bodies themselves.
func ErrorHandlingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)

		var errorID string
		if status == http.StatusInternalServerError {
			// The error id is distinct from the request id: one names the
			// failure, the other names the request that hit it.
			errorID = uuid.NewString()
			log.Error("unexpected error",
				zap.String("error_id", errorID),
				zap.String("request_id", observability.RequestIDFromContext(c.Request.Context())),
				zap.Error(lastErr.Err),
			)
		}

		respondError(c, status, message, errorID)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized, "Missing token"
	case errors.Is(err, ErrInvalidToken),
		errors.Is(err, token.ErrInvalid),
		errors.Is(err, token.ErrExpired):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, accountdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"

	case errors.Is(err, accountdomain.ErrEmailTaken):
		return http.StatusConflict, "Email already used"
	case errors.Is(err, db.ErrDuplicateKey):
		return http.StatusConflict, "Conflict"

	case errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, taxprofiledomain.ErrAccountNotFound):
		return http.StatusNotFound, "Account not found"
	case errors.Is(err, taxprofiledomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrTaxProfileNotFound):
		return http.StatusNotFound, "Tax profile not found"
	case errors.Is(err, invoicedomain.ErrNotFound):
		return http.StatusNotFound, "Invoice not found"
	case errors.Is(err, db.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Not found"

	case isValidationError(err):
		return http.StatusBadRequest, validationMessage(err)

	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, accountdomain.ErrInvalidID),
		errors.Is(err, accountdomain.ErrInvalidEmail),
		errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidPassword),
		errors.Is(err, taxprofiledomain.ErrInvalidID),
		errors.Is(err, taxprofiledomain.ErrInvalidAccountID),
		errors.Is(err, taxprofiledomain.ErrInvalidName),
		errors.Is(err, taxprofiledomain.ErrInvalidTaxIDNumber),
		errors.Is(err, taxprofiledomain.ErrInvalidAddress),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidTaxProfileID),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, invoicedomain.ErrInvalidStatus):
		return true
	default:
		return false
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "Invalid request body"
	case errors.Is(err, accountdomain.ErrInvalidID),
		errors.Is(err, taxprofiledomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidID):
		return "Invalid id"
	case errors.Is(err, accountdomain.ErrInvalidEmail):
		return "Invalid email"
	case errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, taxprofiledomain.ErrInvalidName):
		return "Invalid name"
	case errors.Is(err, accountdomain.ErrInvalidPassword):
		return "Invalid password"
	case errors.Is(err, taxprofiledomain.ErrInvalidAccountID):
		return "Invalid account id"
	case errors.Is(err, taxprofiledomain.ErrInvalidTaxIDNumber):
		return "Invalid tax id number"
	case errors.Is(err, taxprofiledomain.ErrInvalidAddress):
		return "Invalid address"
	case errors.Is(err, invoicedomain.ErrInvalidTaxProfileID):
		return "Invalid tax profile id"
	case errors.Is(err, invoicedomain.ErrInvalidAmount):
		return "Invalid amount"
	case errors.Is(err, invoicedomain.ErrInvalidStatus):
		return "Invalid status"
	default:
		return "Invalid request"
	}
}
