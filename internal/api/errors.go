package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/provider"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// operationErrors holds the user-facing wording for one endpoint
type operationErrors struct {
	failed   string
	unparsed string
}

var (
	identifyErrors = operationErrors{
		failed:   "Failed to identify ingredients",
		unparsed: "Failed to parse ingredient data from AI response",
	}
	recipeErrors = operationErrors{
		failed:   "Failed to generate recipes",
		unparsed: "Failed to parse recipe data from AI response",
	}
	chatErrors = operationErrors{
		failed: "Failed to process chat message",
	}
)

// badRequest answers a failed bind. Oversized bodies get 413; everything
// else gets 400 with the endpoint's message and the validator's detail.
func badRequest(c *gin.Context, err error, message string) {
	if middleware.IsBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
			Error:   "Request body too large",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   message,
		Message: describeBindError(err),
	})
}

func describeBindError(err error) string {
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace reads like HealthChatRequest.Messages[0].Role
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msgs = append(msgs, fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// failedOn reports whether a bind error concerns the named request field,
// either as a validation rule or as a JSON type mismatch
func failedOn(err error, structField, jsonField string) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].StructField() == structField
	}
	var terr *json.UnmarshalTypeError
	if errors.As(err, &terr) {
		return terr.Field == jsonField || strings.HasPrefix(terr.Field, jsonField+".")
	}
	return false
}

// respondError translates service errors into response bodies
func respondError(c *gin.Context, err error, ops operationErrors) {
	_ = c.Error(err).SetType(gin.ErrorTypePrivate)

	if errors.Is(err, service.ErrInvalidImage) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "Invalid image data",
			Message: err.Error(),
		})
		return
	}

	var perr *provider.Error
	if errors.As(err, &perr) {
		switch perr.Kind {
		case provider.BackendUnavailable:
			c.JSON(perr.StatusCode(), types.ErrorResponse{
				Error:   "AI backend unavailable",
				Message: perr.Error(),
			})
			return
		case provider.UnparsableResponse:
			if ops.unparsed != "" {
				c.JSON(http.StatusInternalServerError, types.ErrorResponse{
					Error:   ops.unparsed,
					Details: perr.Raw,
				})
				return
			}
		}
	}

	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Error:   ops.failed,
		Message: err.Error(),
	})
}
