package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "box-skill-whisper/internal/api/errors"
)

// Validator is implemented by requests with rules beyond struct tags.
type Validator interface {
	Validate() error
}

var tagMessages = map[string]string{
	"required": "is required",
	"oneof":    "must be one of the allowed values",
	"min":      "is too short",
	"gte":      "must not be negative",
}

var registerJSONNames sync.Once

// ValidateRequest binds the JSON body into req, checks its binding tags and
// then its Validate method. Field names in the error details use the JSON
// path, e.g. "source.id".
func ValidateRequest(c *gin.Context, req interface{}) error {
	registerJSONNames.Do(useJSONFieldNames)

	if err := c.ShouldBindJSON(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apierrors.NewValidationError("Validation failed", map[string]string{"request": "invalid JSON format"})
		}

		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			msg, ok := tagMessages[fe.Tag()]
			if !ok {
				msg = "is invalid"
			}
			details[fieldPath(fe.Namespace())] = msg
		}
		return apierrors.NewValidationError("Validation failed", details)
	}

	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// useJSONFieldNames makes validator report fields by their json tag.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
}

// fieldPath drops the root struct name: "WebhookRequest.source.id" becomes "source.id".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
