package feeds

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationError is reported to the caller as a 400 with Message
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New()

// Messages per request field, keyed by the validator's struct namespace
var validationMessages = map[string]string{
	"CreateFeedRequest.AppId":   "Invalid app Id",
	"CreateFeedRequest.Caption": "Caption should be at least 5 characters long",
	"AddCommentRequest.Comment": "Invalid comment",
}

// validateRequest checks the validate tags of req and returns a
// ValidationError for the first failing field, in field order.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		if msg, ok := validationMessages[first.StructNamespace()]; ok {
			return &ValidationError{Message: msg}
		}
		return &ValidationError{Message: first.Error()}
	}
	return err
}
