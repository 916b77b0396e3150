package dto

import (
	"fmt"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance behind every request's Validate method.
var validate = validator.New(validator.WithRequiredStructEnabled())

var errExactlyOneFilterMode = fmt.Errorf("%w: exactly one of segment, all or any must be set", apperrors.ErrValidation)

// validateStruct runs validator tags and wraps failures in ErrValidation so
// callers can classify them with errors.Is.
func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
