package service

import (
	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/validation"
)

// violationError maps a business-rule violation onto the API error
// registry. All violations reject with 422; the violation kind carries
// through unchanged as the error code.
func violationError(v *validation.Violation) *apperr.Error {
	return apperr.Unprocessable(string(v.Kind), v.Message, v.Field)
}
