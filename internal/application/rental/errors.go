package rental

import (
	"errors"

	"github.com/rentmgr/backend/internal/domain/shared"
)

// codeInternal marks failures that carry no domain code
const codeInternal = "INTERNAL_ERROR"

func invalidInput(message string) *shared.DomainError {
	return shared.NewDomainError(shared.ErrInvalidInput.Code, message)
}

// describe splits err into the code and message reported to callers
func describe(err error) (string, string) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code, err.Error()
	}
	return codeInternal, err.Error()
}
