package repositories

import (
	stderrors "errors"

	"github.com/mroshb/duo_finder/pkg/errors"
	"gorm.io/gorm"
)

// storeError wraps a failed store call. Missing rows become notFoundCode
// when one is given.
func storeError(err error, message string, notFoundCode ...string) error {
	if len(notFoundCode) > 0 && stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(notFoundCode[0], message)
	}
	return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, message)
}
