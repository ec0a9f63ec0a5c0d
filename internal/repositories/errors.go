package repositories

import (
	"errors"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"gorm.io/gorm"
)

// translate maps driver errors onto the apperr taxonomy. The gorm connection
// must be opened with TranslateError so duplicate keys surface as
// gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.ErrNotFound
	}
	return err
}
