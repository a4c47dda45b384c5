package service

import (
	"errors"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

func validationError(err error) error {
	return apperror.Validation(utils.Describe(err))
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
