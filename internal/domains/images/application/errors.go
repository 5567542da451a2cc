package application

import (
	"errors"
	"fmt"

	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid image input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrEmptyOwner) ||
		errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrTitleTooLong) ||
		errors.Is(err, domain.ErrTooManyTags) ||
		errors.Is(err, domain.ErrInvalidTag) ||
		errors.Is(err, domain.ErrMissingAsset) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
