package galleryserver

import (
	"errors"

	imageapp "github.com/ravengallery/gallery-api/internal/domains/images/application"
	imageports "github.com/ravengallery/gallery-api/internal/domains/images/ports"
	apierrors "github.com/ravengallery/gallery-api/internal/shared/errors"
)

// NewProblemResponder answers gallery errors as RFC 7807 problems, prefixing relative problem
// types with baseURI.
func NewProblemResponder(baseURI string) *apierrors.Responder {
	return apierrors.NewResponder(baseURI, mapImageError)
}

func mapImageError(err error) (apierrors.ProblemDetail, bool) {
	var missing *imageports.NotFoundError
	switch {
	case errors.As(err, &missing):
		return apierrors.NewNotFoundProblem("image", missing.ImageID), true
	case errors.Is(err, imageports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, imageapp.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
