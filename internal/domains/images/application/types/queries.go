package types

import "github.com/ravengallery/gallery-api/internal/shared/dispatch"

const (
	TagSearchKind     dispatch.InputKind = "images.tag-search"
	ImageByIDKind     dispatch.InputKind = "images.by-id"
	BrowsePageKind    dispatch.InputKind = "images.browse"
	RelatedImagesKind dispatch.InputKind = "images.related"
)

const (
	DefaultTagLimit     = 20
	DefaultRelatedLimit = 12
)

// InputKinds lists every query the images context must answer.
func InputKinds() []dispatch.InputKind {
	return []dispatch.InputKind{TagSearchKind, ImageByIDKind, BrowsePageKind, RelatedImagesKind}
}

// TagSearchInput looks up tags whose name starts with SearchText.
type TagSearchInput struct {
	SearchText string
	Limit      int
}

func (TagSearchInput) InputKind() dispatch.InputKind { return TagSearchKind }
func (TagSearchInput) PairedView() dispatch.ViewKind { return TagCollectionViewKind }

// ImageByIDInput references a single image.
type ImageByIDInput struct {
	ImageID string
}

func (ImageByIDInput) InputKind() dispatch.InputKind { return ImageByIDKind }
func (ImageByIDInput) PairedView() dispatch.ViewKind { return ImageViewKind }

// BrowsePageInput pages through images, optionally narrowed by a title or tag search.
type BrowsePageInput struct {
	Page       int
	PageSize   int
	SearchText string
}

func (BrowsePageInput) InputKind() dispatch.InputKind { return BrowsePageKind }
func (BrowsePageInput) PairedView() dispatch.ViewKind { return BrowseViewKind }

// Offset returns the zero-based index of the first item on the page.
func (in BrowsePageInput) Offset() int {
	if in.Page <= 1 {
		return 0
	}
	return (in.Page - 1) * in.PageSize
}

// RelatedImagesInput finds images sharing tags with ImageID.
type RelatedImagesInput struct {
	ImageID string
	Limit   int
}

func (RelatedImagesInput) InputKind() dispatch.InputKind { return RelatedImagesKind }
func (RelatedImagesInput) PairedView() dispatch.ViewKind { return RelatedImagesViewKind }
