package types

import (
	"time"

	"github.com/ravengallery/gallery-api/internal/shared/dispatch"
)

const (
	TagCollectionViewKind dispatch.ViewKind = "images.tag-collection"
	ImageViewKind         dispatch.ViewKind = "images.image"
	BrowseViewKind        dispatch.ViewKind = "images.browse"
	RelatedImagesViewKind dispatch.ViewKind = "images.related"
)

// TagCollectionItem is one tag with the number of images carrying it.
type TagCollectionItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagCollectionView lists tags matching a search.
type TagCollectionView struct {
	Items []TagCollectionItem `json:"items"`
}

func (TagCollectionView) ViewKind() dispatch.ViewKind { return TagCollectionViewKind }

// ImageView is the full read model of one image.
type ImageView struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ImageView) ViewKind() dispatch.ViewKind { return ImageViewKind }

// BrowseItem is an image summary inside a browse page.
type BrowseItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Filename string   `json:"filename"`
	Tags     []string `json:"tags"`
}

// BrowseView is one page of images.
type BrowseView struct {
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	SearchText string       `json:"searchText"`
	Total      int64        `json:"total"`
	Items      []BrowseItem `json:"items"`
}

func (BrowseView) ViewKind() dispatch.ViewKind { return BrowseViewKind }

// RelatedImageItem is an image sharing tags with the subject image.
type RelatedImageItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Filename   string `json:"filename"`
	SharedTags int    `json:"sharedTags"`
}

// RelatedImagesView lists images related to ImageID, most shared tags first.
type RelatedImagesView struct {
	ImageID string             `json:"imageId"`
	Items   []RelatedImageItem `json:"items"`
}

func (RelatedImagesView) ViewKind() dispatch.ViewKind { return RelatedImagesViewKind }
