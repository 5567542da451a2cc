package types

import "github.com/ravengallery/gallery-api/internal/shared/dispatch"

const (
	UploadImageKind      dispatch.CommandKind = "images.upload"
	UpdateImageTagsKind  dispatch.CommandKind = "images.update-tags"
	UpdateImageTitleKind dispatch.CommandKind = "images.update-title"
)

// CommandKinds lists every mutation the images context must handle.
func CommandKinds() []dispatch.CommandKind {
	return []dispatch.CommandKind{UploadImageKind, UpdateImageTagsKind, UpdateImageTitleKind}
}

// UploadImage stores a new image for an owner. Content holds the uploaded bytes read once from
// the request.
type UploadImage struct {
	ImageID  string
	OwnerID  string
	Title    string
	Tags     []string
	Filename string
	Content  []byte
}

func (UploadImage) CommandKind() dispatch.CommandKind { return UploadImageKind }

// UpdateImageTags replaces the tag list of an image.
type UpdateImageTags struct {
	ImageID string
	Tags    []string
}

func (UpdateImageTags) CommandKind() dispatch.CommandKind { return UpdateImageTagsKind }

// UpdateImageTitle retitles an image.
type UpdateImageTitle struct {
	ImageID string
	Title   string
}

func (UpdateImageTitle) CommandKind() dispatch.CommandKind { return UpdateImageTitleKind }
