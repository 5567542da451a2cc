package galleryserver

// NewImageRequest is the multipart form of POST /v1/users/:userId/images. The file part is read
// separately once the form is valid.
type NewImageRequest struct {
	UserID string   `json:"-" form:"-" uri:"userId" validate:"required,notblank,max=64"`
	Title  string   `form:"title" validate:"required,notblank,max=200"`
	Tags   []string `form:"tags" validate:"max=20,dive,required,notblank,max=50"`
}

// UpdateImageTagsRequest is the JSON body of PUT /v1/images/:imageId/tags.
type UpdateImageTagsRequest struct {
	ImageID string   `json:"-" form:"-" uri:"imageId" validate:"required,notblank,max=64"`
	Tags    []string `json:"tags" validate:"required,max=20,dive,required,notblank,max=50"`
}

// UpdateImageTitleRequest is the JSON body of PUT /v1/images/:imageId/title.
type UpdateImageTitleRequest struct {
	ImageID string `json:"-" form:"-" uri:"imageId" validate:"required,notblank,max=64"`
	Title   string `json:"title" validate:"required,notblank,max=200"`
}

// TagSearchRequest is the query of GET /v1/tags.
type TagSearchRequest struct {
	SearchText string `form:"searchText" validate:"required,max=50"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// ImageRequest addresses GET /v1/images/:imageId.
type ImageRequest struct {
	ImageID string `json:"-" form:"-" uri:"imageId" validate:"required,notblank,max=64"`
}

// BrowseRequest is the query of GET /v1/images.
type BrowseRequest struct {
	Page       int    `form:"page" validate:"required,min=1"`
	PageSize   int    `form:"pageSize" validate:"required,min=1,max=100"`
	SearchText string `form:"searchText" validate:"max=200"`
}

// RelatedImagesRequest is the path and query of GET /v1/images/:imageId/related.
type RelatedImagesRequest struct {
	ImageID string `json:"-" form:"-" uri:"imageId" validate:"required,notblank,max=64"`
	Limit   int    `form:"limit" validate:"omitempty,min=1,max=50"`
}
