package galleryserver

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	imagetypes "github.com/ravengallery/gallery-api/internal/domains/images/application/types"
	"github.com/ravengallery/gallery-api/internal/shared/dispatch"
	apierrors "github.com/ravengallery/gallery-api/internal/shared/errors"
	"github.com/ravengallery/gallery-api/internal/shared/validation"
)

// DefaultMaxUploadBytes bounds an uploaded image when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead int64 = 1 << 20

// ImageAPI is the dispatch gate of the gallery: it validates each request, rejects it without side
// effects when invalid, and otherwise hands a command to the invoker or an input to the view
// repository.
type ImageAPI struct {
	commands       dispatch.CommandInvoker
	views          dispatch.ViewRepository
	responder      *apierrors.Responder
	maxUploadBytes int64
	newID          func() string
}

// ImageAPIOption configures an ImageAPI.
type ImageAPIOption func(*ImageAPI)

// WithMaxUploadBytes bounds the size of an uploaded file.
func WithMaxUploadBytes(limit int64) ImageAPIOption {
	return func(api *ImageAPI) {
		if limit > 0 {
			api.maxUploadBytes = limit
		}
	}
}

// WithIDGenerator overrides how new image identifiers are minted.
func WithIDGenerator(newID func() string) ImageAPIOption {
	return func(api *ImageAPI) {
		if newID != nil {
			api.newID = newID
		}
	}
}

// WithResponder overrides the problem responder.
func WithResponder(r *apierrors.Responder) ImageAPIOption {
	return func(api *ImageAPI) {
		if r != nil {
			api.responder = r
		}
	}
}

// NewImageAPI creates an ImageAPI dispatching to commands and views.
func NewImageAPI(commands dispatch.CommandInvoker, views dispatch.ViewRepository, opts ...ImageAPIOption) ImageAPI {
	api := ImageAPI{
		commands:       commands,
		views:          views,
		responder:      NewProblemResponder(""),
		maxUploadBytes: DefaultMaxUploadBytes,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&api)
		}
	}
	return api
}

// Post /v1/users/:userId/images
// Upload a new image for a user
func (api *ImageAPI) NewImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, api.maxUploadBytes+multipartOverhead)

	var req NewImageRequest
	err := c.ShouldBindWith(&req, binding.FormMultipart)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.responder.Respond(c, api.tooLargeProblem())
		return
	}
	result := bindFailure("body", err).Merge(bindPathParam(c, "userId", &req.UserID))
	req.Tags = splitTags(req.Tags)
	if !api.accept(c, result.Merge(validation.Validate(req))) {
		return
	}

	header, err := c.FormFile("file")
	if err != nil || header == nil || header.Size == 0 {
		api.responder.MissingResource(c, "file")
		return
	}
	content, err := api.readUpload(header)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}

	cmd := imagetypes.UploadImage{
		ImageID:  api.newID(),
		OwnerID:  req.UserID,
		Title:    req.Title,
		Tags:     req.Tags,
		Filename: header.Filename,
		Content:  content,
	}
	if err := api.commands.Execute(c.Request.Context(), cmd); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Header("Location", "/v1/images/"+cmd.ImageID)
	c.Status(http.StatusCreated)
}

// Put /v1/images/:imageId/tags
// Replace the tags of an image
func (api *ImageAPI) UpdateImageTags(c *gin.Context) {
	var req UpdateImageTagsRequest
	result := bindFailure("body", c.ShouldBindJSON(&req))
	result = result.Merge(bindPathParam(c, "imageId", &req.ImageID))
	if !api.accept(c, result.Merge(validation.Validate(req))) {
		return
	}
	cmd := imagetypes.UpdateImageTags{ImageID: req.ImageID, Tags: req.Tags}
	if err := api.commands.Execute(c.Request.Context(), cmd); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Put /v1/images/:imageId/title
// Retitle an image
func (api *ImageAPI) UpdateImageTitle(c *gin.Context) {
	var req UpdateImageTitleRequest
	result := bindFailure("body", c.ShouldBindJSON(&req))
	result = result.Merge(bindPathParam(c, "imageId", &req.ImageID))
	if !api.accept(c, result.Merge(validation.Validate(req))) {
		return
	}
	cmd := imagetypes.UpdateImageTitle{ImageID: req.ImageID, Title: req.Title}
	if err := api.commands.Execute(c.Request.Context(), cmd); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/tags
// Search tags by prefix
func (api *ImageAPI) GetTags(c *gin.Context) {
	var req TagSearchRequest
	result := bindFailure("query", c.ShouldBindQuery(&req))
	if !api.accept(c, result.Merge(validation.Validate(req))) {
		return
	}
	input := imagetypes.TagSearchInput{SearchText: req.SearchText, Limit: req.Limit}
	respondView[imagetypes.TagCollectionView](c, api, input)
}

// Get /v1/images/:imageId
// Find an image by ID
func (api *ImageAPI) GetImage(c *gin.Context) {
	var req ImageRequest
	result := bindPathParam(c, "imageId", &req.ImageID)
	if !api.accept(c, result.Merge(validation.Validate(req))) {
		return
	}
	respondView[imagetypes.ImageView](c, api, imagetypes.ImageByIDInput{ImageID: req.ImageID})
}

// Get /v1/images
// Browse images page by page
func (api *ImageAPI) GetBrowseData(c *gin.Context) {
	var req BrowseRequest
	result := bindFailure("query", c.ShouldBindQuery(&req))
	if !api.accept(c, result.Merge(validation.Validate(req))) {
		return
	}
	input := imagetypes.BrowsePageInput{Page: req.Page, PageSize: req.PageSize, SearchText: req.SearchText}
	respondView[imagetypes.BrowseView](c, api, input)
}

// Get /v1/images/:imageId/related
// List images sharing tags with an image
func (api *ImageAPI) GetRelatedImages(c *gin.Context) {
	var req RelatedImagesRequest
	result := bindFailure("query", c.ShouldBindQuery(&req))
	result = result.Merge(bindPathParam(c, "imageId", &req.ImageID))
	if !api.accept(c, result.Merge(validation.Validate(req))) {
		return
	}
	input := imagetypes.RelatedImagesInput{ImageID: req.ImageID, Limit: req.Limit}
	respondView[imagetypes.RelatedImagesView](c, api, input)
}

// accept answers a validation problem and reports false when result carries failures.
func (api *ImageAPI) accept(c *gin.Context, result validation.Result) bool {
	if result.Valid() {
		return true
	}
	api.responder.ValidationFailed(c, result.Fields())
	return false
}

func (api *ImageAPI) tooLargeProblem() apierrors.ProblemDetail {
	return apierrors.ErrTooLarge.WithDetail(fmt.Sprintf("upload exceeds %d bytes", api.maxUploadBytes))
}

// readUpload reads the file part once, bounded by the upload limit, and closes it.
func (api *ImageAPI) readUpload(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > api.maxUploadBytes {
		return nil, api.tooLargeProblem()
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, api.maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > api.maxUploadBytes {
		return nil, api.tooLargeProblem()
	}
	return content, nil
}

func respondView[V dispatch.View](c *gin.Context, api *ImageAPI, input dispatch.InputModel) {
	view, err := dispatch.Load[V](c.Request.Context(), api.views, input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// bindFailure records a decoding error of the request body or query under field.
func bindFailure(field string, err error) validation.Result {
	if err == nil {
		return validation.Result{}
	}
	return validation.Result{}.With(field, err.Error())
}

// bindPathParam decodes a simple-style path parameter into dest.
func bindPathParam(c *gin.Context, name string, dest *string) validation.Result {
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), dest, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return validation.Result{}.With(name, err.Error())
	}
	return validation.Result{}
}

// splitTags accepts repeated tags fields as well as a single comma-separated value.
func splitTags(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, tag := range strings.Split(entry, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
