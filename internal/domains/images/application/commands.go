package application

import (
	"context"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ravengallery/gallery-api/internal/domains/images/application/types"
	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
)

// Commands holds the mutation handlers of the images bounded context.
type Commands struct {
	repo      ports.Repository
	blobs     ports.BlobStore
	registrar ports.ImageRegistrar
}

// NewCommands wires the mutation handlers. registrar records the metadata of new uploads, either
// inline or through a durable workflow.
func NewCommands(repo ports.Repository, blobs ports.BlobStore, registrar ports.ImageRegistrar) *Commands {
	return &Commands{repo: repo, blobs: blobs, registrar: registrar}
}

// UploadImage stores the uploaded bytes and registers the image metadata. When registration fails
// the stored blob is removed again and the registration error is returned.
func (c *Commands) UploadImage(ctx context.Context, cmd types.UploadImage) error {
	asset := domain.Asset{
		Filename:    cleanFilename(cmd.Filename),
		ContentType: mimetype.Detect(cmd.Content).String(),
		Size:        int64(len(cmd.Content)),
		StorageKey:  StorageKey(cmd.OwnerID, cmd.ImageID, cmd.Filename),
	}
	image, err := domain.NewImage(cmd.ImageID, cmd.OwnerID, cmd.Title, cmd.Tags, asset)
	if err != nil {
		return mapError(err)
	}
	blob := ports.Blob{Key: asset.StorageKey, ContentType: asset.ContentType, Content: cmd.Content}
	if err := c.blobs.Put(ctx, blob); err != nil {
		return err
	}
	if err := c.registrar.Register(ctx, image); err != nil {
		_ = c.blobs.Delete(ctx, asset.StorageKey)
		return mapError(err)
	}
	return nil
}

// UpdateImageTags replaces the tag list of an existing image.
func (c *Commands) UpdateImageTags(ctx context.Context, cmd types.UpdateImageTags) error {
	projection, err := c.repo.GetByID(ctx, cmd.ImageID)
	if err != nil {
		return mapError(err)
	}
	if err := projection.Entity.Retag(cmd.Tags); err != nil {
		return mapError(err)
	}
	if _, err := c.repo.Save(ctx, projection.Entity); err != nil {
		return mapError(err)
	}
	return nil
}

// UpdateImageTitle retitles an existing image.
func (c *Commands) UpdateImageTitle(ctx context.Context, cmd types.UpdateImageTitle) error {
	projection, err := c.repo.GetByID(ctx, cmd.ImageID)
	if err != nil {
		return mapError(err)
	}
	if err := projection.Entity.Retitle(cmd.Title); err != nil {
		return mapError(err)
	}
	if _, err := c.repo.Save(ctx, projection.Entity); err != nil {
		return mapError(err)
	}
	return nil
}

// StorageKey builds the blob key of an image: images/<owner>/<image>/<file>.
func StorageKey(ownerID, imageID, filename string) string {
	return path.Join("images", ownerID, imageID, cleanFilename(filename))
}

func cleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "original"
	}
	return name
}
