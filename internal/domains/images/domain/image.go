package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength = 200
	MaxTags        = 20
	MaxTagLength   = 50
)

// Asset describes the stored binary behind an image.
type Asset struct {
	Filename    string
	ContentType string
	Size        int64
	StorageKey  string
}

// Image is the aggregate managed by the images bounded context.
type Image struct {
	ID      string
	OwnerID string
	Title   string
	Tags    []string
	Asset   Asset
}

var (
	ErrEmptyID      = errors.New("image id is required")
	ErrEmptyOwner   = errors.New("image owner is required")
	ErrEmptyTitle   = errors.New("image title is required")
	ErrTitleTooLong = errors.New("image title is too long")
	ErrTooManyTags  = errors.New("too many tags")
	ErrInvalidTag   = errors.New("tags must be non-blank and at most 50 characters")
	ErrMissingAsset = errors.New("image asset is required")
)

// NewImage validates the invariants and builds a new Image aggregate.
func NewImage(id, ownerID, title string, tags []string, asset Asset) (*Image, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrEmptyOwner
	}
	if strings.TrimSpace(asset.StorageKey) == "" || asset.Size <= 0 {
		return nil, ErrMissingAsset
	}
	img := &Image{ID: id, OwnerID: ownerID, Asset: asset}
	if err := img.Retitle(title); err != nil {
		return nil, err
	}
	if err := img.Retag(tags); err != nil {
		return nil, err
	}
	return img, nil
}

// Retitle replaces the title.
func (i *Image) Retitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	i.Title = title
	return nil
}

// Retag swaps the tag list, keeping the caller's order.
func (i *Image) Retag(tags []string) error {
	if len(tags) > MaxTags {
		return ErrTooManyTags
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" || utf8.RuneCountInString(tag) > MaxTagLength {
			return ErrInvalidTag
		}
	}
	i.Tags = append([]string{}, tags...)
	return nil
}

// SharedTags counts tags present on both images, case-insensitively.
func (i *Image) SharedTags(other *Image) int {
	if other == nil || len(i.Tags) == 0 || len(other.Tags) == 0 {
		return 0
	}
	own := make(map[string]struct{}, len(i.Tags))
	for _, tag := range i.Tags {
		own[strings.ToLower(tag)] = struct{}{}
	}
	shared := 0
	seen := make(map[string]struct{}, len(other.Tags))
	for _, tag := range other.Tags {
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := own[key]; ok {
			shared++
		}
	}
	return shared
}

// Clone returns a deep copy.
func (i *Image) Clone() *Image {
	if i == nil {
		return nil
	}
	clone := *i
	if len(i.Tags) > 0 {
		clone.Tags = append([]string{}, i.Tags...)
	}
	return &clone
}
