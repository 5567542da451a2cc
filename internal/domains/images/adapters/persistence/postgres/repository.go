package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ravengallery/gallery-api/internal/domains/images/domain"
	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
	"github.com/ravengallery/gallery-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists image metadata in PostgreSQL using GORM-mapped columns. The schema is
// owned by the migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type imageRecord struct {
	ID          string         `gorm:"primaryKey;column:id;size:64"`
	OwnerID     string         `gorm:"column:owner_id;size:64;index"`
	Title       string         `gorm:"column:title;size:200"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	Filename    string         `gorm:"column:filename"`
	ContentType string         `gorm:"column:content_type;size:128"`
	Size        int64          `gorm:"column:size_bytes"`
	StorageKey  string         `gorm:"column:storage_key"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (imageRecord) TableName() string { return "images" }

func newImageRecord(img *domain.Image) imageRecord {
	return imageRecord{
		ID:          img.ID,
		OwnerID:     img.OwnerID,
		Title:       img.Title,
		Tags:        append(pq.StringArray{}, img.Tags...),
		Filename:    img.Asset.Filename,
		ContentType: img.Asset.ContentType,
		Size:        img.Asset.Size,
		StorageKey:  img.Asset.StorageKey,
	}
}

// Save inserts or updates an image aggregate.
func (r *Repository) Save(ctx context.Context, image *domain.Image) (*projection.Projection[*domain.Image], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, errors.New("cannot save nil image")
	}
	record := newImageRecord(image)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"owner_id":     record.OwnerID,
				"title":        record.Title,
				"tags":         record.Tags,
				"filename":     record.Filename,
				"content_type": record.ContentType,
				"size_bytes":   record.Size,
				"storage_key":  record.StorageKey,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, image.ID)
}

// GetByID fetches an image by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Image], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record imageRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ports.NotFoundError{ImageID: id}
		}
		return nil, err
	}
	return toProjection(&record), nil
}

// Browse pages through images newest first, matching SearchText against titles and tags.
func (r *Repository) Browse(ctx context.Context, query ports.BrowseQuery) ([]*projection.Projection[*domain.Image], int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	base := r.db.WithContext(ctx).Model(&imageRecord{})
	if needle := strings.TrimSpace(query.SearchText); needle != "" {
		pattern := "%" + escapeLike(needle) + "%"
		base = base.Where(
			`title ILIKE ? ESCAPE '\' OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page := base.Order("created_at DESC").Order("id ASC").Offset(max(query.Offset, 0))
	if query.Limit > 0 {
		page = page.Limit(query.Limit)
	}
	var records []imageRecord
	if err := page.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return recordsToProjections(records), total, nil
}

type tagCountRow struct {
	Name  string
	Count int
}

// TagCounts groups tags case-insensitively and returns those starting with prefix, most used first.
func (r *Repository) TagCounts(ctx context.Context, prefix string, limit int) ([]ports.TagCount, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	pattern := escapeLike(strings.ToLower(strings.TrimSpace(prefix))) + "%"
	sql := `SELECT lower(tag) AS name, count(DISTINCT id) AS count
		FROM images, unnest(tags) AS tag
		WHERE lower(tag) LIKE ? ESCAPE '\'
		GROUP BY lower(tag)
		ORDER BY count DESC, name ASC`
	args := []any{pattern}
	if limit > 0 {
		sql += " LIMIT ?"
		args = append(args, limit)
	}
	var rows []tagCountRow
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make([]ports.TagCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, ports.TagCount{Name: row.Name, Count: row.Count})
	}
	return counts, nil
}

// FindByAnyTag returns images other than excludeID that contain any of tags (case insensitive).
func (r *Repository) FindByAnyTag(ctx context.Context, tags []string, excludeID string) ([]*projection.Projection[*domain.Image], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(tags))
	for _, tag := range tags {
		lowered = append(lowered, strings.ToLower(tag))
	}
	var records []imageRecord
	if err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Where("EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE lower(tag) = ANY(?))", pq.Array(lowered)).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToProjections(records), nil
}

func recordsToProjections(records []imageRecord) []*projection.Projection[*domain.Image] {
	list := make([]*projection.Projection[*domain.Image], 0, len(records))
	for i := range records {
		list = append(list, toProjection(&records[i]))
	}
	return list
}

func toProjection(record *imageRecord) *projection.Projection[*domain.Image] {
	image := &domain.Image{
		ID:      record.ID,
		OwnerID: record.OwnerID,
		Title:   record.Title,
		Tags:    append([]string{}, record.Tags...),
		Asset: domain.Asset{
			Filename:    record.Filename,
			ContentType: record.ContentType,
			Size:        record.Size,
			StorageKey:  record.StorageKey,
		},
	}
	return projection.New(image, projection.Metadata{CreatedAt: record.CreatedAt, UpdatedAt: record.UpdatedAt})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository is not initialised")
	}
	return nil
}
