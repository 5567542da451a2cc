package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the gallery schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(&imageRecord{}); err != nil {
		return err
	}
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_images_tags ON images USING GIN (tags)`).Error
}

// Image schema mirrors the images Postgres adapter.
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
