package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_RevisedKeepsCreation(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	meta := Created(created)
	assert.Equal(t, created, meta.UpdatedAt)

	revised := meta.Revised(created.Add(time.Hour))
	assert.Equal(t, created, revised.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), revised.UpdatedAt)
	assert.Equal(t, created, meta.UpdatedAt)
}

func TestNew(t *testing.T) {
	p := New("entity", Created(time.Unix(0, 0)))
	assert.Equal(t, "entity", p.Entity)
	assert.Equal(t, time.Unix(0, 0), p.Metadata.CreatedAt)
}
