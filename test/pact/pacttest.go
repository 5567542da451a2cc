//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "gallery-api"
	ConsumerName = "gallery-web"

	StateImageExists  = "image pact-image exists"
	StateImageMissing = "no image with id ghost-image"
	StateTagsSeeded   = "images tagged sunset and sunrise exist"
)

const (
	ExistingImageID = "pact-image"
	RelatedImageID  = "pact-related"
	MissingImageID  = "ghost-image"
	OwnerID         = "pact-user"

	ExampleTitle    = "Pact Sunset"
	ExampleFilename = "sunset.png"
)

// ExampleTags are the tags carried by the seeded image.
func ExampleTags() []string {
	return []string{"sunset", "sky"}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the gallery web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
