package gallery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGallery(t *testing.T, files ...string) *Service {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "hornos"), 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, "hornos", f), []byte("img"), 0o644))
	}
	logger := zerolog.Nop()
	return NewService(root, &logger)
}

func TestListImages_SortedByNumericIndex(t *testing.T) {
	svc := setupGallery(t, "hornos10.png", "hornos2.jpg", "hornos1.webp")

	images, err := svc.ListImages("hornos")
	require.NoError(t, err)
	require.Len(t, images, 3)

	assert.Equal(t, 1, images[0].ID)
	assert.Equal(t, 2, images[1].ID)
	assert.Equal(t, 10, images[2].ID)
	assert.Equal(t, "/images/hornos/hornos1.webp", images[0].Src)
	assert.Equal(t, "hornos 1", images[0].Alt)
}

func TestListImages_FiltersNonImages(t *testing.T) {
	svc := setupGallery(t, "hornos1.png", "notes.txt", "metadata.json")

	images, err := svc.ListImages("hornos")
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestListImages_MissingDirectoryIsEmpty(t *testing.T) {
	svc := setupGallery(t)

	images, err := svc.ListImages("chimeneas")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestListImages_InvalidCategory(t *testing.T) {
	svc := setupGallery(t)

	_, err := svc.ListImages("muebles")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.ListImages("")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
