package gallery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dlr1251/chimeneasluque/internal/models"

	"github.com/rs/zerolog"
)

// ErrInvalidCategory rejects categories outside the storefront catalog.
var ErrInvalidCategory = errors.New("invalid gallery category")

// Categories is the fixed storefront catalog.
var Categories = []string{"hornos", "chimeneas", "fogatas"}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var digitsRe = regexp.MustCompile(`\d+`)

// Service lists product images from the category directories under root.
type Service struct {
	root   string
	logger *zerolog.Logger
}

func NewService(root string, logger *zerolog.Logger) *Service {
	return &Service{root: root, logger: logger}
}

// ListImages returns the images for a category ordered by the numeric index
// embedded in each filename. A missing directory yields an empty list.
func (s *Service) ListImages(category string) ([]models.Image, error) {
	if !validCategory(category) {
		return nil, ErrInvalidCategory
	}

	dir := filepath.Join(s.root, category)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Image{}, nil
		}
		return nil, fmt.Errorf("failed to read gallery directory: %w", err)
	}

	images := []models.Image{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		num := 0
		if match := digitsRe.FindString(name); match != "" {
			num, _ = strconv.Atoi(match)
		}

		images = append(images, models.Image{
			ID:  num,
			Src: fmt.Sprintf("/images/%s/%s", category, name),
			Alt: fmt.Sprintf("%s %d", category, num),
		})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].ID < images[j].ID })
	return images, nil
}

func validCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
