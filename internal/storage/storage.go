package storage

import (
	"context"
	"path/filepath"
	"strings"
)

type Object struct {
	Key string
	URL string
}

// Storage lists gallery images. Galleries are flat folders of image objects;
// rendering and optimization happen elsewhere.
type Storage interface {
	List(ctx context.Context, gallery string) ([]Object, error)
}

func isImageKey(key string) bool {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return true
	}
	return false
}
