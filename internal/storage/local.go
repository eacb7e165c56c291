package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) List(ctx context.Context, gallery string) ([]Object, error) {
	_ = ctx

	// gallery names come from the URL; keep them inside BaseDir
	gallery = filepath.Base(gallery)

	entries, err := os.ReadDir(filepath.Join(l.BaseDir, gallery))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Object
	for _, e := range entries {
		if e.IsDir() || !isImageKey(e.Name()) {
			continue
		}
		key := gallery + "/" + e.Name()
		out = append(out, Object{Key: key, URL: l.URLPrefix + "/" + key})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
