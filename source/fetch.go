package source

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"github.com/pkg/errors"
)

// IsRemote reports whether src must be downloaded before it can be read,
// e.g. "https://host/map.png" or "s3::https://bucket/key.json".
func IsRemote(src string) bool {
	return strings.Contains(src, "::") || strings.Contains(src, "://")
}

// Fetch downloads a single remote file into dir, or into a new temporary
// directory when dir is empty, and returns the local path.
func Fetch(ctx context.Context, src, dir string) (string, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "mcmodel-fetch-")
		if err != nil {
			return "", errors.Wrap(err, "create fetch dir")
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create fetch dir %s", dir)
	}

	dst := filepath.Join(dir, remoteBase(src))
	if err := getter.GetFile(dst, src, getter.WithContext(ctx)); err != nil {
		return "", errors.Wrapf(err, "fetch %s", src)
	}
	return dst, nil
}

// remoteBase is the file name of src without getter prefix, query or
// fragment, so mode detection still sees the extension.
func remoteBase(src string) string {
	s := src
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	base := path.Base(s)
	if base == "." || base == "/" || base == "" {
		return "input"
	}
	return base
}
