package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/voxelsplace/mcmodel/config"
)

var modeByExt = map[string]string{
	".json": config.ModeStructured,
	".png":  config.ModeHeightmap,
	".gif":  config.ModeHeightmap,
	".jpg":  config.ModeHeightmap,
	".jpeg": config.ModeHeightmap,
	".bmp":  config.ModeHeightmap,
	".tif":  config.ModeHeightmap,
	".tiff": config.ModeHeightmap,
	".webp": config.ModeHeightmap,
	".vopl": config.ModeVOPL,
	".vpi":  config.ModeVPI,
}

// DetectMode picks the input mode from the file extension. Remote sources
// may carry a query string or a getter prefix, both are ignored.
func DetectMode(path string) (string, error) {
	p := path
	if i := strings.LastIndex(p, "::"); i >= 0 {
		p = p[i+2:]
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.ToLower(filepath.Ext(p))
	if mode, ok := modeByExt[ext]; ok {
		return mode, nil
	}
	return "", fmt.Errorf("cannot detect input mode from %q, use -mode", path)
}

// ValidMode reports whether mode names a known loader.
func ValidMode(mode string) bool {
	switch mode {
	case config.ModeStructured, config.ModeHeightmap, config.ModeVOPL, config.ModeVPI:
		return true
	}
	return false
}
