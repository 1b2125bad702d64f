package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxelsplace/mcmodel/model"
	"github.com/voxelsplace/mcmodel/preview"
)

// RunPreview renders an existing model document as .glb or .stl, chosen by
// the output extension.
func RunPreview(modelPath, outPath string, log *slog.Logger) error {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}
	m, err := model.Unmarshal(data)
	if err != nil {
		return err
	}
	if err := ensureParent(outPath); err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(outPath)); ext {
	case ".glb":
		err = preview.WriteGLB(outPath, m.Elements)
	case ".stl":
		err = preview.WriteSTL(outPath, m.Elements)
	default:
		return fmt.Errorf("unsupported preview format %q, use .glb or .stl", ext)
	}
	if err != nil {
		return err
	}
	logger(log).Info("wrote preview", "elements", len(m.Elements), "path", outPath)
	return nil
}
