package utils

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/voxelsplace/mcmodel/api"
	"github.com/voxelsplace/mcmodel/config"
	"github.com/voxelsplace/mcmodel/preview"
	"github.com/voxelsplace/mcmodel/vopl"
)

// RunPackToModels writes one model document per entry of a .voplpack into
// outDir. When glb is set a preview is written next to each model.
func RunPackToModels(cfg *config.Config, packPath, outDir string, glb bool, log *slog.Logger) error {
	log = logger(log)
	pack, err := vopl.LoadPack(packPath)
	if err != nil {
		return fmt.Errorf("load pack: %w", err)
	}
	models, err := api.RenderPack(pack, cfg)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return fmt.Errorf("pack %s has no entries", packPath)
	}

	reused := 0
	for _, m := range models {
		if m.Reused {
			reused++
		}
	}
	log.Info("rendered pack", "entries", len(models), "reused", reused, "path", packPath)

	var wg sync.WaitGroup
	errCh := make(chan error, len(models))
	for _, m := range models {
		wg.Add(1)
		go func(m api.PackModel) {
			defer wg.Done()
			path := filepath.Join(outDir, m.Name)
			if err := atomicWrite(path, m.Model); err != nil {
				errCh <- fmt.Errorf("%s: %w", m.Entry, err)
				return
			}
			if glb && len(m.Elements) > 0 {
				glbPath := strings.TrimSuffix(path, ".json") + ".glb"
				if err := preview.WriteGLB(glbPath, m.Elements); err != nil {
					errCh <- fmt.Errorf("%s preview: %w", m.Entry, err)
				}
			}
		}(m)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	log.Info("wrote models", "count", len(models), "dir", outDir)
	return nil
}
