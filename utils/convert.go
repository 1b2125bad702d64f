package utils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voxelsplace/mcmodel/api"
	"github.com/voxelsplace/mcmodel/config"
	"github.com/voxelsplace/mcmodel/preview"
	"github.com/voxelsplace/mcmodel/source"
)

// DefaultInput is the file converted when no input is given.
func DefaultInput(cfg *config.Config) string {
	if cfg.Mode == config.ModeHeightmap {
		return config.DefaultHeightmapInput
	}
	return config.DefaultStructuredInput
}

// RunConvert loads input, merges and projects it, and writes the model
// document to cfg.OutputPath. Optional GLB and STL previews are written
// afterwards. It returns the model path.
func RunConvert(ctx context.Context, cfg *config.Config, input string, log *slog.Logger) (string, error) {
	log = logger(log)
	if input == "" {
		input = DefaultInput(cfg)
	}

	in, err := source.Load(ctx, input, source.Options{
		Mode:      cfg.Mode,
		MaxHeight: cfg.MaxHeight,
		FetchDir:  cfg.FetchDir,
		Updates:   cfg.Updates,
	})
	if err != nil {
		return "", err
	}
	log.Info("loaded voxels", "count", in.Set.Len(), "dimension", in.Set.Dims().String(), "mode", in.Mode, "path", in.Path)

	m, st := api.Convert(in.Set, cfg)
	log.Info("merged boxes", "count", st.Boxes)

	data, err := m.Marshal()
	if err != nil {
		return "", fmt.Errorf("encode model: %w", err)
	}
	out := cfg.OutputPath(in.Mode)
	if err := atomicWrite(out, data); err != nil {
		return "", err
	}
	log.Info("wrote elements", "count", st.Elements, "path", out)

	if cfg.GLBPath != "" {
		if err := ensureParent(cfg.GLBPath); err != nil {
			return out, err
		}
		if err := preview.WriteGLB(cfg.GLBPath, m.Elements); err != nil {
			return out, fmt.Errorf("write glb preview: %w", err)
		}
		log.Info("wrote preview", "format", "glb", "path", cfg.GLBPath)
	}
	if cfg.STLPath != "" {
		if err := ensureParent(cfg.STLPath); err != nil {
			return out, err
		}
		if err := preview.WriteSTL(cfg.STLPath, m.Elements); err != nil {
			return out, fmt.Errorf("write stl preview: %w", err)
		}
		log.Info("wrote preview", "format", "stl", "path", cfg.STLPath)
	}
	return out, nil
}
