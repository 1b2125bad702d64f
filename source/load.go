package source

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/voxelsplace/mcmodel/config"
	"github.com/voxelsplace/mcmodel/voxel"
)

// Options select how an input is read.
type Options struct {
	Mode      string // "" = detect from the extension
	MaxHeight int    // heightmap mode only; <= 0 means DefaultMaxHeight
	FetchDir  string // download directory for remote inputs
	// Updates are VPI18 streams applied on top of a VOPL chunk, in order.
	Updates []string
}

// Input is a loaded voxel source.
type Input struct {
	Path string // local path actually read
	Mode string
	Set  *voxel.Set
}

// Load resolves src (downloading it first when remote), picks the loader
// and returns the occupancy set.
func Load(ctx context.Context, src string, opts Options) (*Input, error) {
	mode := opts.Mode
	if mode == "" {
		m, err := DetectMode(src)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	if !ValidMode(mode) {
		return nil, errors.Errorf("unknown input mode %q", mode)
	}

	if len(opts.Updates) > 0 && mode != config.ModeVOPL {
		return nil, errors.Errorf("updates only apply to %s input, not %s", config.ModeVOPL, mode)
	}

	local, err := resolve(ctx, src, opts.FetchDir)
	if err != nil {
		return nil, err
	}

	if len(opts.Updates) > 0 {
		set, err := loadWithUpdates(ctx, local, opts)
		if err != nil {
			return nil, err
		}
		return &Input{Path: local, Mode: mode, Set: set}, nil
	}

	f, err := os.Open(local)
	if err != nil {
		return nil, openError(err, local)
	}
	defer f.Close()

	set, err := Read(f, mode, opts.MaxHeight)
	if err != nil {
		return nil, err
	}
	return &Input{Path: local, Mode: mode, Set: set}, nil
}

// resolve returns a local path for src, downloading remote sources.
func resolve(ctx context.Context, src, fetchDir string) (string, error) {
	if !IsRemote(src) {
		return src, nil
	}
	return Fetch(ctx, src, fetchDir)
}

func openError(err error, path string) error {
	if os.IsNotExist(err) {
		return errors.Wrap(ErrMissingInput, path)
	}
	return errors.Wrapf(err, "open %s", path)
}

func loadWithUpdates(ctx context.Context, chunkPath string, opts Options) (*voxel.Set, error) {
	chunk, err := os.ReadFile(chunkPath)
	if err != nil {
		return nil, openError(err, chunkPath)
	}
	updates := make([][]byte, 0, len(opts.Updates))
	for _, u := range opts.Updates {
		local, err := resolve(ctx, u, opts.FetchDir)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(local)
		if err != nil {
			return nil, openError(err, local)
		}
		updates = append(updates, data)
	}
	return ParseVOPL(chunk, updates...)
}

// Read decodes r with the loader for mode.
func Read(r io.Reader, mode string, maxHeight int) (*voxel.Set, error) {
	switch mode {
	case config.ModeStructured:
		return ReadStructured(r)
	case config.ModeHeightmap:
		if maxHeight <= 0 {
			maxHeight = DefaultMaxHeight
		}
		return ReadHeightmap(r, maxHeight)
	case config.ModeVOPL:
		return ReadVOPL(r)
	case config.ModeVPI:
		return ReadVPI(r)
	default:
		return nil, errors.Errorf("unknown input mode %q", mode)
	}
}
