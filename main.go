//go:build !(js && wasm)

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/unixpickle/essentials"

	"github.com/voxelsplace/mcmodel/config"
	"github.com/voxelsplace/mcmodel/utils"
	"github.com/voxelsplace/mcmodel/voxel"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: mcmodel <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  convert [flags] [input]                  (voxel JSON, heightmap, .vopl or .vpi -> block model JSON)")
	fmt.Fprintln(os.Stderr, "  pack2models [-glb] in.voplpack out_dir   (one block model per pack entry)")
	fmt.Fprintln(os.Stderr, "  gennoise [-seed N] json <w> <h> <d> <percentage> <out.json>")
	fmt.Fprintln(os.Stderr, "  gennoise [-seed N] pack <percentageMin> <percentageMax> <amount> <out.voplpack>")
	fmt.Fprintln(os.Stderr, "  preview model.json out.glb|out.stl       (render a block model for 3D viewers)")
	fmt.Fprintln(os.Stderr, "Run 'mcmodel <command> -h' for command flags.")
}

func die(err error) {
	essentials.Die("Error:", err)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(ctx, os.Args[2:], log)
	case "pack2models":
		err = runPackToModels(os.Args[2:], log)
	case "gennoise":
		err = runGenerateNoise(os.Args[2:], log)
	case "preview":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		err = utils.RunPreview(os.Args[2], os.Args[3], log)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		die(err)
	}
}

// explicitFlags collects the flags set on the command line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runConvert(ctx context.Context, args []string, log *slog.Logger) error {
	cfg := config.DefaultConfig()
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	png := fs.Bool("png", false, "read the input as a heightmap image (same as -mode heightmap)")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "input mode: structured, heightmap, vopl or vpi (default: by extension)")
	configPath := fs.String("config", "", "JSON config file")
	fs.IntVar(&cfg.MaxHeight, "max-height", cfg.MaxHeight, "heightmap column limit and grid height")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "output model path (default: <assets>/<namespace>/models/block/<name>.json)")
	fs.StringVar(&cfg.ModelName, "name", cfg.ModelName, "model name")
	fs.StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "resource namespace")
	fs.StringVar(&cfg.AssetsDir, "assets", cfg.AssetsDir, "assets directory")
	fs.StringVar(&cfg.FaceTexture, "texture", cfg.FaceTexture, "texture reference for every face")
	fs.StringVar(&cfg.GLBPath, "glb", cfg.GLBPath, "also write a GLB preview here")
	fs.StringVar(&cfg.STLPath, "stl", cfg.STLPath, "also write an STL preview here")
	fs.StringVar(&cfg.FetchDir, "fetch-dir", cfg.FetchDir, "download directory for remote inputs")
	updates := fs.String("updates", "", "comma separated VPI18 streams applied over a .vopl input")
	_ = fs.Parse(args)
	if fs.NArg() > 1 {
		return fmt.Errorf("convert takes at most one input, got %d", fs.NArg())
	}
	cfg.Updates = splitList(*updates)

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		config.Merge(cfg, fromFile, explicitFlags(fs))
	}
	if *png {
		if cfg.Mode != "" && cfg.Mode != config.ModeHeightmap && explicitFlags(fs)["mode"] {
			return fmt.Errorf("-png conflicts with -mode %s", cfg.Mode)
		}
		cfg.Mode = config.ModeHeightmap
	}

	_, err := utils.RunConvert(ctx, cfg, fs.Arg(0), log)
	return err
}

func runPackToModels(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("pack2models", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file for textures and display")
	glb := fs.Bool("glb", false, "write a GLB preview next to every model")
	_ = fs.Parse(args)
	if fs.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	return utils.RunPackToModels(cfg, fs.Arg(0), fs.Arg(1), *glb, log)
}

func runGenerateNoise(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("gennoise", flag.ExitOnError)
	seed := fs.Int64("seed", 0, "random seed (0 = time based)")
	_ = fs.Parse(args)
	rest := fs.Args()
	if len(rest) == 0 {
		usage()
		os.Exit(1)
	}

	switch {
	case rest[0] == "json" && len(rest) == 6:
		var dims voxel.Dimensions
		var err error
		for i, dst := range []*int{&dims.W, &dims.H, &dims.D} {
			if *dst, err = strconv.Atoi(rest[1+i]); err != nil {
				return fmt.Errorf("dimension %q: %w", rest[1+i], err)
			}
		}
		perc, err := strconv.ParseFloat(rest[4], 64)
		if err != nil {
			return fmt.Errorf("percentage %q: %w", rest[4], err)
		}
		return utils.RunGenerateNoiseJSON(dims, perc, *seed, rest[5], log)
	case rest[0] == "pack" && len(rest) == 5:
		minP, err := strconv.ParseFloat(rest[1], 64)
		if err != nil {
			return fmt.Errorf("percentageMin %q: %w", rest[1], err)
		}
		maxP, err := strconv.ParseFloat(rest[2], 64)
		if err != nil {
			return fmt.Errorf("percentageMax %q: %w", rest[2], err)
		}
		amount, err := strconv.Atoi(rest[3])
		if err != nil {
			return fmt.Errorf("amount %q: %w", rest[3], err)
		}
		return utils.RunGenerateNoisePack(minP, maxP, amount, *seed, rest[4], log)
	default:
		usage()
		os.Exit(1)
	}
	return nil
}
