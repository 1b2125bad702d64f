// Package config holds the converter settings: output layout, textures and
// display passthrough, and the JSON file that can override the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voxelsplace/mcmodel/model"
)

const (
	ModeStructured = "structured"
	ModeHeightmap  = "heightmap"
	ModeVOPL       = "vopl"
	ModeVPI        = "vpi"
)

// Default input files looked up when convert is run without a path.
const (
	DefaultStructuredInput = "healing_machine_create_48x43x48(1).json"
	DefaultHeightmapInput  = "healing_machine_create_48x43x48.png"
)

// Config holds the converter configuration. Textures, GUI light and display
// transforms are copied into the output document as-is.
type Config struct {
	Mode      string `json:"mode"` // "" = detect from the input extension
	MaxHeight int    `json:"max_height"`

	AssetsDir string `json:"assets_dir"`
	Namespace string `json:"namespace"`
	ModelName string `json:"model_name"` // "" = per-mode default
	OutPath   string `json:"out"`        // overrides the assets layout when set

	FaceTexture      string            `json:"face_texture"`
	Parent           string            `json:"parent"`
	AmbientOcclusion *bool             `json:"ambient_occlusion"`
	Textures         map[string]string `json:"textures"`
	GUILight         string            `json:"gui_light"`
	Display          *model.Display    `json:"display"`

	// VPI18 streams applied over a VOPL chunk before conversion.
	Updates []string `json:"vpi_updates"`

	GLBPath  string `json:"glb"`
	STLPath  string `json:"stl"`
	FetchDir string `json:"fetch_dir"` // "" = temp dir
}

// DefaultConfig returns the configuration of the healing machine model.
func DefaultConfig() *Config {
	return &Config{
		MaxHeight:   48,
		AssetsDir:   filepath.Join("src", "main", "resources", "assets"),
		Namespace:   "rubius_cobblemon_addons",
		FaceTexture: model.DefaultFaceTexture,
		Textures: map[string]string{
			"all":      "rubius_cobblemon_addons:block/healing_machine",
			"tray":     "cobblemon:block/functional/healing_machine_tray",
			"particle": "rubius_cobblemon_addons:block/healing_machine",
		},
		GUILight: "side",
		Display:  DefaultDisplay(),
	}
}

// DefaultDisplay returns the item display transforms used for block items.
func DefaultDisplay() *model.Display {
	return &model.Display{
		GUI:                  &model.Transform{Rotation: [3]float64{30, 225, 0}, Scale: [3]float64{0.625, 0.625, 0.625}},
		Ground:               &model.Transform{Translation: [3]float64{0, 3, 0}, Scale: [3]float64{0.25, 0.25, 0.25}},
		Fixed:                &model.Transform{Scale: [3]float64{0.5, 0.5, 0.5}},
		ThirdPersonRightHand: &model.Transform{Rotation: [3]float64{75, 135, 0}, Translation: [3]float64{0, 2.5, 0}, Scale: [3]float64{0.375, 0.375, 0.375}},
		FirstPersonRightHand: &model.Transform{Rotation: [3]float64{0, 135, 0}, Scale: [3]float64{0.40, 0.40, 0.40}},
		FirstPersonLeftHand:  &model.Transform{Rotation: [3]float64{0, 135, 0}, Scale: [3]float64{0.40, 0.40, 0.40}},
	}
}

// Load reads a JSON config file over the defaults. Texture entries from the
// file are merged into the default texture map.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON config over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["mode"] && !explicitFlags["png"] {
		cfg.Mode = fromFile.Mode
	}
	if !explicitFlags["max-height"] {
		cfg.MaxHeight = fromFile.MaxHeight
	}
	if !explicitFlags["assets"] {
		cfg.AssetsDir = fromFile.AssetsDir
	}
	if !explicitFlags["namespace"] {
		cfg.Namespace = fromFile.Namespace
	}
	if !explicitFlags["name"] {
		cfg.ModelName = fromFile.ModelName
	}
	if !explicitFlags["out"] {
		cfg.OutPath = fromFile.OutPath
	}
	if !explicitFlags["texture"] {
		cfg.FaceTexture = fromFile.FaceTexture
	}
	if !explicitFlags["updates"] {
		cfg.Updates = fromFile.Updates
	}
	if !explicitFlags["glb"] {
		cfg.GLBPath = fromFile.GLBPath
	}
	if !explicitFlags["stl"] {
		cfg.STLPath = fromFile.STLPath
	}
	if !explicitFlags["fetch-dir"] {
		cfg.FetchDir = fromFile.FetchDir
	}
	// No flags for the document metadata.
	cfg.Parent = fromFile.Parent
	cfg.AmbientOcclusion = fromFile.AmbientOcclusion
	cfg.Textures = fromFile.Textures
	cfg.GUILight = fromFile.GUILight
	cfg.Display = fromFile.Display
}

// Name returns the model name, falling back to the per-mode default.
func (c *Config) Name(mode string) string {
	if c.ModelName != "" {
		return c.ModelName
	}
	// Heightmap output replaces the base model so the game picks it up.
	if mode == ModeHeightmap {
		return "create_powered_healing_machine_0"
	}
	return "create_powered_healing_machine_new"
}

// OutputPath is where the model for mode is written.
func (c *Config) OutputPath(mode string) string {
	if c.OutPath != "" {
		return c.OutPath
	}
	return filepath.Join(c.AssetsDir, c.Namespace, "models", "block", c.Name(mode)+".json")
}

// NewModel returns an empty document carrying the configured metadata.
func (c *Config) NewModel() *model.Model {
	textures := make(map[string]string, len(c.Textures))
	for k, v := range c.Textures {
		textures[k] = v
	}
	return &model.Model{
		Parent:           c.Parent,
		AmbientOcclusion: c.AmbientOcclusion,
		Textures:         textures,
		Elements:         []model.Element{},
		GUILight:         c.GUILight,
		Display:          c.Display,
	}
}

// Projector returns the box projector for the configured face texture.
func (c *Config) Projector() model.Projector {
	return model.Projector{Texture: c.FaceTexture}
}
