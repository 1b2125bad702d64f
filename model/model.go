// Package model describes a Minecraft Java Edition block model document and
// builds its elements from merged voxel boxes.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Face is the texture mapping of one side of an element.
type Face struct {
	UV      [4]float64 `json:"uv"`
	Texture string     `json:"texture"`
}

// Faces keeps the sides in the order block model files usually list them.
type Faces struct {
	North Face `json:"north"`
	South Face `json:"south"`
	East  Face `json:"east"`
	West  Face `json:"west"`
	Up    Face `json:"up"`
	Down  Face `json:"down"`
}

// Element is one box of model geometry in block space (0..16).
type Element struct {
	From  [3]float64 `json:"from"`
	To    [3]float64 `json:"to"`
	Faces Faces      `json:"faces"`
}

// Transform places the model in one rendering context.
type Transform struct {
	Rotation    [3]float64 `json:"rotation"`
	Translation [3]float64 `json:"translation"`
	Scale       [3]float64 `json:"scale"`
}

// Display holds the per-context transforms. Unset contexts are omitted.
type Display struct {
	GUI                  *Transform `json:"gui,omitempty"`
	Ground               *Transform `json:"ground,omitempty"`
	Fixed                *Transform `json:"fixed,omitempty"`
	Head                 *Transform `json:"head,omitempty"`
	ThirdPersonRightHand *Transform `json:"thirdperson_righthand,omitempty"`
	ThirdPersonLeftHand  *Transform `json:"thirdperson_lefthand,omitempty"`
	FirstPersonRightHand *Transform `json:"firstperson_righthand,omitempty"`
	FirstPersonLeftHand  *Transform `json:"firstperson_lefthand,omitempty"`
}

// Model is a block model document.
type Model struct {
	Parent           string            `json:"parent,omitempty"`
	AmbientOcclusion *bool             `json:"ambientocclusion,omitempty"`
	Textures         map[string]string `json:"textures,omitempty"`
	Elements         []Element         `json:"elements"`
	GUILight         string            `json:"gui_light,omitempty"`
	Display          *Display          `json:"display,omitempty"`
}

// Marshal encodes m with four-space indentation and a trailing newline.
func (m *Model) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a block model document.
func Unmarshal(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &m, nil
}
