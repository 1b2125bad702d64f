package api

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/voxelsplace/mcmodel/config"
	"github.com/voxelsplace/mcmodel/model"
	"github.com/voxelsplace/mcmodel/preview"
	"github.com/voxelsplace/mcmodel/source"
	"github.com/voxelsplace/mcmodel/vopl"
	"github.com/voxelsplace/mcmodel/voxel"
)

// Stats summarises one conversion.
type Stats struct {
	Voxels   int
	Dims     voxel.Dimensions
	Boxes    int
	Elements int
}

func orDefault(cfg *config.Config) *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// Convert merges set into boxes and projects them into a model document
// carrying cfg's textures and display settings. A nil cfg uses the defaults.
func Convert(set *voxel.Set, cfg *config.Config) (*model.Model, Stats) {
	cfg = orDefault(cfg)
	m := cfg.NewModel()
	st := Stats{Voxels: set.Len(), Dims: set.Dims()}
	boxes := voxel.Merge(set)
	st.Boxes = len(boxes)
	m.Elements = append(m.Elements, cfg.Projector().ProjectAll(boxes, set.Dims())...)
	st.Elements = len(m.Elements)
	return m, st
}

func render(set *voxel.Set, cfg *config.Config) ([]byte, Stats, error) {
	m, st := Convert(set, cfg)
	data, err := m.Marshal()
	if err != nil {
		return nil, st, err
	}
	return data, st, nil
}

// StructuredToModel converts a structured voxel description to model JSON.
func StructuredToModel(data []byte, cfg *config.Config) ([]byte, Stats, error) {
	set, err := source.ParseStructured(data)
	if err != nil {
		return nil, Stats{}, err
	}
	return render(set, cfg)
}

// HeightmapToModel converts heightmap image bytes to model JSON, using
// cfg.MaxHeight as the column limit.
func HeightmapToModel(data []byte, cfg *config.Config) ([]byte, Stats, error) {
	cfg = orDefault(cfg)
	maxHeight := cfg.MaxHeight
	if maxHeight <= 0 {
		maxHeight = source.DefaultMaxHeight
	}
	set, err := source.ParseHeightmap(data, maxHeight)
	if err != nil {
		return nil, Stats{}, err
	}
	return render(set, cfg)
}

// VOPLToModel converts a .vopl chunk to model JSON after applying any VPI18
// update streams.
func VOPLToModel(data []byte, cfg *config.Config, updates ...[]byte) ([]byte, Stats, error) {
	set, err := source.ParseVOPL(data, updates...)
	if err != nil {
		return nil, Stats{}, err
	}
	return render(set, cfg)
}

// ModelToGLB renders the elements of a model document as a GLB preview.
func ModelToGLB(modelJSON []byte) ([]byte, error) {
	m, err := model.Unmarshal(modelJSON)
	if err != nil {
		return nil, err
	}
	return preview.EncodeGLB(m.Elements)
}

// PackVOPLs builds a .voplpack from .vopl file blobs keyed by name. All
// chunks must share bpp and palette size. Entries are stored sorted by name.
func PackVOPLs(files map[string][]byte, comp vopl.PackCompression) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	pack := &vopl.Pack{}
	for i, name := range names {
		hdr, enc, payload, err := vopl.ParseChunk(files[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if i == 0 {
			pack.Header = hdr
		} else if hdr != pack.Header {
			return nil, fmt.Errorf("inconsistent parameters (%s)", name)
		}
		pack.Entries = append(pack.Entries, vopl.PackEntry{Name: name, Enc: enc, Payload: payload})
	}
	return pack.Marshal(comp)
}

// PackModel is the model rendered for one pack entry.
type PackModel struct {
	Entry    string
	Name     string // model file name
	Model    []byte
	Elements []model.Element
	Stats    Stats
	Digest   uint64
	// Reused is set when an identical earlier entry was rendered already.
	Reused bool
}

// ModelFileName derives a model file name from a pack entry name.
func ModelFileName(entry string) string {
	base := path.Base(strings.ReplaceAll(entry, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "entry"
	}
	return base + ".json"
}

// PackToModels renders one model per pack entry. Entries with the same
// content share the rendered document.
func PackToModels(packBytes []byte, cfg *config.Config) ([]PackModel, error) {
	pack, err := vopl.UnmarshalPack(packBytes)
	if err != nil {
		return nil, err
	}
	return RenderPack(pack, cfg)
}

// RenderPack is PackToModels over a decoded pack. Model names are unique
// within the result.
func RenderPack(pack *vopl.Pack, cfg *config.Config) ([]PackModel, error) {
	cfg = orDefault(cfg)
	out := make([]PackModel, 0, len(pack.Entries))
	seen := make(map[uint64]int, len(pack.Entries))
	for i, e := range pack.Entries {
		pm := PackModel{Entry: e.Name, Name: ModelFileName(e.Name), Digest: e.Digest()}
		if j, ok := seen[pm.Digest]; ok && sameEntry(pack.Entries[j], e) {
			pm.Model, pm.Elements, pm.Stats, pm.Reused = out[j].Model, out[j].Elements, out[j].Stats, true
			out = append(out, pm)
			continue
		}
		g, err := pack.Grid(i)
		if err != nil {
			return nil, err
		}
		var m *model.Model
		m, pm.Stats = Convert(g.Voxels(), cfg)
		if pm.Model, err = m.Marshal(); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Name, err)
		}
		pm.Elements = m.Elements
		seen[pm.Digest] = i
		out = append(out, pm)
	}
	assignUniqueNames(out)
	return out, nil
}

func sameEntry(a, b vopl.PackEntry) bool {
	return a.Enc == b.Enc && bytes.Equal(a.Payload, b.Payload)
}

// assignUniqueNames suffixes repeated model names with _1, _2, ...
func assignUniqueNames(models []PackModel) {
	used := make(map[string]int, len(models))
	for i := range models {
		name := models[i].Name
		n, dup := used[name]
		used[name] = n + 1
		if !dup {
			continue
		}
		base := strings.TrimSuffix(name, ".json")
		for {
			candidate := fmt.Sprintf("%s_%d.json", base, n)
			if _, taken := used[candidate]; !taken {
				models[i].Name = candidate
				used[candidate] = 1
				break
			}
			n++
		}
	}
}
