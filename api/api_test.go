package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/voxelsplace/mcmodel/config"
	"github.com/voxelsplace/mcmodel/model"
	"github.com/voxelsplace/mcmodel/vopl"
	"github.com/voxelsplace/mcmodel/voxel"
)

func TestConvert(t *testing.T) {
	set, _ := voxel.NewSet(voxel.Dimensions{W: 2, H: 2, D: 1})
	for _, c := range []voxel.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}} {
		_ = set.Add(c)
	}
	m, st := Convert(set, nil)
	if st.Voxels != 3 || st.Boxes != 2 || st.Elements != 2 || st.Dims != set.Dims() {
		t.Fatalf("stats = %+v", st)
	}
	if m.Elements[0].From != [3]float64{0, 0, 0} || m.Elements[0].To != [3]float64{16, 8, 16} {
		t.Fatalf("first element = %v..%v", m.Elements[0].From, m.Elements[0].To)
	}
	if m.Textures["all"] != "rubius_cobblemon_addons:block/healing_machine" || m.GUILight != "side" {
		t.Fatal("default metadata missing")
	}
}

func TestConvertFaceTexture(t *testing.T) {
	set, _ := voxel.NewSet(voxel.Dimensions{W: 1, H: 1, D: 1})
	_ = set.Add(voxel.Cell{})
	cfg := config.DefaultConfig()
	cfg.FaceTexture = "#tray"
	m, _ := Convert(set, cfg)
	if m.Elements[0].Faces.Up.Texture != "#tray" {
		t.Fatalf("texture = %q", m.Elements[0].Faces.Up.Texture)
	}
}

func TestStructuredToModel(t *testing.T) {
	doc := `{"dimension":[{"width":2,"height":1,"depth":1}],"voxels":[{"x":0,"y":0,"z":0},{"x":1,"y":0,"z":0}]}`
	out, st, err := StructuredToModel([]byte(doc), nil)
	if err != nil {
		t.Fatal(err)
	}
	if st.Boxes != 1 {
		t.Fatalf("boxes = %d, want 1", st.Boxes)
	}
	var generic map[string]any
	if err := json.Unmarshal(out, &generic); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"textures", "elements", "gui_light", "display"} {
		if _, ok := generic[key]; !ok {
			t.Errorf("missing %q", key)
		}
	}
}

func TestHeightmapToModel(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	img.SetGray(1, 1, color.Gray{Y: 0})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	_, st, err := HeightmapToModel(buf.Bytes(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if st.Dims != (voxel.Dimensions{W: 2, H: 48, D: 2}) || st.Voxels != 3*24 {
		t.Fatalf("stats = %+v", st)
	}
	// columns (0,0),(1,0) form one box, (0,1) a second
	if st.Boxes != 2 {
		t.Fatalf("boxes = %d, want 2", st.Boxes)
	}
}

func TestVOPLToModelAndGLB(t *testing.T) {
	var g vopl.Grid
	for x := 0; x < 16; x++ {
		g[0][x][0] = 1
	}
	out, st, err := VOPLToModel(vopl.EncodeChunk(&g), nil)
	if err != nil {
		t.Fatal(err)
	}
	if st.Voxels != 16 || st.Boxes != 1 {
		t.Fatalf("stats = %+v", st)
	}
	m, err := model.Unmarshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if m.Elements[0].To != [3]float64{16, 1, 1} {
		t.Fatalf("to = %v", m.Elements[0].To)
	}

	glb, err := ModelToGLB(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(glb, []byte("glTF")) {
		t.Fatal("not a GLB")
	}
}

func TestPackToModels(t *testing.T) {
	var a, b vopl.Grid
	a[0][0][0] = 1
	b[1][1][1] = 2
	b[1][2][1] = 2
	files := map[string][]byte{
		"chunks/a.vopl": vopl.EncodeChunk(&a),
		"b.vopl":        vopl.EncodeChunk(&b),
		"c.vopl":        vopl.EncodeChunk(&a),
	}
	packed, err := PackVOPLs(files, vopl.PackCompZstd)
	if err != nil {
		t.Fatal(err)
	}
	models, err := PackToModels(packed, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 3 {
		t.Fatalf("models = %d", len(models))
	}
	// sorted entry names: b.vopl, c.vopl, chunks/a.vopl
	names := []string{models[0].Name, models[1].Name, models[2].Name}
	if names[0] != "b.json" || names[1] != "c.json" || names[2] != "a.json" {
		t.Fatalf("names = %v", names)
	}
	if models[0].Stats.Boxes != 1 || models[0].Stats.Voxels != 2 {
		t.Fatalf("b stats = %+v", models[0].Stats)
	}
	if models[1].Reused || !models[2].Reused {
		t.Fatalf("reuse flags = %v %v", models[1].Reused, models[2].Reused)
	}
	if !bytes.Equal(models[1].Model, models[2].Model) {
		t.Fatal("identical entries rendered differently")
	}
}

func TestPackToModelsUniqueNames(t *testing.T) {
	var g vopl.Grid
	g[0][0][0] = 1
	chunk := vopl.EncodeChunk(&g)
	files := map[string][]byte{
		"a.vopl":     chunk,
		"x/a.vopl":   chunk,
		"y/a.vopl":   chunk,
		"z/a_1.vopl": chunk,
	}
	packed, err := PackVOPLs(files, vopl.PackCompNone)
	if err != nil {
		t.Fatal(err)
	}
	models, err := PackToModels(packed, nil)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, m := range models {
		if seen[m.Name] {
			t.Fatalf("duplicate model name %q", m.Name)
		}
		seen[m.Name] = true
	}
	// entries sort as a, x/a, y/a, z/a_1
	want := []string{"a.json", "a_1.json", "a_2.json", "a_1_1.json"}
	for i, m := range models {
		if m.Name != want[i] {
			t.Fatalf("model %d (%s) named %q, want %q", i, m.Entry, m.Name, want[i])
		}
	}
}

func TestAssignUniqueNames(t *testing.T) {
	models := []PackModel{{Name: "a.json"}, {Name: "a.json"}, {Name: "a_1.json"}, {Name: "a.json"}}
	assignUniqueNames(models)
	want := []string{"a.json", "a_1.json", "a_1_1.json", "a_2.json"}
	for i, m := range models {
		if m.Name != want[i] {
			t.Fatalf("names[%d] = %q, want %q", i, m.Name, want[i])
		}
	}
}

func TestPackVOPLsErrors(t *testing.T) {
	if _, err := PackVOPLs(nil, vopl.PackCompNone); err == nil {
		t.Error("empty input accepted")
	}
	if _, err := PackVOPLs(map[string][]byte{"x.vopl": []byte("junk")}, vopl.PackCompNone); err == nil {
		t.Error("junk chunk accepted")
	}
}

func TestModelFileName(t *testing.T) {
	for in, want := range map[string]string{
		"a.vopl":          "a.json",
		"dir/sub/b.vopl":  "b.json",
		`win\path\c.vopl`: "c.json",
		"noext":           "noext.json",
		"":                "entry.json",
	} {
		if got := ModelFileName(in); got != want {
			t.Errorf("ModelFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
