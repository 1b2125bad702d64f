//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/mcmodel/api"
	"github.com/voxelsplace/mcmodel/config"
	"github.com/voxelsplace/mcmodel/vopl"
)

func bytesArg(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func toUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// configArg reads an optional JSON config string over the defaults.
func configArg(args []js.Value, i int) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) <= i || args[i].IsUndefined() || args[i].IsNull() {
		return cfg, nil
	}
	return config.Parse([]byte(args[i].String()))
}

// converter wraps a bytes -> model JSON conversion. Errors come back as
// strings, models as JSON strings.
func converter(name string, conv func([]byte, *config.Config) ([]byte, api.Stats, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return js.ValueOf("missing " + name + " bytes")
		}
		cfg, err := configArg(args, 1)
		if err != nil {
			return js.ValueOf(err.Error())
		}
		out, _, err := conv(bytesArg(args[0]), cfg)
		if err != nil {
			return js.ValueOf(err.Error())
		}
		return js.ValueOf(string(out))
	})
}

func model2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing model json")
	}
	out, err := api.ModelToGLB([]byte(args[0].String()))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func packVopls(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing files object")
	}
	filesObj := args[0]
	files := map[string][]byte{}
	keys := js.Global().Get("Object").Call("keys", filesObj)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		files[k] = bytesArg(filesObj.Get(k))
	}
	out, err := api.PackVOPLs(files, vopl.PackCompZstd)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func voplpack2models(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	cfg, err := configArg(args, 1)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	models, err := api.PackToModels(bytesArg(args[0]), cfg)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	// object mapping model file names to JSON strings
	result := js.Global().Get("Object").New()
	for _, m := range models {
		result.Set(m.Name, string(m.Model))
	}
	return result
}

func main() {
	js.Global().Set("structured2model", converter("voxel json", api.StructuredToModel))
	js.Global().Set("heightmap2model", converter("image", api.HeightmapToModel))
	js.Global().Set("vopl2model", converter("vopl", func(b []byte, cfg *config.Config) ([]byte, api.Stats, error) {
		return api.VOPLToModel(b, cfg)
	}))
	js.Global().Set("model2glb", js.FuncOf(model2glb))
	js.Global().Set("packVopls", js.FuncOf(packVopls))
	js.Global().Set("voplpack2models", js.FuncOf(voplpack2models))
	select {}
}
