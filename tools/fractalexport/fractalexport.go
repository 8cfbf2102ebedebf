package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/fractal_browser/config"
	"github.com/mogaika/fractal_browser/fractal"
	"github.com/mogaika/fractal_browser/utils"
	"github.com/mogaika/fractal_browser/utils/gltfutils"
)

func export(f *fractal.Fractal, settings config.Settings, out string) error {
	name := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	ext := strings.ToLower(filepath.Ext(out))
	switch ext {
	case ".glb", ".gltf", ".fbx", ".zip":
	default:
		return errors.Errorf("Unknown output format %q", ext)
	}

	w, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "Cannot create %s", out)
	}
	defer w.Close()

	switch ext {
	case ".glb", ".gltf":
		doc := gltfutils.NewDocument()
		f.ExportGLTF(doc, name)
		if ext == ".gltf" {
			return gltfutils.ExportJson(w, doc)
		}
		return gltfutils.ExportBinary(w, doc)
	case ".fbx":
		return f.ExportFbxDefault(name).Write(w)
	case ".zip":
		fb := f.ExportFbxDefault(name)
		if data, err := settings.Marshal(); err != nil {
			log.Printf("[export] settings marshal error: %v", err)
		} else {
			fb.AddExportFile(name+".yaml", data)
		}
		return fb.WriteZip(w, name+".fbx")
	}
	return nil
}

func main() {
	var configPath, out string
	var depth, ticks int
	var dt float64
	flag.StringVar(&configPath, "config", "fractal.yaml", "Path to yaml settings file")
	flag.IntVar(&depth, "depth", 0, "Number of levels, 0 - use config")
	flag.IntVar(&ticks, "ticks", 0, "Ticks to run before export")
	flag.Float64Var(&dt, "dt", 1.0/60, "Seconds per tick")
	flag.StringVar(&out, "o", "fractal.glb", "Output file: .glb, .gltf, .fbx or .zip")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if depth != 0 {
		settings.Depth = depth
	}
	if err := settings.Validate(); err != nil {
		log.Fatal(err)
	}

	f, err := fractal.Build(settings.FractalOptions())
	if err != nil {
		log.Fatal(err)
	}
	for i := 0; i < ticks; i++ {
		if err := f.TickParallel(float32(dt), settings.Spin, settings.Workers); err != nil {
			log.Fatal(err)
		}
	}

	if err := export(f, settings, out); err != nil {
		log.Fatal(err)
	}
	log.Printf("[export] %s parts after %d ticks written to %s", utils.FormatCount(f.Len()), ticks, out)
}
