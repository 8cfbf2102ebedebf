package web

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/fractal_browser/animator"
	"github.com/mogaika/fractal_browser/config"
	"github.com/mogaika/fractal_browser/fractal"
	"github.com/mogaika/fractal_browser/utils"
	"github.com/mogaika/fractal_browser/utils/fbxbuilder"
	"github.com/mogaika/fractal_browser/utils/gltfutils"
	"github.com/mogaika/fractal_browser/webutils"
)

type JsonTransform struct {
	P [3]float32 `json:"p"`
	R [4]float32 `json:"r"` // x y z w
	S float32    `json:"s"`
}

type JsonFrame struct {
	Generation uint64          `json:"generation"`
	Number     uint64          `json:"number"`
	Elapsed    float32         `json:"elapsed"`
	Depth      int             `json:"depth"`
	Counts     []int           `json:"counts"`
	Parts      []JsonTransform `json:"parts"`
}

func NewJsonFrame(fr *animator.Frame) *JsonFrame {
	jf := &JsonFrame{
		Generation: fr.Generation,
		Number:     fr.Number,
		Elapsed:    fr.Elapsed,
		Depth:      fr.Depth,
		Counts:     fr.Counts,
		Parts:      make([]JsonTransform, len(fr.Transforms)),
	}
	for i, t := range fr.Transforms {
		jf.Parts[i] = JsonTransform{
			P: t.Position,
			R: quatXYZW(t.Rotation),
			S: t.Scale,
		}
	}
	return jf
}

type JsonFractal struct {
	Settings   config.Settings `json:"settings"`
	Depth      int             `json:"depth"`
	Counts     []int           `json:"counts"`
	Total      int             `json:"total"`
	TotalText  string          `json:"total_text"`
	Branching  int             `json:"branching"`
	Paused     bool            `json:"paused"`
	Frame      uint64          `json:"frame"`
	Generation uint64          `json:"generation"`
	Viewers    int             `json:"viewers"`
}

type JsonPart struct {
	Level         int        `json:"level"`
	Index         int        `json:"index"`
	ParentIndex   int        `json:"parent_index"`
	Label         string     `json:"label"`
	ChildIndex    int        `json:"child_index"`
	Direction     [3]float32 `json:"direction"`
	BaseRotation  [4]float32 `json:"base_rotation"`
	LocalRotation [4]float32 `json:"local_rotation"`
	WorldRotation [4]float32 `json:"world_rotation"`
	WorldPosition [3]float32 `json:"world_position"`
	Scale         float32    `json:"scale"`
}

func quatXYZW(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

func intVar(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, errors.Wrapf(fractal.ErrInvalidArgument, "%s %q is not integer", name, mux.Vars(r)[name])
	}
	return v, nil
}

func (s *Server) HandlerFractal(w http.ResponseWriter, r *http.Request) {
	fr := s.Animator.Frame()
	total := len(fr.Transforms)
	webutils.WriteJson(w, &JsonFractal{
		Settings:   s.Animator.Settings(),
		Depth:      fr.Depth,
		Counts:     fr.Counts,
		Total:      total,
		TotalText:  utils.FormatCount(total),
		Branching:  fractal.Branching,
		Paused:     s.Animator.Paused(),
		Frame:      fr.Number,
		Generation: fr.Generation,
		Viewers:    s.Hub.ClientsCount(),
	})
}

func (s *Server) HandlerFrame(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, NewJsonFrame(s.Animator.Frame()))
}

func (s *Server) HandlerPart(w http.ResponseWriter, r *http.Request) {
	level, err := intVar(r, "level")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	index, err := intVar(r, "index")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	p, err := s.Animator.Part(level, index)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	jp := &JsonPart{
		Level:         level,
		Index:         index,
		ParentIndex:   -1,
		Label:         fractal.Label(level, p.ChildIndex),
		ChildIndex:    p.ChildIndex,
		Direction:     p.Direction,
		BaseRotation:  quatXYZW(p.BaseRotation),
		LocalRotation: quatXYZW(p.LocalRotation),
		WorldRotation: quatXYZW(p.WorldRotation),
		WorldPosition: p.WorldPosition,
		Scale:         p.Scale,
	}
	if level > 0 {
		jp.ParentIndex = fractal.ParentIndex(index)
	}
	webutils.WriteJson(w, jp)
}

func (s *Server) HandlerRebuild(w http.ResponseWriter, r *http.Request) {
	depth, err := intVar(r, "depth")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Hub.Progress(0, "rebuilding with depth %d", depth)
	if err := s.Animator.Rebuild(depth); err != nil {
		s.Hub.Error("rebuild failed: %v", err)
		webutils.WriteError(w, err)
		return
	}
	s.Hub.Info("rebuilt with depth %d", depth)
	s.HandlerFractal(w, r)
}

func (s *Server) HandlerAction(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	switch action {
	case "pause":
		s.Animator.Pause()
	case "resume":
		s.Animator.Resume()
	case "step":
		dt := float64(1) / float64(s.Animator.Settings().FrameRate)
		if v := r.URL.Query().Get("dt"); v != "" {
			var err error
			if dt, err = strconv.ParseFloat(v, 32); err != nil {
				webutils.WriteError(w, errors.Wrapf(fractal.ErrInvalidArgument, "dt %q is not a number", v))
				return
			}
		}
		if err := s.Animator.Step(float32(dt)); err != nil {
			webutils.WriteError(w, err)
			return
		}
	default:
		webutils.WriteError(w, errors.Wrapf(fractal.ErrInvalidArgument, "unknown action %q", action))
		return
	}
	s.HandlerFractal(w, r)
}

func (s *Server) exportName(r *http.Request) string {
	if name := r.URL.Query().Get("name"); name != "" {
		return name
	}
	return s.names.RandomName()
}

func (s *Server) HandlerDumpGltf(w http.ResponseWriter, r *http.Request) {
	name := s.exportName(r)
	doc := gltfutils.NewDocument()

	var buf bytes.Buffer
	err := s.Animator.View(func(f *fractal.Fractal) error {
		f.ExportGLTF(doc, name)
		return gltfutils.ExportBinary(&buf, doc)
	})
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to export gltf"))
		return
	}
	webutils.WriteFile(w, &buf, name+".glb")
}

func (s *Server) HandlerDumpFbx(w http.ResponseWriter, r *http.Request) {
	name := s.exportName(r)

	var fb *fbxbuilder.FBXBuilder
	err := s.Animator.View(func(f *fractal.Fractal) error {
		fb = f.ExportFbxDefault(name)
		return nil
	})
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to export fbx"))
		return
	}

	var buf bytes.Buffer
	if r.URL.Query().Get("zip") != "" {
		if settings, err := s.Animator.Settings().Marshal(); err != nil {
			log.Printf("[web] settings marshal error: %v", err)
		} else {
			fb.AddExportFile(name+".yaml", settings)
		}
		if err := fb.WriteZip(&buf, name+".fbx"); err != nil {
			webutils.WriteError(w, err)
			return
		}
		webutils.WriteFile(w, &buf, name+".zip")
		return
	}
	if err := fb.Write(&buf); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to export fbx"))
		return
	}
	webutils.WriteFile(w, &buf, name+".fbx")
}

func (s *Server) HandlerDumpState(w http.ResponseWriter, r *http.Request) {
	fr := s.Animator.Frame()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	webutils.WriteResult(w, []byte(utils.SDump(s.Animator.Settings(), fr)))
}

func (s *Server) HandlerWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already replied
		return
	}
	s.Hub.NewClient(conn)
}
