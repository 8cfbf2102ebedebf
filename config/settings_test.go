package config

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/fractal_browser/fractal"
)

func TestParseKeepsDefaults(t *testing.T) {
	s, err := Parse([]byte("depth: 6\nspin: 45\norigin: [1, 2, 3]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Depth != 6 || s.Spin != 45 {
		t.Errorf("depth %d spin %v; expected 6 45", s.Depth, s.Spin)
	}
	if s.Origin != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("origin %v", s.Origin)
	}
	if s.Spacing != 1.5 || s.ScaleStep != 0.5 || s.FrameRate != 60 || s.Addr != ":8000" {
		t.Errorf("defaults lost: %+v", s)
	}
}

var invalidSettings = []string{
	"depth: 0",
	"spacing: -1",
	"scale_step: 0",
	"frame_rate: 0",
	"max_delta_time: -0.5",
	"workers: 0",
	"depth: 11",
	"spin: .nan",
	"spin: -.inf",
	"frame_rate: 2000000000",
}

func TestParseInvalid(t *testing.T) {
	for _, data := range invalidSettings {
		if _, err := Parse([]byte(data)); !fractal.IsInvalidArgument(err) {
			t.Errorf("Parse(%q) error %v; expected invalid argument", data, err)
		}
	}
	if _, err := Parse([]byte("depth: [")); err == nil {
		t.Errorf("broken yaml parsed")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if s != Default() {
		t.Errorf("missing file did not give defaults: %+v", s)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	s := Default()
	s.Depth = 7
	s.Workers = 4
	data, err := s.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Errorf("round trip %+v != %+v", back, s)
	}
}
