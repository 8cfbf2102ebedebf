package config

import (
	"io/ioutil"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/fractal_browser/fractal"
)

const (
	// depth 10 is about 2.4M parts
	MAX_DEPTH      = 10
	MAX_FRAME_RATE = 1000
)

type Settings struct {
	Depth        int        `yaml:"depth"`
	Spacing      float32    `yaml:"spacing"`
	ScaleStep    float32    `yaml:"scale_step"`
	Spin         float32    `yaml:"spin"`
	Origin       mgl32.Vec3 `yaml:"origin,flow"`
	FrameRate    int        `yaml:"frame_rate"`
	MaxDeltaTime float32    `yaml:"max_delta_time"`
	Workers      int        `yaml:"workers"`

	Addr    string `yaml:"addr"`
	WebPath string `yaml:"web_path"`
}

func Default() Settings {
	return Settings{
		Depth:        4,
		Spacing:      fractal.DEFAULT_SPACING,
		ScaleStep:    fractal.DEFAULT_SCALE_STEP,
		Spin:         fractal.DEFAULT_SPIN,
		FrameRate:    60,
		MaxDeltaTime: 0.1,
		Workers:      1,
		Addr:         ":8000",
		WebPath:      "web",
	}
}

func (s Settings) FractalOptions() fractal.Options {
	return fractal.Options{
		Depth:         s.Depth,
		SpacingFactor: s.Spacing,
		ScaleStep:     s.ScaleStep,
		Origin:        s.Origin,
	}
}

func (s Settings) Validate() error {
	if err := s.FractalOptions().Validate(); err != nil {
		return err
	}
	if s.Depth > MAX_DEPTH {
		return errors.Wrapf(fractal.ErrInvalidArgument, "depth %d is above %d", s.Depth, MAX_DEPTH)
	}
	if math.IsNaN(float64(s.Spin)) || math.IsInf(float64(s.Spin), 0) {
		return errors.Wrapf(fractal.ErrInvalidArgument, "spin %v is not finite", s.Spin)
	}
	if s.FrameRate <= 0 || s.FrameRate > MAX_FRAME_RATE {
		return errors.Wrapf(fractal.ErrInvalidArgument, "frame rate %d must be in 1..%d", s.FrameRate, MAX_FRAME_RATE)
	}
	if !(s.MaxDeltaTime > 0) || math.IsInf(float64(s.MaxDeltaTime), 0) {
		return errors.Wrapf(fractal.ErrInvalidArgument, "max delta time %v must be positive", s.MaxDeltaTime)
	}
	if s.Workers < 1 {
		return errors.Wrapf(fractal.ErrInvalidArgument, "workers %d must be at least 1", s.Workers)
	}
	return nil
}

// Parse fills fields missing in data with defaults.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrapf(err, "Unmarshaling error")
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Load reads yaml settings, a missing file gives defaults.
func Load(path string) (Settings, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), errors.Wrapf(err, "Cannot read file %s", path)
	}
	return Parse(data)
}

func (s Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(&s)
}
