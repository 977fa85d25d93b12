package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/soypat/lightwalk"
	"github.com/soypat/lightwalk/march"
	"gopkg.in/yaml.v3"
)

// MarchConfig holds the bounds of a ray march. See [march.Config].
type MarchConfig struct {
	MaxDistance     float64 `yaml:"max_distance" json:"max_distance"`
	SurfaceDistance float64 `yaml:"surface_distance" json:"surface_distance"`
	MaxIterations   int     `yaml:"max_iterations" json:"max_iterations"`
}

// Config configures rendering of a 3D field to an image file with [RenderFile].
type Config struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	// Workers is the amount of rows marched concurrently. Defaults to the number of CPUs.
	Workers int `yaml:"workers" json:"workers"`
	// Format is the output image format: ppm, png or bmp. Defaults to the Output file extension.
	Format string `yaml:"format" json:"format"`
	// Output is the image file path.
	Output string      `yaml:"output" json:"output"`
	Silent bool        `yaml:"silent" json:"silent"`
	Camera Camera      `yaml:"camera" json:"camera"`
	March  MarchConfig `yaml:"march" json:"march"`
}

// DefaultConfig returns the configuration used as base when decoding configuration files.
// It looks at the origin from 5 units down the -Z axis.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 256,
		Format: "ppm",
		Output: "lightwalk.ppm",
		Camera: Camera{
			Position: [3]float64{0, 0, -5},
			Up:       [3]float64{0, 1, 0},
			FOV:      60,
		},
		March: MarchConfig{
			MaxDistance:     100,
			SurfaceDistance: 1e-3,
			MaxIterations:   256,
		},
	}
}

// Validate returns all the problems found in the configuration joined in a single error.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.Width <= 0 || cfg.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height))
	}
	if cfg.Output == "" {
		errs = append(errs, errors.New("missing output path"))
	}
	if _, err := cfg.format(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Camera.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := MarcherConfig[float64](cfg).Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (cfg Config) format() (string, error) {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(cfg.Output)), ".")
	}
	switch format {
	case "ppm", "png", "bmp":
		return format, nil
	}
	return "", fmt.Errorf("unsupported image format %q", format)
}

// MarcherConfig returns the march bounds of cfg over scalar type T.
func MarcherConfig[T lightwalk.Scalar](cfg Config) march.Config[T] {
	return march.Config[T]{
		MaxDistance:     T(cfg.March.MaxDistance),
		SurfaceDistance: T(cfg.March.SurfaceDistance),
		MaxIterations:   cfg.March.MaxIterations,
	}
}

// LoadConfig decodes a configuration in format "yaml" or "json" from r over [DefaultConfig].
// Unknown fields are an error. The result is validated.
func LoadConfig(r io.Reader, format string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}
	if err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decoding %s config: %w", format, err)
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile is like [LoadConfig] but reads the named file, choosing the format by its extension.
func LoadConfigFile(filename string) (Config, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	return LoadConfig(fp, strings.TrimPrefix(filepath.Ext(filename), "."))
}

// RenderFile is an auxiliary function to aid users in getting setup in using lightwalk quickly.
// It marches f as seen from cfg's camera and writes the image to cfg.Output.
// Collisions are shaded with shader, such as a [ColorFunc] or [LambertShader], or white if nil.
func RenderFile[T lightwalk.Scalar, S any](f lightwalk.Field[T, S], cfg Config, shader RowShader[T, S]) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	m, err := march.NewMarcher(f, MarcherConfig[T](cfg))
	if err != nil {
		return err
	}
	mr, err := NewMarchRendererShader(m, cfg.Camera, cfg.Workers, shader)
	if err != nil {
		return err
	}
	watch := stopwatch()
	img, err := newImage(cfg.Width, cfg.Height, shader != nil)
	if err != nil {
		return err
	}
	hits, err := mr.Render(img)
	if err != nil {
		return err
	}
	log("marched", cfg.Width*cfg.Height, "rays with", hits, "collisions in", watch())

	format, _ := cfg.format()
	fp, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = Encode(fp, img, format)
	if err != nil {
		return fmt.Errorf("writing %s image: %w", format, err)
	}
	log("wrote", fp.Name())
	return fp.Sync()
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
