package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	stdio "io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cube-field/core"
	"cube-field/field"
)

// ErrInvalidConfig reports a config file that cannot be read as a scene
// configuration or whose values are out of range.
var ErrInvalidConfig = errors.New("invalid config")

// HexColor is an RGB colour written as "#rrggbb" in config files.
type HexColor uint32

func (h HexColor) Color() core.Color {
	return core.ColorFromHex(uint32(h))
}

func (h HexColor) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%06x", uint32(h)&0xffffff)), nil
}

func (h *HexColor) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return fmt.Errorf("%w: colour %q is not #rrggbb", ErrInvalidConfig, string(text))
	}
	*h = HexColor(v)
	return nil
}

// SceneConfig is everything the demo reads from a config file.
type SceneConfig struct {
	Field     FieldConfig     `toml:"field" yaml:"field" json:"field"`
	Particles ParticlesConfig `toml:"particles" yaml:"particles" json:"particles"`
	Lights    LightsConfig    `toml:"lights" yaml:"lights" json:"lights"`
	Fog       FogConfig       `toml:"fog" yaml:"fog" json:"fog"`
	Camera    CameraConfig    `toml:"camera" yaml:"camera" json:"camera"`
	Window    WindowConfig    `toml:"window" yaml:"window" json:"window"`

	Background HexColor `toml:"background" yaml:"background" json:"background"`
}

// FieldConfig selects the layout and parameters of the generated field.
type FieldConfig struct {
	Mode           string     `toml:"mode" yaml:"mode" json:"mode"` // "grid" or "cloud"
	ObjectsPerAxis int        `toml:"objects_per_axis" yaml:"objects_per_axis" json:"objects_per_axis"`
	Spacing        float32    `toml:"spacing" yaml:"spacing" json:"spacing"` // grid only
	Template       int        `toml:"template" yaml:"template" json:"template"`
	Seed           int64      `toml:"seed" yaml:"seed" json:"seed"` // cloud only; 0 seeds from the clock
	Spin           [3]float32 `toml:"spin" yaml:"spin" json:"spin"` // radians per second
}

type ParticlesConfig struct {
	Count  int      `toml:"count" yaml:"count" json:"count"` // 0 disables
	Extent float32  `toml:"extent" yaml:"extent" json:"extent"`
	Size   float32  `toml:"size" yaml:"size" json:"size"`
	Color  HexColor `toml:"color" yaml:"color" json:"color"`
}

type LightsConfig struct {
	Sky                  HexColor   `toml:"sky" yaml:"sky" json:"sky"`
	Ground               HexColor   `toml:"ground" yaml:"ground" json:"ground"`
	HemisphereIntensity  float32    `toml:"hemisphere_intensity" yaml:"hemisphere_intensity" json:"hemisphere_intensity"`
	Directional          HexColor   `toml:"directional" yaml:"directional" json:"directional"`
	DirectionalIntensity float32    `toml:"directional_intensity" yaml:"directional_intensity" json:"directional_intensity"`
	DirectionalPosition  [3]float32 `toml:"directional_position" yaml:"directional_position" json:"directional_position"`
}

type FogConfig struct {
	Enabled bool     `toml:"enabled" yaml:"enabled" json:"enabled"`
	Color   HexColor `toml:"color" yaml:"color" json:"color"`
	Near    float32  `toml:"near" yaml:"near" json:"near"`
	Far     float32  `toml:"far" yaml:"far" json:"far"`
}

// CameraConfig places the camera and bounds the orbit controls. Angles are
// in degrees.
type CameraConfig struct {
	FOV      float32    `toml:"fov" yaml:"fov" json:"fov"`
	Near     float32    `toml:"near" yaml:"near" json:"near"`
	Far      float32    `toml:"far" yaml:"far" json:"far"`
	Position [3]float32 `toml:"position" yaml:"position" json:"position"`
	Target   [3]float32 `toml:"target" yaml:"target" json:"target"`

	MinDistance   float32 `toml:"min_distance" yaml:"min_distance" json:"min_distance"`
	MaxDistance   float32 `toml:"max_distance" yaml:"max_distance" json:"max_distance"`
	MinPolarAngle float32 `toml:"min_polar_angle" yaml:"min_polar_angle" json:"min_polar_angle"`
	MaxPolarAngle float32 `toml:"max_polar_angle" yaml:"max_polar_angle" json:"max_polar_angle"`
	Damping       bool    `toml:"damping" yaml:"damping" json:"damping"`
}

type WindowConfig struct {
	Width  int    `toml:"width" yaml:"width" json:"width"`
	Height int    `toml:"height" yaml:"height" json:"height"`
	Title  string `toml:"title" yaml:"title" json:"title"`
	VSync  bool   `toml:"vsync" yaml:"vsync" json:"vsync"`
}

// DefaultSceneConfig returns the stock demo: a 10x10x10 grid of small red
// cubes in white fog, lit by a hemisphere and a directional light.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Field: FieldConfig{
			Mode:           field.ModeGrid.String(),
			ObjectsPerAxis: 10,
			Spacing:        2,
			Template:       field.TemplateRedSmall,
			Spin:           [3]float32{0.3, 0.3, -0.3},
		},
		Particles: ParticlesConfig{
			Count:  1000,
			Extent: 200,
			Size:   2,
			Color:  0x888888,
		},
		Lights: LightsConfig{
			Sky:                  0xddeeff,
			Ground:               0x202020,
			HemisphereIntensity:  1,
			Directional:          0xffffff,
			DirectionalIntensity: 0.8,
			DirectionalPosition:  [3]float32{10, 10, 10},
		},
		Fog: FogConfig{
			Enabled: true,
			Color:   0xffffff,
			Near:    10,
			Far:     80,
		},
		Camera: CameraConfig{
			FOV:           35,
			Near:          0.1,
			Far:           1000,
			Position:      [3]float32{0, 10, 20},
			MinDistance:   5,
			MaxDistance:   100,
			MinPolarAngle: 0,
			MaxPolarAngle: 90,
			Damping:       true,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Cube Field",
			VSync:  true,
		},
		Background: 0xffffff,
	}
}

// Validate reports the first out-of-range value, wrapped in ErrInvalidConfig.
func (c SceneConfig) Validate() error {
	invalid := func(key string, format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
	}

	mode, err := field.ParseMode(c.Field.Mode)
	if err != nil {
		return invalid("field.mode", "%q is not grid or cloud", c.Field.Mode)
	}
	if n := c.Field.ObjectsPerAxis; n <= 0 || n > field.MaxObjectsPerAxis {
		return invalid("field.objects_per_axis", "%d outside [1,%d]", n, field.MaxObjectsPerAxis)
	}
	if mode == field.ModeGrid && !(c.Field.Spacing > 0) {
		return invalid("field.spacing", "%g must be positive", c.Field.Spacing)
	}
	if t := c.Field.Template; t < 0 || t >= len(field.MakeTemplates()) {
		return invalid("field.template", "%d outside [0,%d)", t, len(field.MakeTemplates()))
	}

	if c.Particles.Count < 0 {
		return invalid("particles.count", "%d is negative", c.Particles.Count)
	}
	if c.Particles.Count > 0 && !(c.Particles.Extent > 0) {
		return invalid("particles.extent", "%g must be positive", c.Particles.Extent)
	}

	if c.Fog.Enabled && !(c.Fog.Near >= 0 && c.Fog.Far > c.Fog.Near) {
		return invalid("fog", "near %g must be below far %g", c.Fog.Near, c.Fog.Far)
	}

	cam := c.Camera
	if !(cam.FOV > 0 && cam.FOV < 180) {
		return invalid("camera.fov", "%g outside (0,180)", cam.FOV)
	}
	if !(cam.Near > 0 && cam.Far > cam.Near) {
		return invalid("camera", "near %g and far %g must satisfy 0 < near < far", cam.Near, cam.Far)
	}
	if cam.MinDistance < 0 || cam.MaxDistance < cam.MinDistance {
		return invalid("camera", "distance limits [%g,%g] are inverted", cam.MinDistance, cam.MaxDistance)
	}
	if cam.MinPolarAngle < 0 || cam.MaxPolarAngle > 180 || cam.MaxPolarAngle < cam.MinPolarAngle {
		return invalid("camera", "polar limits [%g,%g] outside [0,180]", cam.MinPolarAngle, cam.MaxPolarAngle)
	}
	if ArrayToVec3(cam.Position) == ArrayToVec3(cam.Target) {
		return invalid("camera.position", "coincides with target")
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window", "size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	return nil
}

// Generate builds the configured field. rng is only drawn from in cloud
// mode.
func (c FieldConfig) Generate(rng field.Source) (*field.Field, error) {
	mode, err := field.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	templates := field.MakeTemplates()
	if c.Template < 0 || c.Template >= len(templates) {
		return nil, fmt.Errorf("%w: template %d outside [0,%d)", field.ErrInvalidParameter, c.Template, len(templates))
	}
	t := templates[c.Template]
	if mode == field.ModeCloud {
		return field.GenerateRandomCloud(c.ObjectsPerAxis, t, rng)
	}
	return field.GenerateGrid(c.ObjectsPerAxis, c.Spacing, t)
}

type configFormat int

const (
	formatTOML configFormat = iota
	formatYAML
	formatJSON
)

func formatOf(path string) (configFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json":
		return formatJSON, nil
	}
	return 0, fmt.Errorf("%w: %s: unsupported extension, want .toml, .yaml or .json", ErrInvalidConfig, path)
}

// LoadSceneConfig reads path over DefaultSceneConfig, so a file only needs
// the keys it changes. The format follows the extension. Unknown keys are
// rejected.
func LoadSceneConfig(path string) (SceneConfig, error) {
	cfg := DefaultSceneConfig()
	format, err := formatOf(path)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := decodeConfig(format, data, &cfg); err != nil {
		return DefaultSceneConfig(), fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultSceneConfig(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(format configFormat, data []byte, cfg *SceneConfig) error {
	r := bytes.NewReader(data)
	switch format {
	case formatTOML:
		return toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	case formatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, stdio.EOF) {
			return err
		}
		return nil
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
}

// SaveSceneConfig writes cfg to path in the format named by its extension.
func SaveSceneConfig(path string, cfg SceneConfig) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatTOML:
		data, err = toml.Marshal(cfg)
	case formatYAML:
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
