package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cube-field/field"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultSceneConfigIsValid(t *testing.T) {
	cfg := DefaultSceneConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "grid", cfg.Field.Mode)
	assert.Equal(t, float32(35), cfg.Camera.FOV)
	assert.Equal(t, HexColor(0xddeeff), cfg.Lights.Sky)
}

func TestLoadSceneConfigPartialOverrides(t *testing.T) {
	files := map[string]string{
		"scene.toml": `
background = "#000000"

[field]
mode = "cloud"
objects_per_axis = 7
seed = 42

[fog]
enabled = false
`,
		"scene.yaml": `
background: "#000000"
field:
  mode: cloud
  objects_per_axis: 7
  seed: 42
fog:
  enabled: false
`,
		"scene.json": `{
  "background": "#000000",
  "field": {"mode": "cloud", "objects_per_axis": 7, "seed": 42},
  "fog": {"enabled": false}
}`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadSceneConfig(writeFile(t, name, content))
			require.NoError(t, err)

			assert.Equal(t, "cloud", cfg.Field.Mode)
			assert.Equal(t, 7, cfg.Field.ObjectsPerAxis)
			assert.Equal(t, int64(42), cfg.Field.Seed)
			assert.False(t, cfg.Fog.Enabled)
			assert.Equal(t, HexColor(0), cfg.Background)

			def := DefaultSceneConfig()
			assert.Equal(t, def.Field.Spacing, cfg.Field.Spacing)
			assert.Equal(t, def.Camera, cfg.Camera)
			assert.Equal(t, def.Fog.Color, cfg.Fog.Color)
		})
	}
}

func TestSaveLoadSceneConfig(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Field.Mode = "cloud"
	cfg.Field.Template = field.TemplateBlueLarge
	cfg.Lights.Ground = 0x123456
	cfg.Camera.Position = [3]float32{1, 2, 3}

	for _, ext := range []string{".toml", ".yaml", ".json"} {
		path := filepath.Join(t.TempDir(), "out"+ext)
		require.NoError(t, SaveSceneConfig(path, cfg), ext)
		loaded, err := LoadSceneConfig(path)
		require.NoError(t, err, ext)
		assert.Equal(t, cfg, loaded, ext)
	}
}

func TestLoadSceneConfigErrors(t *testing.T) {
	cases := map[string]string{
		"unknown.toml":  "[field]\nshape = \"sphere\"\n",
		"unknown.yaml":  "camera:\n  zoom: 2\n",
		"mode.toml":     "[field]\nmode = \"spiral\"\n",
		"count.yaml":    "field:\n  objects_per_axis: 0\n",
		"spacing.json":  `{"field": {"spacing": -1}}`,
		"template.toml": "[field]\ntemplate = 3\n",
		"fog.yaml":      "fog:\n  near: 50\n  far: 10\n",
		"polar.json":    `{"camera": {"max_polar_angle": 200}}`,
		"colour.toml":   "background = \"blue\"\n",
		"syntax.json":   `{"field": `,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadSceneConfig(writeFile(t, name, content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Equal(t, DefaultSceneConfig(), cfg)
		})
	}

	_, err := LoadSceneConfig(writeFile(t, "scene.ini", "x=1"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadSceneConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCloudAllowsZeroSpacing(t *testing.T) {
	cfg := DefaultSceneConfig()
	cfg.Field.Mode = "cloud"
	cfg.Field.Spacing = 0
	assert.NoError(t, cfg.Validate())
}

func TestHexColor(t *testing.T) {
	var h HexColor
	for _, s := range []string{"#ff3333", "0xff3333", "FF3333"} {
		require.NoError(t, h.UnmarshalText([]byte(s)), s)
		assert.Equal(t, HexColor(0xff3333), h)
	}
	for _, s := range []string{"", "#fff", "#gg0000", "#ff33331"} {
		assert.ErrorIs(t, h.UnmarshalText([]byte(s)), ErrInvalidConfig, s)
	}

	text, err := HexColor(0x0a0b0c).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#0a0b0c", string(text))
	assert.Equal(t, uint32(0xfef59c), HexColor(0xfef59c).Color().Hex())
}

func TestFieldConfigGenerate(t *testing.T) {
	cfg := DefaultSceneConfig().Field
	f, err := cfg.Generate(nil)
	require.NoError(t, err)
	assert.Equal(t, field.ModeGrid, f.Mode)
	assert.Equal(t, 1000, f.Len())

	cfg.Mode = "cloud"
	cfg.ObjectsPerAxis = 3
	_, err = cfg.Generate(nil)
	assert.ErrorIs(t, err, field.ErrRandomSourceUnavailable)

	f, err = cfg.Generate(field.NewSeededSource(5))
	require.NoError(t, err)
	assert.Equal(t, 27, f.Len())

	cfg.Template = 9
	_, err = cfg.Generate(field.NewSeededSource(5))
	assert.ErrorIs(t, err, field.ErrInvalidParameter)
}
