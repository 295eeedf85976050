package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docmark.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	path := writeFile(t, `
ocr:
  api_key: from-file
  model: custom-ocr
  timeout: 30s
store:
  driver: memory
server:
  addr: ":9000"
render:
  math_unicode: false
  symbols:
    bullet: "-"
preferences:
  show_images: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.OCR.APIKey)
	assert.Equal(t, "custom-ocr", cfg.OCR.Model)
	assert.Equal(t, 30*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.False(t, cfg.Render.MathUnicode)
	require.NotNil(t, cfg.Render.MarkdownSymbol)
	assert.Equal(t, "-", cfg.Render.MarkdownSymbol.Bullet)
	assert.Equal(t, "☑", cfg.Render.MarkdownSymbol.TaskCompleted, "unset keys keep defaults")
	assert.False(t, cfg.Preferences.ShowImages)
	assert.True(t, cfg.Preferences.CopyAsMarkdown)
	assert.Equal(t, "https://api.mistral.ai", cfg.OCR.BaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "ocr:\n  model: from-file\n")
	t.Setenv("DOCMARK_OCR_MODEL", "from-env")
	t.Setenv("DOCMARK_CONCURRENCY", "4")
	t.Setenv(APIKeyEnv, "mistral-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OCR.Model)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "mistral-key", cfg.OCR.APIKey)
}

func TestLoad_PrefixedKeyWinsOverFallback(t *testing.T) {
	path := writeFile(t, "concurrency: 1\n")
	t.Setenv("DOCMARK_OCR_API_KEY", "primary")
	t.Setenv(APIKeyEnv, "fallback")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.OCR.APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeFile(t, "store:\n  path: ~/data/docs.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "docs.db"), cfg.Store.Path)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	bad := Default()
	bad.Store.Driver = "postgres"
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Concurrency = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Store.Path = ""
	assert.Error(t, bad.Validate())
}
