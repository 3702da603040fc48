package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `env:"TEST_NAME" default:"svc"`
	Port    int32         `env:"TEST_PORT" default:"8000"`
	Enabled bool          `env:"TEST_ENABLED" default:"false"`
	TTL     time.Duration `env:"TEST_TTL" default:"30m"`
	Origins []string      `env:"TEST_ORIGINS" default:"http://a, http://b"`

	Nested struct {
		Secret string `env:"TEST_NESTED_SECRET"`
	}
}

func TestParseEnv_Defaults(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, ParseEnv(cfg))

	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, int32(8000), cfg.Port)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.TTL)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Origins)
	assert.Empty(t, cfg.Nested.Secret)
}

func TestParseEnv_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_PORT", "9000")
	t.Setenv("TEST_ENABLED", "true")
	t.Setenv("TEST_NESTED_SECRET", "s3cr3t")

	cfg := &testConfig{}
	require.NoError(t, ParseEnv(cfg))

	assert.Equal(t, int32(9000), cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "s3cr3t", cfg.Nested.Secret)
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("TEST_TTL", "forever")

	err := ParseEnv(&testConfig{})
	assert.ErrorContains(t, err, "TEST_TTL")
}

func TestParseEnv_NotPointer(t *testing.T) {
	assert.ErrorIs(t, ParseEnv(testConfig{}), ErrNotStructPointer)
}

func TestLoadYamlFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
test:
  name: from-yaml
  port: 7000
  origins:
    - http://x
    - http://y
  nested:
    secret: ${TEST_SECRET_SOURCE:-fallback}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// already set variables win over the file
	t.Setenv("TEST_PORT", "7100")
	t.Setenv("TEST_NAME", "")
	t.Setenv("TEST_ORIGINS", "")
	t.Setenv("TEST_NESTED_SECRET", "")

	cfg := &testConfig{}
	require.NoError(t, LoadAndParseYaml(path, cfg))

	assert.Equal(t, "from-yaml", cfg.Name)
	assert.Equal(t, int32(7100), cfg.Port)
	assert.Equal(t, []string{"http://x", "http://y"}, cfg.Origins)
	assert.Equal(t, "fallback", cfg.Nested.Secret)
}

func TestLoadAndParseYaml_MissingFile(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, LoadAndParseYaml(filepath.Join(t.TempDir(), "nope.yaml"), cfg))
	assert.Equal(t, "svc", cfg.Name)
}
