package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FirstRunWritesTemplate(t *testing.T) {
	base := t.TempDir()

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	data, err := os.ReadFile(filepath.Join(base, configFileName))
	require.NoError(t, err)
	assert.Equal(t, configTemplate, string(data))

	// The template itself must parse to the defaults.
	again, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), again)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	base := t.TempDir()
	body := `// my overrides
{
  "cloud": {
    // staging
    "token_url": "http://localhost:8080/token"
  },
  "log": {"level": "debug"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(base, configFileName), []byte(body), 0o600))

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/token", cfg.Cloud.TokenURL)
	assert.Equal(t, DefaultDeviceCodeURL, cfg.Cloud.DeviceCodeURL)
	assert.Equal(t, DefaultMemoAPIURL, cfg.Cloud.MemoAPIURL)
	assert.Equal(t, DefaultClientID, cfg.Cloud.ClientID)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoad_CorruptFile(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, configFileName), []byte("{bad json"), 0o600))

	cfg, err := Load(base)
	assert.Error(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestBaseDir_EnvOverride(t *testing.T) {
	t.Setenv(HomeEnv, "/tmp/solaris-test")
	dir, err := BaseDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/solaris-test", dir)
	assert.Equal(t, "/tmp/solaris-test/diary.db", DatabasePath(dir))
	assert.Equal(t, "/tmp/solaris-test/auth.json", TokenPath(dir))
}

func TestStripLineComments(t *testing.T) {
	in := "// top\n{\n  // inner\n  \"a\": \"http://x//y\"\n}"
	got := string(stripLineComments([]byte(in)))
	assert.NotContains(t, got, "top")
	assert.NotContains(t, got, "inner")
	assert.Contains(t, got, `"a": "http://x//y"`)
}
