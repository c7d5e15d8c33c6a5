package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the application directory when set.
const HomeEnv = "SOLARIS_HOME"

// Config is the root configuration for solaris, stored in ~/.solaris/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Cloud CloudConfig `json:"cloud"`
	Log   LogConfig   `json:"log"`
}

// CloudConfig holds the endpoints used by login and cloud sync.
type CloudConfig struct {
	// DeviceCodeURL issues device codes (RFC 8628 device authorization endpoint).
	DeviceCodeURL string `json:"device_code_url"`
	// TokenURL is polled with the device code until a token is granted.
	TokenURL string `json:"token_url"`
	// MemoAPIURL receives one POST per saved memo when serving with --cloud.
	MemoAPIURL string `json:"memo_api_url"`
	// ClientID identifies this client to the authorization server. Optional.
	ClientID string `json:"client_id"`
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

const (
	DefaultDeviceCodeURL = "https://solaris.sh/api/auth/device/code"
	DefaultTokenURL      = "https://solaris.sh/api/auth/device/token"
	DefaultMemoAPIURL    = "https://solaris.sh/api/memos"
	DefaultClientID      = "solaris-cli"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"

	configFileName = "config.json"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Cloud: CloudConfig{
			DeviceCodeURL: DefaultDeviceCodeURL,
			TokenURL:      DefaultTokenURL,
			MemoAPIURL:    DefaultMemoAPIURL,
			ClientID:      DefaultClientID,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// solaris configuration – ~/.solaris/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to point solaris at a different cloud service.
{
  // ── Cloud sync ───────────────────────────────────────────────────────────
  "cloud": {
    // Device authorization endpoint used by: solaris auth login
    "device_code_url": "https://solaris.sh/api/auth/device/code",

    // Token endpoint polled while you confirm the code in your browser.
    "token_url": "https://solaris.sh/api/auth/device/token",

    // Memos are posted here when the server runs with: solaris serve --cloud
    "memo_api_url": "https://solaris.sh/api/memos",

    // Client identifier sent with device authorization requests.
    "client_id": "solaris-cli"
  },

  // ── Logging (always written to stderr) ───────────────────────────────────
  "log": {
    // One of: debug, info, warn, error
    "level": "info",

    // One of: text, json
    "format": "text"
  }
}
`

// BaseDir returns the application directory: $SOLARIS_HOME if set,
// otherwise ~/.solaris.
func BaseDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".solaris"), nil
}

// DatabasePath returns the diary database location inside base.
func DatabasePath(base string) string {
	return filepath.Join(base, "diary.db")
}

// TokenPath returns the stored credential location inside base.
func TokenPath(base string) string {
	return filepath.Join(base, "auth.json")
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads config.json from base, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func Load(base string) (Config, error) {
	path := filepath.Join(base, configFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields so callers always get a usable
// Config even if the user only partially fills in the file.
func applyDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.Cloud.DeviceCodeURL == "" {
		cfg.Cloud.DeviceCodeURL = def.Cloud.DeviceCodeURL
	}
	if cfg.Cloud.TokenURL == "" {
		cfg.Cloud.TokenURL = def.Cloud.TokenURL
	}
	if cfg.Cloud.MemoAPIURL == "" {
		cfg.Cloud.MemoAPIURL = def.Cloud.MemoAPIURL
	}
	if cfg.Cloud.ClientID == "" {
		cfg.Cloud.ClientID = def.Cloud.ClientID
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
