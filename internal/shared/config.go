package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables read by [Config.ApplyEnv].
const (
	EnvGeniusToken   = "GENIUS_ACCESS_TOKEN"
	EnvAlgoliaAppID  = "ALGOLIA_APP_ID"
	EnvAlgoliaSecret = "ALGOLIA_SECRET"
	EnvAlgoliaIndex  = "ALGOLIA_INDEX"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Lyrics      LyricsConfig      `toml:"lyrics"`
	Emoji       EmojiConfig       `toml:"emoji"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Genius  GeniusConfig  `toml:"genius"`
	Algolia AlgoliaConfig `toml:"algolia"`
}

// GeniusConfig contains the Genius API access token.
type GeniusConfig struct {
	AccessToken string `toml:"access_token"`
	BaseURL     string `toml:"base_url"`
}

// AlgoliaConfig identifies the hosted search index.
type AlgoliaConfig struct {
	AppID  string `toml:"app_id"`
	APIKey string `toml:"api_key"`
	Index  string `toml:"index"`
}

// LyricsConfig names the album to fetch and where the lyrics document lives.
type LyricsConfig struct {
	AlbumID  int    `toml:"album_id"`
	DataDir  string `toml:"data_dir"`
	FileName string `toml:"file_name"`
}

// EmojiConfig points at an alternative emoji dataset.
type EmojiConfig struct {
	Path string `toml:"path"`
}

// DatabaseConfig contains the job journal connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LyricsPath returns the location of the lyrics document.
func (c *Config) LyricsPath() string {
	return filepath.Join(c.Lyrics.DataDir, c.Lyrics.FileName)
}

// HasGenius reports whether a Genius access token is configured.
func (c *Config) HasGenius() bool {
	return c.Credentials.Genius.AccessToken != ""
}

// HasAlgolia reports whether every Algolia setting is present.
func (c *Config) HasAlgolia() bool {
	a := c.Credentials.Algolia
	return a.AppID != "" && a.APIKey != "" && a.Index != ""
}

// ApplyEnv overlays credentials found through lookup (usually [os.LookupEnv]).
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for key, dst := range map[string]*string{
		EnvGeniusToken:   &c.Credentials.Genius.AccessToken,
		EnvAlgoliaAppID:  &c.Credentials.Algolia.AppID,
		EnvAlgoliaSecret: &c.Credentials.Algolia.APIKey,
		EnvAlgoliaIndex:  &c.Credentials.Algolia.Index,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// LoadDotEnv copies the variables of a .env file into the process environment.
//
// Variables already set are left alone, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	for key, value := range vars {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// ResolveConfig builds the effective configuration: embedded defaults, then
// the TOML file at path when it exists, then the environment.
func ResolveConfig(path string, lookup func(string) (string, bool)) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if lookup != nil {
		config.ApplyEnv(lookup)
	}
	return config, nil
}
