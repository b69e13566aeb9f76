package config

import (
	"path/filepath"
	"strings"
)

const (
	keychainService = "grokwords"
	keychainAccount = "xai_api_key"

	// CatalogFileName is the word list looked up in the data directory when
	// catalog.path is unset.
	CatalogFileName = "ENGLISH_CERF_WORDS_EXTENDED.csv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Catalog CatalogConfig
	LLM     LLMConfig
	Learner LearnerConfig
	Review  ReviewConfig
	Browse  BrowseConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type CatalogConfig struct {
	Path string
}

type LLMConfig struct {
	BaseURL    string
	ChatModel  string
	ImageModel string
	APIKey     string
}

// HasAPIKey reports whether network features can be used.
func (c LLMConfig) HasAPIKey() bool {
	return c.APIKey != ""
}

type LearnerConfig struct {
	NativeLanguage string
}

type ReviewConfig struct {
	Reward float64
}

type BrowseConfig struct {
	PageSize int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		LLM: LLMConfig{
			BaseURL:    "https://api.x.ai/v1",
			ChatModel:  "grok-4-1-fast-reasoning",
			ImageModel: "grok-2-image-1212",
		},
		Learner: LearnerConfig{
			NativeLanguage: "english",
		},
		Review: ReviewConfig{
			Reward: 1,
		},
		Browse: BrowseConfig{
			PageSize: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// CatalogLocation returns the word list path or URL, falling back to
// CatalogFileName inside the data directory.
func (c Config) CatalogLocation() string {
	if c.Catalog.Path != "" {
		return c.Catalog.Path
	}
	return filepath.Join(c.Storage.DataDir, CatalogFileName)
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.grokwords.app) and the
// API key is read from the Keychain.
// Elsewhere the backend is a JSON file at $XDG_CONFIG_HOME/grokwords/config.json
// and the API key lives in $XDG_DATA_HOME/grokwords/secrets.json.
//
// Environment variables (GROKWORDS_*) override backend values on all platforms.
// A missing API key is not an error; callers check LLM.HasAPIKey before any
// network call.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainStore{})
}

// keychain abstracts secret storage for testing.
type keychain interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.LLM.APIKey == "" {
		if key, err := kc.Get(keychainService, keychainAccount); err == nil && key != "" {
			cfg.LLM.APIKey = key
		}
	}

	return cfg, nil
}

// SetAPIKey stores the provider API key in the platform secret store.
func SetAPIKey(value string) error {
	return keychainStore{}.Set(keychainService, keychainAccount, value)
}

// MissingAPIKeyHint tells the user where the API key can be provided.
func MissingAPIKeyHint() string {
	return "set it with `grokwords config set-api-key <key>` or the GROKWORDS_XAI_API_KEY environment variable" + apiKeyHint()
}

type keychainStore struct{}

func (keychainStore) Get(service, account string) (string, error) {
	out, err := keychainGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (keychainStore) Set(service, account, value string) error {
	return keychainSet(service, account, value)
}
