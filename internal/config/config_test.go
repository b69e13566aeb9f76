package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
)

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	value string
	err   error
	set   map[string]string
}

func (m *mockKeychain) Get(service, account string) (string, error) {
	return m.value, m.err
}

func (m *mockKeychain) Set(service, account, value string) error {
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[service+"/"+account] = value
	return nil
}

// mapBackend is an in-memory ConfigBackend.
type mapBackend struct {
	data map[string]any
}

func newMapBackend(kv map[string]any) *mapBackend {
	if kv == nil {
		kv = make(map[string]any)
	}
	return &mapBackend{data: kv}
}

func (b *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return "", false, nil
	}
	return fmt.Sprint(v), true, nil
}

func (b *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return 0, false, nil
	}
	i, ok := v.(int)
	if !ok {
		return 0, true, fmt.Errorf("invalid integer for %s", key)
	}
	return i, true, nil
}

func (b *mapBackend) SetString(key, val string) error { b.data[key] = val; return nil }
func (b *mapBackend) SetInt(key string, val int) error { b.data[key] = val; return nil }
func (b *mapBackend) Delete(key string) error { delete(b.data, key); return nil }

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values are applied with an empty backend.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMapBackend(nil), &mockKeychain{err: errors.New("no keychain")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.LLM.BaseURL != "https://api.x.ai/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.ChatModel != "grok-4-1-fast-reasoning" || cfg.LLM.ImageModel != "grok-2-image-1212" {
		t.Errorf("models = %q, %q", cfg.LLM.ChatModel, cfg.LLM.ImageModel)
	}
	if cfg.Learner.NativeLanguage != "english" {
		t.Errorf("NativeLanguage = %q", cfg.Learner.NativeLanguage)
	}
	if cfg.Review.Reward != 1 {
		t.Errorf("Reward = %v", cfg.Review.Reward)
	}
	if cfg.Browse.PageSize != 100 {
		t.Errorf("PageSize = %d", cfg.Browse.PageSize)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("DataDir should have a default")
	}
}

// TestMissingAPIKeyIsNotAnError checks that loading succeeds without a key.
func TestMissingAPIKeyIsNotAnError(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMapBackend(nil), &mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.HasAPIKey() {
		t.Error("expected no API key")
	}
}

func TestBackendValues(t *testing.T) {
	clearEnv(t)

	b := newMapBackend(map[string]any{
		"server.port":             5000,
		"storage.data_dir":        "/tmp/grokwords-test",
		"learner.native_language": "korean",
		"review.reward":           "2.5",
		"browse.page_size":        25,
	})
	cfg, err := loadWith(b, &mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 5000 || cfg.Storage.DataDir != "/tmp/grokwords-test" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Learner.NativeLanguage != "korean" || cfg.Review.Reward != 2.5 || cfg.Browse.PageSize != 25 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CatalogLocation() != filepath.Join("/tmp/grokwords-test", CatalogFileName) {
		t.Errorf("CatalogLocation = %q", cfg.CatalogLocation())
	}
}

func TestBackendBadInt(t *testing.T) {
	clearEnv(t)
	b := newMapBackend(map[string]any{"server.port": "abc"})
	if _, err := loadWith(b, &mockKeychain{}); err == nil {
		t.Error("expected error for non-integer port")
	}
}

func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROKWORDS_SERVER_PORT", "6000")
	t.Setenv("GROKWORDS_NATIVE_LANGUAGE", "japanese")
	t.Setenv("GROKWORDS_REVIEW_REWARD", "not-a-number")
	t.Setenv("GROKWORDS_CATALOG_PATH", "https://example.com/words.csv")

	b := newMapBackend(map[string]any{"server.port": 5000})
	cfg, err := loadWith(b, &mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("Server.Port = %d, want 6000", cfg.Server.Port)
	}
	if cfg.Learner.NativeLanguage != "japanese" {
		t.Errorf("NativeLanguage = %q", cfg.Learner.NativeLanguage)
	}
	if cfg.Review.Reward != 1 {
		t.Errorf("bad float should keep default, got %v", cfg.Review.Reward)
	}
	if cfg.CatalogLocation() != "https://example.com/words.csv" {
		t.Errorf("CatalogLocation = %q", cfg.CatalogLocation())
	}
}

func TestKeychainFallback(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMapBackend(nil), &mockKeychain{value: "from-keychain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.APIKey != "from-keychain" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}

	t.Setenv("GROKWORDS_XAI_API_KEY", "from-env")
	cfg, err = loadWith(newMapBackend(nil), &mockKeychain{value: "from-keychain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.APIKey != "from-env" {
		t.Errorf("env should win over keychain, got %q", cfg.LLM.APIKey)
	}
}

func TestSetKey(t *testing.T) {
	b := newMapBackend(nil)

	if err := setKeyWith(b, "server.port", "4200"); err != nil {
		t.Fatalf("setKeyWith: %v", err)
	}
	if b.data["server.port"] != 4200 {
		t.Errorf("server.port = %v", b.data["server.port"])
	}
	if err := setKeyWith(b, "review.reward", "0.5"); err != nil {
		t.Fatalf("setKeyWith float: %v", err)
	}
	if err := setKeyWith(b, "review.reward", "lots"); err == nil {
		t.Error("expected error for bad float")
	}
	if err := setKeyWith(b, "server.port", "x"); err == nil {
		t.Error("expected error for bad int")
	}
	if err := setKeyWith(b, "llm.api_key", "secret"); err == nil {
		t.Error("secrets must not be settable")
	}
	if err := setKeyWith(b, "no.such", "1"); err == nil {
		t.Error("expected error for unknown key")
	}

	if err := unsetKeyWith(b, "server.port"); err != nil {
		t.Fatalf("unsetKeyWith: %v", err)
	}
	if _, ok := b.data["server.port"]; ok {
		t.Error("server.port should be removed")
	}
}

func TestShowAllHidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.LLM.APIKey = "super-secret"
	for _, ki := range ShowAll(cfg) {
		if ki.Value == "super-secret" || ki.Key == "llm.api_key" {
			t.Errorf("secret leaked: %+v", ki)
		}
	}
	if slices.Contains(ValidKeys(), "llm.api_key") {
		t.Error("ValidKeys should not list secrets")
	}
	if !slices.Contains(ValidKeys(), "learner.native_language") {
		t.Error("ValidKeys missing learner.native_language")
	}
}
