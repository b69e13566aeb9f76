package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kalambet/grokwords/internal/catalog"
	"github.com/kalambet/grokwords/internal/config"
	"github.com/kalambet/grokwords/internal/enrich"
	"github.com/kalambet/grokwords/internal/library"
	"github.com/kalambet/grokwords/internal/storage"
	"github.com/kalambet/grokwords/internal/vocab"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type feed []catalog.Entry

func (f feed) Entries(context.Context) ([]catalog.Entry, error) { return f, nil }

type stubProvider struct{}

func (stubProvider) Chat(ctx context.Context, prompt string) (string, error) {
	if strings.HasPrefix(prompt, "Generate a simple example") {
		return "Fame is fleeting.\nLa fama es fugaz.", nil
	}
	return "adjective, /ˈfliːtɪŋ/, lasting a short time, fugaz", nil
}

func (stubProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return "https://img.example/card.jpg", nil
}

// useTestApp points openApp at an in-memory library for the duration of the test.
func useTestApp(t *testing.T, apiKey string) *storage.Store {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.PutWord(ctx, vocab.Word{
		ID: "e1", Word: "Ephemeral", Level: 3, LevelLabel: vocab.LabelAdvanced, POS: "adjective",
		Definition: "lasting a very short time\nefímero", Example: "Fame is ephemeral.\nLa fama es efímera.",
		GrokkedAt: "2024-01-01T08:00:00.000Z",
	}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{Browse: config.BrowseConfig{PageSize: 100}}
	lib := library.New(library.Options{
		Store:    store,
		Feed:     feed{{Headword: "fleeting", CEFR: "B2", TOEFL: "1"}, {Headword: "cat", CEFR: "A1"}},
		Provider: func(string) enrich.Provider { return stubProvider{} },
		Clock:    fixedClock{t: time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)},
		Settings: library.Settings{APIKey: apiKey, NativeLanguage: "Spanish", Reward: 1},
	})
	lib.Load(ctx)

	old := openApp
	openApp = func(context.Context) (*app, error) {
		return &app{cfg: cfg, lib: lib, close: func() {}}, nil
	}
	t.Cleanup(func() { openApp = old })
	return store
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	oldColor := noColor
	defer func() { noColor = oldColor }()
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWordsCmd_FiltersByStatus(t *testing.T) {
	useTestApp(t, "k")

	out, err := runCLI(t, "words", "--status", "grokked", "--no-color")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Ephemeral") || strings.Contains(out, "fleeting") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Page 1 of 1 (1 words)") {
		t.Errorf("missing page footer:\n%s", out)
	}
}

func TestWordsCmd_LevelAndJSON(t *testing.T) {
	useTestApp(t, "k")

	out, err := runCLI(t, "words", "--level", "toefl", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"word": "fleeting"`) || strings.Contains(out, `"word": "cat"`) {
		t.Errorf("unexpected JSON:\n%s", out)
	}
}

func TestWordsCmd_InvalidFilter(t *testing.T) {
	useTestApp(t, "k")

	if _, err := runCLI(t, "words", "--level", "9"); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := runCLI(t, "words", "--status", "maybe"); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestShowCmd(t *testing.T) {
	useTestApp(t, "k")

	out, err := runCLI(t, "show", "ephemeral", "--no-color")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Ephemeral", "lasting a very short time", "efímero", "Fame is ephemeral.", "2024/01/01"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "show", "zzz"); !errors.Is(err, library.ErrWordNotFound) {
		t.Errorf("expected ErrWordNotFound, got %v", err)
	}
}

func TestGrokCmd_SingleWord(t *testing.T) {
	store := useTestApp(t, "k")

	out, err := runCLI(t, "grok", "fleeting", "--no-color")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "lasting a short time") || !strings.Contains(out, "Fame is fleeting.") {
		t.Errorf("unexpected output:\n%s", out)
	}

	words, _ := store.AllWords(context.Background())
	var found bool
	for _, w := range words {
		if w.Word == "fleeting" {
			found = true
			if w.GrokkedAt != "2024-01-08T09:00:00.000Z" {
				t.Errorf("grokkedAt = %q", w.GrokkedAt)
			}
		}
	}
	if !found {
		t.Error("grokked word was not persisted")
	}
}

func TestGrokCmd_BulkByLevel(t *testing.T) {
	useTestApp(t, "k")

	if _, err := runCLI(t, "grok", "--level", "1", "--limit", "5", "--no-color"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := runCLI(t, "words", "--status", "ungrokked", "--no-color")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "cat") || !strings.Contains(out, "fleeting") {
		t.Errorf("only the level 1 word should be grokked:\n%s", out)
	}
}

func TestGrokCmd_MissingAPIKey(t *testing.T) {
	useTestApp(t, "")

	_, err := runCLI(t, "grok", "fleeting")
	if err == nil || !strings.Contains(err.Error(), "1 of 1") {
		t.Errorf("expected failure count, got %v", err)
	}
}

func TestUnderstoodCmd(t *testing.T) {
	useTestApp(t, "k")

	if _, err := runCLI(t, "understood", "cat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := runCLI(t, "words", "--status", "understood", "--no-color")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cat") {
		t.Errorf("cat should be understood:\n%s", out)
	}
}

func TestImageAndShareCmd(t *testing.T) {
	useTestApp(t, "k")

	out, err := runCLI(t, "image", "ephemeral")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "https://img.example/card.jpg" {
		t.Errorf("image output = %q", out)
	}

	out, err = runCLI(t, "share", "ephemeral")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "https://") || !strings.Contains(out, "Ephemeral") {
		t.Errorf("share output = %q", out)
	}

	if _, err := runCLI(t, "image", "cat"); !errors.Is(err, library.ErrNoExample) {
		t.Errorf("expected ErrNoExample, got %v", err)
	}
}

func TestReviewCmds(t *testing.T) {
	store := useTestApp(t, "k")

	out, err := runCLI(t, "review", "--no-color")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "2024/01/01") || !strings.Contains(out, "day 7") {
		t.Errorf("unexpected schedule:\n%s", out)
	}
	if !strings.Contains(out, "d7*(0/1)") {
		t.Errorf("day 7 should be due:\n%s", out)
	}

	if _, err := runCLI(t, "review", "mark", "ephemeral", "7"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	reviews, _ := store.AllReviews(context.Background())
	if len(reviews) != 1 || reviews[0].Day != 7 || reviews[0].Date != "2024/01/01" {
		t.Errorf("reviews = %+v", reviews)
	}

	out, err = runCLI(t, "review", "--no-color")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "d7+(1/1)") {
		t.Errorf("day 7 should be completed:\n%s", out)
	}

	if _, err := runCLI(t, "review", "mark", "ephemeral", "seven"); err == nil {
		t.Error("expected error for non-numeric day")
	}
	if _, err := runCLI(t, "review", "mark", "ephemeral", "5"); !errors.Is(err, library.ErrBadCheckpoint) {
		t.Errorf("expected ErrBadCheckpoint, got %v", err)
	}
}

func TestConfigSettings_SaveOnlyChanged(t *testing.T) {
	var keys []string
	var apiKeys []string
	s := &configSettings{
		current: library.Settings{APIKey: "old", NativeLanguage: "spanish", Reward: 1},
		setKey: func(key, value string) error {
			keys = append(keys, key+"="+value)
			return nil
		},
		setAPIKey: func(value string) error {
			apiKeys = append(apiKeys, value)
			return nil
		},
	}

	if err := s.SaveSettings(library.Settings{APIKey: "old", NativeLanguage: "german", Reward: 1}); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "learner.native_language=german" || len(apiKeys) != 0 {
		t.Errorf("keys = %v, apiKeys = %v", keys, apiKeys)
	}

	if err := s.SaveSettings(library.Settings{APIKey: "new", NativeLanguage: "german", Reward: 2.5}); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[1] != "review.reward=2.5" {
		t.Errorf("keys = %v", keys)
	}
	if len(apiKeys) != 1 || apiKeys[0] != "new" {
		t.Errorf("apiKeys = %v", apiKeys)
	}
}

func TestConfigSettings_PropagatesError(t *testing.T) {
	s := &configSettings{
		current:   library.Settings{NativeLanguage: "spanish"},
		setKey:    func(string, string) error { return errors.New("disk full") },
		setAPIKey: func(string) error { return nil },
	}
	if err := s.SaveSettings(library.Settings{NativeLanguage: "german"}); err == nil {
		t.Fatal("expected error")
	}
	if s.current.NativeLanguage != "spanish" {
		t.Error("current settings should not change on failure")
	}
}

func TestInstallWordList(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "words.csv")
	csv := "headword,CEFR,TOEFL,IELTS\n" +
		"cat,A1,,\n" +
		"fleeting,B2,1,\n"
	if err := os.WriteFile(src, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "data", config.CatalogFileName)
	n, err := installWordList(src, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}
	if data, err := os.ReadFile(dest); err != nil || string(data) != csv {
		t.Errorf("installed file mismatch: %v", err)
	}

	empty := filepath.Join(dir, "empty.csv")
	os.WriteFile(empty, []byte("headword,CEFR,TOEFL,IELTS\n"), 0o644)
	if _, err := installWordList(empty, dest); err == nil {
		t.Error("expected error for empty word list")
	}
	if _, err := installWordList(filepath.Join(dir, "missing.csv"), dest); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuildApp_FallsBackToMemoryStore(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(dataDir, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	list := filepath.Join(dir, "words.csv")
	if err := os.WriteFile(list, []byte("headword,CEFR,TOEFL,IELTS\ncat,A1,,\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{
		Storage: config.StorageConfig{DataDir: dataDir},
		Catalog: config.CatalogConfig{Path: list},
	}
	a, err := buildApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}
	defer a.close()

	if _, err := a.lib.Lookup("cat"); err != nil {
		t.Errorf("word list not loaded: %v", err)
	}
	if _, err := a.lib.MarkUnderstood(context.Background(), a.lib.Words()[0].ID); err != nil {
		t.Errorf("MarkUnderstood on in-memory store: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"WARN":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"info":    "INFO",
		"":        "INFO",
		"verbose": "INFO",
	}
	for in, want := range cases {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorRed, "hello")
	if result != "hello" {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	result = colorize(colorRed, "hello")
	if !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestWordStatus(t *testing.T) {
	cases := []struct {
		word vocab.Word
		want string
	}{
		{vocab.Word{}, "new"},
		{vocab.Word{Definition: "d"}, "grokked"},
		{vocab.Word{POS: vocab.UnderstoodPOS, GrokkedAt: "2024-01-01T00:00:00.000Z"}, "understood"},
	}
	for _, c := range cases {
		if got := wordStatus(c.word); got != c.want {
			t.Errorf("wordStatus(%+v) = %q, want %q", c.word, got, c.want)
		}
	}
}
