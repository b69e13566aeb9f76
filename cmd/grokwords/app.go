package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/kalambet/grokwords/internal/catalog"
	"github.com/kalambet/grokwords/internal/config"
	"github.com/kalambet/grokwords/internal/enrich"
	"github.com/kalambet/grokwords/internal/library"
	"github.com/kalambet/grokwords/internal/llm"
	"github.com/kalambet/grokwords/internal/storage"
)

// app bundles the loaded configuration with a ready library.
type app struct {
	cfg   config.Config
	lib   *library.Library
	close func()
}

// openApp loads config and builds the app from it. Tests replace it.
var openApp = func(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return buildApp(ctx, cfg)
}

// buildApp opens storage and loads the library. When the data directory
// cannot be opened the library runs on an in-memory store, so the word list
// stays browsable and progress lasts only for this process.
func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	logger := setupLogging(cfg)

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		logger.Warn("opening storage, using in-memory store", "data_dir", cfg.Storage.DataDir, "error", err)
		store, err = storage.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("opening in-memory storage: %w", err)
		}
	}

	lib := library.New(library.Options{
		Store:    store,
		Feed:     catalog.FileFeed{Location: cfg.CatalogLocation()},
		Provider: providerFactory(cfg.LLM),
		Logger:   logger,
		Settings: settingsFromConfig(cfg),
	})
	lib.Load(ctx)

	return &app{
		cfg: cfg,
		lib: lib,
		close: func() {
			if err := store.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
			}
		},
	}, nil
}

func providerFactory(c config.LLMConfig) library.ProviderFactory {
	return func(apiKey string) enrich.Provider {
		return llm.NewClientWithBaseURL(apiKey, c.BaseURL).WithModels(c.ChatModel, c.ImageModel)
	}
}

func settingsFromConfig(cfg config.Config) library.Settings {
	return library.Settings{
		APIKey:         cfg.LLM.APIKey,
		NativeLanguage: cfg.Learner.NativeLanguage,
		Reward:         cfg.Review.Reward,
	}
}

// configSettings persists settings edited over the API back into the
// platform config backend and secret store.
type configSettings struct {
	current   library.Settings
	setKey    func(key, value string) error
	setAPIKey func(value string) error
}

func newConfigSettings(current library.Settings) *configSettings {
	return &configSettings{
		current:   current,
		setKey:    config.SetKey,
		setAPIKey: config.SetAPIKey,
	}
}

func (c *configSettings) SaveSettings(s library.Settings) error {
	if s.NativeLanguage != c.current.NativeLanguage {
		if err := c.setKey("learner.native_language", s.NativeLanguage); err != nil {
			return err
		}
	}
	if s.Reward != c.current.Reward {
		if err := c.setKey("review.reward", strconv.FormatFloat(s.Reward, 'f', -1, 64)); err != nil {
			return err
		}
	}
	if s.APIKey != c.current.APIKey {
		if err := c.setAPIKey(s.APIKey); err != nil {
			return fmt.Errorf("storing API key: %w", err)
		}
	}
	c.current = s
	return nil
}
