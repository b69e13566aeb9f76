package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/grokwords/internal/browse"
	"github.com/kalambet/grokwords/internal/catalog"
	"github.com/kalambet/grokwords/internal/config"
	"github.com/kalambet/grokwords/internal/vocab"
)

// --- words ---

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List words with filters and pagination",
	Long: `List words with filters and pagination.

Examples:
  grokwords words --level 2 --status ungrokked
  grokwords words --level toefl --q resil
  grokwords words --status grokked --date 2024/01/01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		levelStr, _ := cmd.Flags().GetString("level")
		statusStr, _ := cmd.Flags().GetString("status")
		query, _ := cmd.Flags().GetString("q")
		date, _ := cmd.Flags().GetString("date")
		page, _ := cmd.Flags().GetInt("page")
		asJSON, _ := cmd.Flags().GetBool("json")

		level, err := browse.ParseLevel(levelStr)
		if err != nil {
			return err
		}
		status, err := browse.ParseStatus(statusStr)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		filter := browse.Filter{Level: level, Status: status, Search: query, ReviewDate: date}
		result := browse.Paginate(a.lib.Words(), filter, page, a.cfg.Browse.PageSize)

		out := cmd.OutOrStdout()
		if asJSON {
			return writeIndentedJSON(out, result)
		}
		if result.Total == 0 {
			fmt.Fprintln(out, "No words match.")
			return nil
		}
		for _, w := range result.Words {
			printWordLine(out, w)
		}
		fmt.Fprintf(out, "\nPage %d of %d (%d words)\n", result.Page, result.TotalPages, result.Total)
		return nil
	},
}

func init() {
	wordsCmd.Flags().String("level", browse.LevelAll, "level filter: all, 1, 2, 3, toefl, ielts")
	wordsCmd.Flags().String("status", string(browse.StatusAll), "status filter: all, ungrokked, grokked, understood")
	wordsCmd.Flags().String("q", "", "case-insensitive word prefix")
	wordsCmd.Flags().String("date", "", "only words grokked on this date (YYYY/MM/DD)")
	wordsCmd.Flags().Int("page", 1, "page number")
	wordsCmd.Flags().Bool("json", false, "print the page as JSON")
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <word>",
	Short: "Show one word in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		w, err := a.lib.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		printWordDetail(cmd.OutOrStdout(), w)
		return nil
	},
}

// --- grok ---

var grokCmd = &cobra.Command{
	Use:   "grok [word...]",
	Short: "Fetch definition, translation and example for words",
	Long: `Fetch definition, translation and example for words.

With no arguments, groks the first --limit ungrokked words of --level.

Examples:
  grokwords grok ephemeral
  grokwords grok --level 1 --limit 20 --concurrency 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		levelStr, _ := cmd.Flags().GetString("level")
		limit, _ := cmd.Flags().GetInt("limit")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		var ids []string
		if len(args) > 0 {
			for _, ref := range args {
				w, err := a.lib.Resolve(ref)
				if err != nil {
					return fmt.Errorf("%s: %w", ref, err)
				}
				ids = append(ids, w.ID)
			}
		} else {
			level, err := browse.ParseLevel(levelStr)
			if err != nil {
				return err
			}
			filter := browse.Filter{Level: level, Status: browse.StatusUngrokked}
			for _, w := range a.lib.Words() {
				if len(ids) >= limit {
					break
				}
				if filter.Match(w) {
					ids = append(ids, w.ID)
				}
			}
			if len(ids) == 0 {
				printWarning("Nothing left to grok at level %s", level)
				return nil
			}
			printStep("Grokking %d words...", len(ids))
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range a.lib.GrokMany(cmd.Context(), ids, concurrency) {
			if r.Err != nil {
				failed++
				printError("%s: %v", r.Word.Word, r.Err)
				continue
			}
			if len(ids) == 1 {
				printWordDetail(out, r.Word)
			} else {
				printWordLine(out, r.Word)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d words failed", failed, len(ids))
		}
		printSuccess("Grokked %d words", len(ids))
		return nil
	},
}

func init() {
	grokCmd.Flags().String("level", browse.LevelAll, "level to draw ungrokked words from")
	grokCmd.Flags().Int("limit", 10, "number of words to grok when no word is given")
	grokCmd.Flags().Int("concurrency", 3, "maximum words in flight")
}

// --- understood ---

var understoodCmd = &cobra.Command{
	Use:   "understood <word>",
	Short: "Mark a word as already known",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		w, err := a.lib.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if _, err := a.lib.MarkUnderstood(cmd.Context(), w.ID); err != nil {
			return err
		}
		printSuccess("Marked %q as understood", w.Word)
		return nil
	},
}

// --- image ---

var imageCmd = &cobra.Command{
	Use:   "image <word>",
	Short: "Generate an illustration for a word's example sentence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		w, err := a.lib.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		w, err = a.lib.GenerateImage(cmd.Context(), w.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), w.ImageURL)
		return nil
	},
}

// --- share ---

var shareCmd = &cobra.Command{
	Use:   "share <word>",
	Short: "Print a share link for a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		w, err := a.lib.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		link, err := a.lib.Share(w.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		if w.ImageURL != "" {
			fmt.Fprintln(cmd.OutOrStdout(), w.ImageURL)
		}
		return nil
	},
}

// --- review ---

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show the review schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		cohorts := a.lib.Schedule()
		out := cmd.OutOrStdout()
		if asJSON {
			return writeIndentedJSON(out, cohorts)
		}
		if len(cohorts) == 0 {
			fmt.Fprintln(out, "No grokked words yet.")
			return nil
		}
		for _, c := range cohorts {
			printCohort(out, c)
		}
		return nil
	},
}

var reviewMarkCmd = &cobra.Command{
	Use:   "mark <word> <day>",
	Short: "Record a review of a word at a checkpoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid day %q: %w", args[1], err)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		r, err := a.lib.MarkReviewed(cmd.Context(), args[0], day)
		if err != nil {
			return err
		}
		printSuccess("Reviewed %s at day %d (cohort %s)", r.Word, r.Day, r.Date)
		return nil
	},
}

func init() {
	reviewCmd.Flags().Bool("json", false, "print the schedule as JSON")
	reviewCmd.AddCommand(reviewMarkCmd)
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Install a CEFR word list and merge it into the library",
	Long: `Install a CEFR word list and merge it into the library.

With a file argument, the CSV is validated and copied into the data
directory first. Without one, the configured word list is re-merged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dest := filepath.Join(cfg.Storage.DataDir, config.CatalogFileName)
			n, err := installWordList(args[0], dest)
			if err != nil {
				return err
			}
			printStep("Installed %d entries to %s", n, dest)
			if cfg.Catalog.Path != "" && cfg.Catalog.Path != dest {
				printWarning("catalog.path is set to %s; the installed list is used only after `grokwords config unset catalog.path`", cfg.Catalog.Path)
			}
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		words := a.lib.Words()
		grokked := 0
		for _, w := range words {
			if w.Grokked() {
				grokked++
			}
		}
		printSuccess("Library has %d words (%d grokked)", len(words), grokked)
		return nil
	},
}

// installWordList validates the CSV at src and copies it to dest.
func installWordList(src, dest string) (int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("reading word list: %w", err)
	}
	entries, err := catalog.ParseFeed(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("word list %s has no entries", src)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing word list: %w", err)
	}
	return len(entries), nil
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(out, "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		if cfg.LLM.HasAPIKey() {
			fmt.Fprintf(out, "  %s = %s\n", colorize(colorBold, "llm.api_key"), "(set)")
		} else {
			fmt.Fprintf(out, "  %s = %s\n", colorize(colorBold, "llm.api_key"), "(not set)")
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

var configSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key <key>",
	Short: "Store the xAI API key in the platform secret store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.TrimSpace(args[0])
		if key == "" {
			return fmt.Errorf("API key must not be empty")
		}
		if err := config.SetAPIKey(key); err != nil {
			return fmt.Errorf("storing API key: %w", err)
		}
		printSuccess("API key stored")
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List valid configuration keys",
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range config.ValidKeys() {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configSetAPIKeyCmd)
	configCmd.AddCommand(configKeysCmd)
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func wordStatus(w vocab.Word) string {
	switch {
	case w.Understood():
		return "understood"
	case w.Grokked():
		return "grokked"
	default:
		return "new"
	}
}
