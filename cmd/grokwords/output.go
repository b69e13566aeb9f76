package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kalambet/grokwords/internal/review"
	"github.com/kalambet/grokwords/internal/vocab"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

func printStep(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+msg))
}

func printWordLine(w io.Writer, word vocab.Word) {
	label := word.LevelLabel
	if label == "" {
		label = "-"
	}
	fmt.Fprintf(w, "%s %-13s %-11s %s\n", colorize(colorBold, fmt.Sprintf("%-24s", word.Word)), label, wordStatus(word), firstLine(word.Definition))
}

func printWordDetail(w io.Writer, word vocab.Word) {
	fmt.Fprintln(w, colorize(colorBold, word.Word))
	if word.Phonetic != "" || (word.POS != "" && !word.Understood()) {
		fmt.Fprintf(w, "  %s %s\n", word.POS, word.Phonetic)
	}
	fmt.Fprintf(w, "  Level: %s  Status: %s\n", word.LevelLabel, wordStatus(word))
	if word.TOEFL != "" || word.IELTS != "" {
		fmt.Fprintf(w, "  TOEFL: %s  IELTS: %s\n", word.TOEFL, word.IELTS)
	}
	if word.Definition != "" {
		def := vocab.DecodeDefinition(word.Definition)
		fmt.Fprintf(w, "  Definition:  %s\n", def.Text)
		if def.Translation != "" {
			fmt.Fprintf(w, "  Translation: %s\n", def.Translation)
		}
	}
	if word.Example != "" {
		ex := vocab.DecodeExample(word.Example)
		fmt.Fprintf(w, "  Example:     %s\n", ex.Sentence)
		if ex.Translation != "" {
			fmt.Fprintf(w, "               %s\n", ex.Translation)
		}
	}
	if word.ImageURL != "" {
		fmt.Fprintf(w, "  Image:       %s\n", word.ImageURL)
	}
	if d := word.CohortDate(); d != "" {
		fmt.Fprintf(w, "  Grokked:     %s\n", d)
	}
}

// printCohort renders one cohort with a marker per checkpoint:
// "*" due, "+" all reviewed, "." pending.
func printCohort(w io.Writer, c review.Cohort) {
	days := "?"
	if c.DaysSince != nil {
		days = fmt.Sprintf("%d", *c.DaysSince)
	}
	fmt.Fprintf(w, "%s  %d words  day %s  reward %g\n", colorize(colorBold, c.Date), c.Size, days, c.Reward)
	var marks []string
	for _, cp := range c.Checkpoints {
		mark := "."
		switch {
		case cp.AllCompleted:
			mark = colorize(colorGreen, "+")
		case cp.Due:
			mark = colorize(colorYellow, "*")
		}
		marks = append(marks, fmt.Sprintf("d%d%s(%d/%d)", cp.Day, mark, cp.Completed, c.Size))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(marks, "  "))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
