package enrich

import (
	"regexp"
	"strings"

	"github.com/kalambet/grokwords/internal/vocab"
)

// Info is the parsed word-info reply.
type Info struct {
	POS         string
	Phonetic    string
	Definition  string
	Translation string
}

// ParseResult is either Ok with Info set, or malformed with the raw reply kept.
type ParseResult struct {
	Ok   bool
	Info Info
	Raw  string
}

// ParseInfo splits a "pos, phonetic, definition, translation" reply. Fewer
// than four fields is malformed and nothing is taken from it.
func ParseInfo(content string) ParseResult {
	parts := strings.Split(content, ",")
	if len(parts) < 4 {
		return ParseResult{Raw: content}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return ParseResult{
		Ok: true,
		Info: Info{
			POS:         parts[0],
			Phonetic:    parts[1],
			Definition:  parts[2],
			Translation: parts[3],
		},
		Raw: content,
	}
}

// Apply writes the info onto w and stamps the grok time if it was unset.
func (i Info) Apply(w *vocab.Word, stamp func(*vocab.Word)) {
	w.POS = i.POS
	w.Phonetic = i.Phonetic
	w.Definition = vocab.EncodeDefinition(vocab.Definition{Text: i.Definition, Translation: i.Translation})
	stamp(w)
}

var (
	englishLabel         = regexp.MustCompile(`(?i)English sentence:\s*`)
	periodBeforeNonASCII = regexp.MustCompile(`\.\s+([^\x00-\x7F])`)
)

// CleanExample normalizes an example reply into newline-separated lines:
// wrapping quotes and label prefixes are removed, blank lines collapse, and a
// single-line reply is split between sentence and translation.
func CleanExample(raw, language string) string {
	ex := strings.TrimSpace(raw)
	if len(ex) >= 2 && ((ex[0] == '"' && ex[len(ex)-1] == '"') || (ex[0] == '\'' && ex[len(ex)-1] == '\'')) {
		ex = strings.TrimSpace(ex[1 : len(ex)-1])
	}

	ex = strings.ReplaceAll(ex, "\n\n", "\n")
	ex = englishLabel.ReplaceAllString(ex, "")
	nativeLabel := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(language) + `\s+translation:\s*`)
	ex = nativeLabel.ReplaceAllString(ex, "")

	if !strings.Contains(ex, "\n") {
		ex = periodBeforeNonASCII.ReplaceAllString(ex, ".\n$1")
		if !strings.Contains(ex, "\n") {
			if i := strings.LastIndex(ex, ". "); i >= 0 {
				ex = ex[:i+1] + "\n" + ex[i+2:]
			}
		}
	}
	return ex
}
