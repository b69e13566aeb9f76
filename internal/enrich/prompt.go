// Package enrich builds provider prompts for word info, example sentences and
// flashcard images, and parses the replies.
package enrich

import (
	"fmt"
	"strings"

	"github.com/kalambet/grokwords/internal/vocab"
)

// InfoPrompt asks for part of speech, phonetic, definition and translation.
func InfoPrompt(word, language string) string {
	return fmt.Sprintf("Please provide the part of speech, phonetic, and concise definition and %[2]s translation of \"%[1]s\". "+
		"If it has multiple parts of speech, then show one only.\n"+
		"Format your response as: part of speech, phonetic, concise definition, %[2]s translation",
		word, language)
}

// ExamplePrompt asks for an example sentence and its keyword lines.
func ExamplePrompt(word, pos, language string) string {
	return fmt.Sprintf("Generate a simple example sentence using the word \"%[1]s\" as a %[2]s in English and its %[3]s translation, "+
		"Adj + Noun phrases, and Noun key words from the sentence. "+
		"Format your response as: English sentence\n%[3]s translation\nAdj + Noun phrases\nNoun key words",
		word, pos, language)
}

// ImagePrompt composes the flashcard prompt from the English parts of the
// definition and example. The background keywords are the phrase line plus
// any noun keyword it does not already contain.
func ImagePrompt(word, definition, example string) string {
	def := vocab.DecodeDefinition(definition)
	ex := vocab.DecodeExample(example)

	phrases := strings.TrimSpace(ex.Phrases)
	keyWords := phrases
	for _, n := range strings.Split(strings.TrimSpace(ex.Nouns), ",") {
		n = strings.TrimSpace(n)
		if n == "" || strings.Contains(strings.ToLower(phrases), strings.ToLower(n)) {
			continue
		}
		if keyWords == "" {
			keyWords = n
		} else {
			keyWords += ", " + n
		}
	}
	keyWords = stripPrefix(keyWords, "Adj + Noun phrases:")
	keyWords = stripPrefix(keyWords, "Noun key words:")

	return fmt.Sprintf("A vibrant and cute illustration-style English vocabulary flashcard in vertical orientation. "+
		"Background of %s. At the top center, the bold large English word '%s' with soft gradient fill and drop shadow, highly legible. "+
		"Below it, the definition section with text: \"%s\". "+
		"Further below the definition section, the example sentence with text: \"%s\". "+
		"All text is well-spaced with classroom-friendly typography.",
		keyWords, word, strings.TrimSpace(def.Text), strings.TrimSpace(ex.Sentence))
}

func stripPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimLeft(s[len(prefix):], " \t\n")
	}
	return s
}
