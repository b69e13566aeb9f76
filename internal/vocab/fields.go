package vocab

import "strings"

// Definition is the decoded form of Word.Definition.
type Definition struct {
	Text        string
	Translation string
}

// Example is the decoded form of Word.Example. Missing lines are empty.
type Example struct {
	Sentence    string
	Translation string
	Phrases     string
	Nouns       string
}

// EncodeDefinition joins a definition and its translation into the stored form.
func EncodeDefinition(d Definition) string {
	return d.Text + "\n" + d.Translation
}

// DecodeDefinition splits a stored definition on line breaks.
func DecodeDefinition(s string) Definition {
	lines := strings.Split(s, "\n")
	return Definition{Text: line(lines, 0), Translation: line(lines, 1)}
}

// EncodeExample joins the example lines into the stored form, dropping
// trailing empty lines.
func EncodeExample(e Example) string {
	lines := []string{e.Sentence, e.Translation, e.Phrases, e.Nouns}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// DecodeExample splits a stored example positionally.
func DecodeExample(s string) Example {
	lines := strings.Split(s, "\n")
	return Example{
		Sentence:    line(lines, 0),
		Translation: line(lines, 1),
		Phrases:     line(lines, 2),
		Nouns:       line(lines, 3),
	}
}

func line(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
