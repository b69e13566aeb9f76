package vocab

import (
	"net/url"
	"strings"
)

const shareBaseURL = "https://twitter.com/intent/tweet?text="

// ShareText builds the post body for a grokked word: the word, its
// definition, the first two example lines and the hashtag.
func ShareText(w Word) string {
	ex := DecodeExample(w.Example)
	example := ex.Sentence
	if ex.Translation != "" {
		example += "\n" + ex.Translation
	}
	return strings.Join([]string{w.Word, w.Definition, example, "#GrokWords"}, "\n\n")
}

// ShareURL returns the intent link for posting a word.
func ShareURL(w Word) string {
	return shareBaseURL + strings.ReplaceAll(url.QueryEscape(ShareText(w)), "+", "%20")
}
