package external

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
)

//go:embed stopwords_en.txt
var stopwordsEN []byte

// StopWords is a set of words excluded from keyword extraction.
type StopWords struct {
	words map[string]struct{}
}

// DefaultStopWords loads the embedded English stopword list.
func DefaultStopWords() *StopWords {
	sw := &StopWords{words: make(map[string]struct{})}
	sw.load(stopwordsEN)
	return sw
}

func (sw *StopWords) load(data []byte) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			sw.words[word] = struct{}{}
		}
	}
}

// Contains reports whether the word is a stopword.
func (sw *StopWords) Contains(word string) bool {
	_, ok := sw.words[word]
	return ok
}
