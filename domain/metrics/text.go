package metrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// Text summarizes the lexical quality of a generated text.
type Text struct {
	wordCount          int
	charCount          int
	sentenceCount      int
	avgWordLength      float64
	uniqueWords        int
	vocabularyRichness float64
}

// NewText creates a Text from already-computed values.
func NewText(wordCount, charCount, sentenceCount int, avgWordLength float64, uniqueWords int, vocabularyRichness float64) Text {
	return Text{
		wordCount:          wordCount,
		charCount:          charCount,
		sentenceCount:      sentenceCount,
		avgWordLength:      avgWordLength,
		uniqueWords:        uniqueWords,
		vocabularyRichness: vocabularyRichness,
	}
}

// WordCount returns the number of words.
func (t Text) WordCount() int { return t.wordCount }

// CharCount returns the number of characters after trimming whitespace.
func (t Text) CharCount() int { return t.charCount }

// SentenceCount returns the number of sentences.
func (t Text) SentenceCount() int { return t.sentenceCount }

// AvgWordLength returns the mean word length in characters.
func (t Text) AvgWordLength() float64 { return t.avgWordLength }

// UniqueWords returns the number of distinct lowercased words.
func (t Text) UniqueWords() int { return t.uniqueWords }

// VocabularyRichness returns unique words divided by total words,
// or 0 when there are no words.
func (t Text) VocabularyRichness() float64 { return t.vocabularyRichness }

// ComputeText calculates lexical metrics for a text. Empty or
// whitespace-only input yields all-zero metrics.
func ComputeText(text string) Text {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Text{}
	}

	words := wordPattern.FindAllString(strings.ToLower(trimmed), -1)
	wordCount := len(words)

	unique := make(map[string]struct{}, wordCount)
	var totalLength int
	for _, w := range words {
		unique[w] = struct{}{}
		totalLength += utf8.RuneCountInString(w)
	}

	// Sentences are maximal non-empty runs between ., ! and ? terminators.
	sentenceCount := 0
	for _, part := range sentencePattern.Split(trimmed, -1) {
		if strings.TrimSpace(part) != "" {
			sentenceCount++
		}
	}

	var avgWordLength, richness float64
	if wordCount > 0 {
		avgWordLength = float64(totalLength) / float64(wordCount)
		richness = float64(len(unique)) / float64(wordCount)
	}

	return Text{
		wordCount:          wordCount,
		charCount:          utf8.RuneCountInString(trimmed),
		sentenceCount:      sentenceCount,
		avgWordLength:      avgWordLength,
		uniqueWords:        len(unique),
		vocabularyRichness: richness,
	}
}
