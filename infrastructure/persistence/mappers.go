package persistence

import (
	"time"

	"github.com/visearch/visearch/domain/history"
	"github.com/visearch/visearch/domain/metrics"
	"github.com/visearch/visearch/domain/retrieval"
)

// secondsToDuration converts a stored seconds value to a time.Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// durationToSeconds converts a time.Duration to the stored seconds value.
func durationToSeconds(d time.Duration) float64 {
	return d.Seconds()
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// QueryMapper maps between history.QueryRecord and QueryModel.
type QueryMapper struct{}

// ToDomain converts a QueryModel to a domain QueryRecord. Child result rows
// are attached separately by the store because listings omit them.
func (m QueryMapper) ToDomain(e QueryModel) history.QueryRecord {
	retrievalMetrics := metrics.NewRetrieval(
		e.AvgSimilarity,
		e.MinSimilarity,
		e.MaxSimilarity,
		e.StdSimilarity,
		e.Diversity,
		e.NumResults,
	)

	var textMetrics *metrics.Text
	if e.WordCount != nil {
		t := metrics.NewText(
			*e.WordCount,
			intOrZero(e.CharCount),
			intOrZero(e.SentenceCount),
			floatOrZero(e.AvgWordLength),
			intOrZero(e.UniqueWords),
			floatOrZero(e.VocabularyRichness),
		)
		textMetrics = &t
	}

	performance := history.NewPerformance(
		secondsToDuration(e.RetrievalTime),
		secondsToDuration(e.TextGenTime),
		secondsToDuration(e.ImageGenTime),
		secondsToDuration(e.TotalTime),
	)

	results := make([]history.ResultRecord, len(e.Results))
	resultMapper := ResultMapper{}
	for i, r := range e.Results {
		results[i] = resultMapper.ToDomain(r)
	}

	return history.ReconstructQueryRecord(
		e.ID,
		e.Timestamp,
		retrieval.Mode(e.QueryMode),
		stringOrEmpty(e.QueryText),
		stringOrEmpty(e.QueryImagePath),
		e.TextWeight,
		e.TopK,
		retrievalMetrics,
		stringOrEmpty(e.GeneratedText),
		textMetrics,
		stringOrEmpty(e.GeneratedImagePath),
		performance,
		results,
	)
}

// ToModel converts a domain QueryRecord to a QueryModel (without child rows).
func (m QueryMapper) ToModel(q history.QueryRecord) QueryModel {
	e := QueryModel{
		ID:             q.ID(),
		Timestamp:      q.Timestamp(),
		QueryMode:      string(q.Mode()),
		QueryText:      optionalString(q.QueryText()),
		QueryImagePath: optionalString(q.QueryImagePath()),
		TopK:           q.TopK(),

		RetrievalTime: durationToSeconds(q.Performance().RetrievalTime()),
		AvgSimilarity: q.RetrievalMetrics().MeanSimilarity(),
		Diversity:     q.RetrievalMetrics().Diversity(),
		MinSimilarity: q.RetrievalMetrics().MinSimilarity(),
		MaxSimilarity: q.RetrievalMetrics().MaxSimilarity(),
		StdSimilarity: q.RetrievalMetrics().StdSimilarity(),
		NumResults:    q.RetrievalMetrics().TotalResults(),

		GeneratedText:      optionalString(q.GeneratedText()),
		GeneratedImagePath: optionalString(q.GeneratedImagePath()),

		TextGenTime:  durationToSeconds(q.Performance().TextGenTime()),
		ImageGenTime: durationToSeconds(q.Performance().ImageGenTime()),
		TotalTime:    durationToSeconds(q.Performance().TotalTime()),
	}

	if w, ok := q.TextWeight(); ok {
		e.TextWeight = &w
	}
	if t, ok := q.TextMetrics(); ok {
		wordCount := t.WordCount()
		charCount := t.CharCount()
		sentenceCount := t.SentenceCount()
		avgWordLength := t.AvgWordLength()
		uniqueWords := t.UniqueWords()
		richness := t.VocabularyRichness()
		e.WordCount = &wordCount
		e.CharCount = &charCount
		e.SentenceCount = &sentenceCount
		e.AvgWordLength = &avgWordLength
		e.UniqueWords = &uniqueWords
		e.VocabularyRichness = &richness
	}
	return e
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// ResultMapper maps between history.ResultRecord and ResultModel.
type ResultMapper struct{}

// ToDomain converts a ResultModel to a domain ResultRecord.
func (m ResultMapper) ToDomain(e ResultModel) history.ResultRecord {
	return history.ReconstructResultRecord(
		e.ID,
		e.QueryID,
		e.Rank,
		e.ImagePath,
		e.FileName,
		e.SimilarityScore,
		e.Captions,
	)
}

// ToModel converts a domain ResultRecord to a ResultModel.
func (m ResultMapper) ToModel(r history.ResultRecord) ResultModel {
	return ResultModel{
		ID:              r.ID(),
		QueryID:         r.QueryID(),
		Rank:            r.Rank(),
		ImagePath:       r.AssetPath(),
		FileName:        r.DisplayName(),
		SimilarityScore: r.Score(),
		Captions:        r.Labels(),
	}
}
