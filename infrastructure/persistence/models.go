package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice is a custom type for JSON serialization of []string columns.
type StringSlice []string

// Scan implements sql.Scanner for reading JSON from the database.
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}

	return json.Unmarshal(data, s)
}

// Value implements driver.Valuer for writing JSON to the database.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// QueryModel is the GORM model for one committed query. Latency columns are
// seconds as REAL; optional columns are pointers so absence survives a
// round-trip as NULL rather than a zero.
type QueryModel struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp      time.Time `gorm:"column:timestamp;index:idx_query_timestamp"`
	QueryMode      string    `gorm:"column:query_mode;not null"`
	QueryText      *string   `gorm:"column:query_text"`
	QueryImagePath *string   `gorm:"column:query_image_path"`
	TextWeight     *float64  `gorm:"column:text_weight"`
	TopK           int       `gorm:"column:top_k"`

	RetrievalTime float64 `gorm:"column:retrieval_time"`
	AvgSimilarity float64 `gorm:"column:avg_similarity"`
	Diversity     float64 `gorm:"column:diversity"`
	MinSimilarity float64 `gorm:"column:min_similarity"`
	MaxSimilarity float64 `gorm:"column:max_similarity"`
	StdSimilarity float64 `gorm:"column:std_similarity"`
	NumResults    int     `gorm:"column:num_results"`

	GeneratedText      *string `gorm:"column:generated_text"`
	GeneratedImagePath *string `gorm:"column:generated_image_path"`

	WordCount          *int     `gorm:"column:word_count"`
	CharCount          *int     `gorm:"column:char_count"`
	SentenceCount      *int     `gorm:"column:sentence_count"`
	AvgWordLength      *float64 `gorm:"column:avg_word_length"`
	UniqueWords        *int     `gorm:"column:unique_words"`
	VocabularyRichness *float64 `gorm:"column:vocabulary_richness"`

	TextGenTime  float64 `gorm:"column:text_gen_time"`
	ImageGenTime float64 `gorm:"column:image_gen_time"`
	TotalTime    float64 `gorm:"column:total_time"`

	Results []ResultModel `gorm:"foreignKey:QueryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the queries table name.
func (QueryModel) TableName() string { return "queries" }

// ResultModel is the GORM model for one ranked retrieval result of a query.
type ResultModel struct {
	ID              int64       `gorm:"column:id;primaryKey;autoIncrement"`
	QueryID         int64       `gorm:"column:query_id;not null;index"`
	Rank            int         `gorm:"column:rank;not null"`
	ImagePath       string      `gorm:"column:image_path;not null"`
	FileName        string      `gorm:"column:file_name;not null"`
	SimilarityScore float64     `gorm:"column:similarity_score;not null"`
	Captions        StringSlice `gorm:"column:captions;type:json;not null"`
}

// TableName returns the retrieval results table name.
func (ResultModel) TableName() string { return "retrieval_results" }
