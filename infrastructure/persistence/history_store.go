package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/visearch/visearch/domain/history"
	"github.com/visearch/visearch/domain/repository"
	"github.com/visearch/visearch/domain/retrieval"
	"github.com/visearch/visearch/internal/database"
	"github.com/visearch/visearch/internal/log"
)

// defaultListLimit bounds ListRecent when the caller passes no limit.
const defaultListLimit = 50

// HistoryStore is the GORM-backed implementation of history.Store.
//
// Row writes of one Save are a single transaction; the owned asset files are
// written after the rows commit. A crash between commit and asset write
// leaves a row whose image path is NULL, which reads back as "no image" —
// never a dangling path.
type HistoryStore struct {
	db      database.Database
	queries database.Repository[history.QueryRecord, QueryModel]
	results database.Repository[history.ResultRecord, ResultModel]
	assets  AssetStore
	logger  *log.Logger
}

// NewHistoryStore creates a HistoryStore.
func NewHistoryStore(db database.Database, assets AssetStore, logger *log.Logger) *HistoryStore {
	return &HistoryStore{
		db:      db,
		queries: database.NewRepository[history.QueryRecord, QueryModel](db, QueryMapper{}, "query"),
		results: database.NewRepository[history.ResultRecord, ResultModel](db, ResultMapper{}, "result"),
		assets:  assets,
		logger:  logger,
	}
}

// Save persists one completed query. The query row and all result rows
// commit atomically; asset copies follow. When an asset copy fails the new
// id is still returned together with an ErrAssetIO so the caller sees the
// inconsistency instead of a silent success.
func (s *HistoryStore) Save(ctx context.Context, req history.SaveRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	model := s.newQueryModel(req, now)

	id, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (int64, error) {
		if err := tx.Create(&model).Error; err != nil {
			return 0, fmt.Errorf("insert query: %w", err)
		}
		for _, r := range req.Results() {
			child := ResultModel{
				QueryID:         model.ID,
				Rank:            r.Rank(),
				ImagePath:       r.AssetPath(),
				FileName:        r.DisplayName(),
				SimilarityScore: r.Score(),
				Captions:        r.Labels(),
			}
			if err := tx.Create(&child).Error; err != nil {
				return 0, fmt.Errorf("insert result rank %d: %w", r.Rank(), err)
			}
		}
		return model.ID, nil
	})
	if err != nil {
		return 0, err
	}

	// A failed asset copy must not stop the other one: the row is already
	// committed, so every asset that can be attached should be.
	var assetErr error
	if image := req.QueryImage(); image != nil {
		if err := s.attachAsset(ctx, id, "query_image_path", image, now, s.assets.SaveQueryImage); err != nil {
			assetErr = errors.Join(assetErr, err)
		}
	}
	if image := req.GeneratedImage(); image != nil {
		if err := s.attachAsset(ctx, id, "generated_image_path", image, now, s.assets.SaveGeneratedImage); err != nil {
			assetErr = errors.Join(assetErr, err)
		}
	}
	if assetErr != nil {
		return id, assetErr
	}

	s.logger.Debug("query saved", "query_id", id, "mode", string(req.Mode()), "results", len(req.Results()))
	return id, nil
}

// attachAsset writes an owned asset file and records its path on the query row.
func (s *HistoryStore) attachAsset(
	ctx context.Context,
	id int64,
	column string,
	data []byte,
	ts time.Time,
	save func(int64, time.Time, []byte) (string, error),
) error {
	path, err := save(id, ts, data)
	if err != nil {
		return err
	}
	err = s.db.Session(ctx).
		Model(&QueryModel{}).
		Where("id = ?", id).
		Update(column, path).Error
	if err != nil {
		return fmt.Errorf("%w: record %s for query %d: %v", ErrAssetIO, column, id, err)
	}
	return nil
}

// newQueryModel builds the parent row for a save request, without child rows.
func (s *HistoryStore) newQueryModel(req history.SaveRequest, now time.Time) QueryModel {
	m := req.RetrievalMetrics()
	model := QueryModel{
		Timestamp: now,
		QueryMode: string(req.Mode()),
		QueryText: optionalString(req.QueryText()),
		TopK:      req.TopK(),

		RetrievalTime: durationToSeconds(req.Performance().RetrievalTime()),
		AvgSimilarity: m.MeanSimilarity(),
		Diversity:     m.Diversity(),
		MinSimilarity: m.MinSimilarity(),
		MaxSimilarity: m.MaxSimilarity(),
		StdSimilarity: m.StdSimilarity(),
		NumResults:    m.TotalResults(),

		GeneratedText: optionalString(req.GeneratedText()),

		TextGenTime:  durationToSeconds(req.Performance().TextGenTime()),
		ImageGenTime: durationToSeconds(req.Performance().ImageGenTime()),
		TotalTime:    durationToSeconds(req.Performance().TotalTime()),
	}

	if w, ok := req.TextWeight(); ok {
		model.TextWeight = &w
	}
	if t, ok := req.TextMetrics(); ok {
		wordCount := t.WordCount()
		charCount := t.CharCount()
		sentenceCount := t.SentenceCount()
		avgWordLength := t.AvgWordLength()
		uniqueWords := t.UniqueWords()
		richness := t.VocabularyRichness()
		model.WordCount = &wordCount
		model.CharCount = &charCount
		model.SentenceCount = &sentenceCount
		model.AvgWordLength = &avgWordLength
		model.UniqueWords = &uniqueWords
		model.VocabularyRichness = &richness
	}
	return model
}

// GetByID returns a query with its result records ordered by rank.
func (s *HistoryStore) GetByID(ctx context.Context, id int64) (history.QueryRecord, error) {
	record, err := s.queries.FindOne(ctx,
		repository.WithID(id),
		repository.WithPreload("Results", repository.WithRankOrder()),
	)
	if err != nil {
		return history.QueryRecord{}, fmt.Errorf("get query %d: %w", id, err)
	}
	return record, nil
}

// ListRecent returns up to limit queries, most recent first, without child rows.
func (s *HistoryStore) ListRecent(ctx context.Context, limit int) ([]history.QueryRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.queries.Find(ctx,
		repository.WithRecencyOrder(),
		repository.WithLimit(limit),
	)
}

// Delete removes a query row, its result rows, and its owned asset files.
// Row removals are one transaction. Asset removal happens after the rows are
// gone: an absent file counts as removed, any other failure is reported even
// though the rows no longer exist.
func (s *HistoryStore) Delete(ctx context.Context, id int64) error {
	record, err := s.queries.FindOne(ctx, repository.WithID(id))
	if err != nil {
		return fmt.Errorf("load query %d for delete: %w", id, err)
	}

	err = database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		// SQLite only enforces the declared cascade when the connection
		// enables foreign keys, so child rows are removed explicitly.
		if err := s.results.WithTx(tx).DeleteBy(ctx, repository.WithQueryID(id)); err != nil {
			return err
		}
		return s.queries.WithTx(tx).DeleteBy(ctx, repository.WithID(id))
	})
	if err != nil {
		return err
	}

	var fileErr error
	for _, path := range []string{record.QueryImagePath(), record.GeneratedImagePath()} {
		if path == "" {
			continue
		}
		if err := s.assets.Remove(path); err != nil {
			s.logger.Warn("asset removal failed after row delete", "query_id", id, "path", path, "error", err)
			fileErr = err
		}
	}
	if fileErr != nil {
		return fmt.Errorf("query %d rows deleted, asset cleanup incomplete: %w", id, fileErr)
	}

	s.logger.Debug("query deleted", "query_id", id)
	return nil
}

// Statistics aggregates the committed history: totals, mean quality metrics,
// and the per-mode query distribution.
func (s *HistoryStore) Statistics(ctx context.Context) (history.Statistics, error) {
	total, err := s.queries.Count(ctx)
	if err != nil {
		return history.Statistics{}, err
	}
	if total == 0 {
		return history.NewStatistics(0, 0, 0, 0, nil), nil
	}

	var averages struct {
		AvgSimilarity float64
		AvgDiversity  float64
		AvgTotalTime  float64
	}
	err = s.db.Session(ctx).
		Model(&QueryModel{}).
		Select(
			"AVG(avg_similarity) AS avg_similarity",
			"AVG(diversity) AS avg_diversity",
			"AVG(total_time) AS avg_total_time",
		).
		Scan(&averages).Error
	if err != nil {
		return history.Statistics{}, fmt.Errorf("aggregate history averages: %w", err)
	}

	var modeRows []struct {
		QueryMode string
		Count     int64
	}
	err = s.db.Session(ctx).
		Model(&QueryModel{}).
		Select("query_mode", "COUNT(*) AS count").
		Group("query_mode").
		Scan(&modeRows).Error
	if err != nil {
		return history.Statistics{}, fmt.Errorf("aggregate history modes: %w", err)
	}

	modeCounts := make(map[retrieval.Mode]int64, len(modeRows))
	for _, row := range modeRows {
		modeCounts[retrieval.Mode(row.QueryMode)] = row.Count
	}

	return history.NewStatistics(
		total,
		averages.AvgSimilarity,
		averages.AvgDiversity,
		secondsToDuration(averages.AvgTotalTime),
		modeCounts,
	), nil
}

// Ensure HistoryStore implements the domain interface.
var _ history.Store = (*HistoryStore)(nil)
