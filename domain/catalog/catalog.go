// Package catalog holds the corpus metadata records that accompany the
// vector index. The catalog is produced by the offline embedding build and
// is immutable for the lifetime of a serving process.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrAlignment indicates the catalog and the vector index disagree on the
// corpus size. The two artifacts must be built together; any drift is a
// fatal configuration error.
var ErrAlignment = errors.New("catalog and index are not aligned")

// Record describes one corpus item. Its position in the catalog is the
// corpus index and must match the corresponding row in the vector index.
type Record struct {
	corpusIndex int
	itemID      int64
	displayName string
	labels      []string
	assetPath   string
}

// NewRecord creates a Record at the given corpus index.
func NewRecord(corpusIndex int, itemID int64, displayName string, labels []string, assetPath string) Record {
	cp := make([]string, len(labels))
	copy(cp, labels)
	return Record{
		corpusIndex: corpusIndex,
		itemID:      itemID,
		displayName: displayName,
		labels:      cp,
		assetPath:   assetPath,
	}
}

// CorpusIndex returns the 0-based position of this record.
func (r Record) CorpusIndex() int { return r.corpusIndex }

// ItemID returns the external item identifier.
func (r Record) ItemID() int64 { return r.itemID }

// DisplayName returns the human-readable item name.
func (r Record) DisplayName() string { return r.displayName }

// Labels returns the item labels (copy).
func (r Record) Labels() []string {
	cp := make([]string, len(r.labels))
	copy(cp, r.labels)
	return cp
}

// AssetPath returns the path of the corpus asset this record describes.
func (r Record) AssetPath() string { return r.assetPath }

// Catalog is an ordered, read-only collection of Records.
type Catalog struct {
	records []Record
}

// NewCatalog creates a Catalog from records in corpus order.
func NewCatalog(records []Record) Catalog {
	cp := make([]Record, len(records))
	copy(cp, records)
	return Catalog{records: cp}
}

// Len returns the number of records.
func (c Catalog) Len() int { return len(c.records) }

// Record returns the record at the given corpus index.
// The second return value is false when the index is out of bounds.
func (c Catalog) Record(corpusIndex int) (Record, bool) {
	if corpusIndex < 0 || corpusIndex >= len(c.records) {
		return Record{}, false
	}
	return c.records[corpusIndex], true
}

// Records returns all records in corpus order (copy).
func (c Catalog) Records() []Record {
	cp := make([]Record, len(c.records))
	copy(cp, c.records)
	return cp
}

// ValidateAlignment checks that the catalog covers exactly indexSize rows.
func (c Catalog) ValidateAlignment(indexSize int) error {
	if len(c.records) != indexSize {
		return fmt.Errorf("%w: catalog has %d records, index has %d vectors", ErrAlignment, len(c.records), indexSize)
	}
	return nil
}

// recordJSON is the on-disk form of a Record. Corpus index is positional.
type recordJSON struct {
	ItemID      int64    `json:"item_id"`
	DisplayName string   `json:"display_name"`
	Labels      []string `json:"labels"`
	AssetPath   string   `json:"asset_path"`
}

// Load reads a catalog from a JSON array file written by the offline build.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var raw []recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	records := make([]Record, len(raw))
	for i, r := range raw {
		records[i] = NewRecord(i, r.ItemID, r.DisplayName, r.Labels, r.AssetPath)
	}
	return NewCatalog(records), nil
}
