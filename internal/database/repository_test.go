package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/visearch/visearch/domain/repository"
	"github.com/visearch/visearch/internal/database"
	"github.com/visearch/visearch/internal/testdb"
)

type note struct {
	ID    int64
	Title string
	Pos   int
}

type noteModel struct {
	ID    int64 `gorm:"primaryKey"`
	Title string
	Pos   int
}

func (noteModel) TableName() string { return "notes" }

type noteMapper struct{}

func (noteMapper) ToDomain(m noteModel) note { return note{ID: m.ID, Title: m.Title, Pos: m.Pos} }
func (noteMapper) ToModel(n note) noteModel  { return noteModel{ID: n.ID, Title: n.Title, Pos: n.Pos} }

type shelf struct {
	ID    int64
	Name  string
	Books []string
}

type shelfModel struct {
	ID    int64 `gorm:"primaryKey"`
	Name  string
	Books []bookModel `gorm:"foreignKey:ShelfID"`
}

func (shelfModel) TableName() string { return "shelves" }

type bookModel struct {
	ID      int64 `gorm:"primaryKey"`
	ShelfID int64
	Title   string
	Slot    int
}

func (bookModel) TableName() string { return "books" }

type shelfMapper struct{}

func (shelfMapper) ToDomain(m shelfModel) shelf {
	titles := make([]string, len(m.Books))
	for i, b := range m.Books {
		titles[i] = b.Title
	}
	return shelf{ID: m.ID, Name: m.Name, Books: titles}
}

func (shelfMapper) ToModel(s shelf) shelfModel {
	return shelfModel{ID: s.ID, Name: s.Name}
}

func newNoteRepo(t *testing.T) (database.Repository[note, noteModel], database.Database) {
	t.Helper()
	ctx := context.Background()
	db := testdb.NewPlain(t)
	require.NoError(t, db.Session(ctx).AutoMigrate(&noteModel{}))
	return database.NewRepository[note, noteModel](db, noteMapper{}, "note"), db
}

func seedNotes(t *testing.T, db database.Database, notes ...noteModel) {
	t.Helper()
	ctx := context.Background()
	for i := range notes {
		require.NoError(t, db.Session(ctx).Create(&notes[i]).Error)
	}
}

func TestRepositoryFindWithConditions(t *testing.T) {
	ctx := context.Background()
	repo, db := newNoteRepo(t)
	seedNotes(t, db,
		noteModel{Title: "alpha", Pos: 2},
		noteModel{Title: "beta", Pos: 1},
		noteModel{Title: "alpha", Pos: 3},
	)

	found, err := repo.Find(ctx,
		repository.WithCondition("title", "alpha"),
		repository.WithOrderAsc("pos"),
	)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 2, found[0].Pos)
	assert.Equal(t, 3, found[1].Pos)
}

func TestRepositoryFindOneNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newNoteRepo(t)

	_, err := repo.FindOne(ctx, repository.WithID(42))
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepositoryLimitOffset(t *testing.T) {
	ctx := context.Background()
	repo, db := newNoteRepo(t)
	seedNotes(t, db,
		noteModel{Title: "a", Pos: 1},
		noteModel{Title: "b", Pos: 2},
		noteModel{Title: "c", Pos: 3},
	)

	found, err := repo.Find(ctx,
		repository.WithOrderAsc("pos"),
		repository.WithLimit(1),
		repository.WithOffset(1),
	)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].Title)
}

func TestRepositoryCount(t *testing.T) {
	ctx := context.Background()
	repo, db := newNoteRepo(t)
	seedNotes(t, db, noteModel{Title: "a", Pos: 1}, noteModel{Title: "a", Pos: 2})

	count, err := repo.Count(ctx, repository.WithCondition("title", "a"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.Count(ctx, repository.WithCondition("title", "missing"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepositoryDeleteBy(t *testing.T) {
	ctx := context.Background()
	repo, db := newNoteRepo(t)
	seedNotes(t, db, noteModel{Title: "a", Pos: 1}, noteModel{Title: "b", Pos: 2})

	require.NoError(t, repo.DeleteBy(ctx, repository.WithCondition("title", "a")))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryConditionIn(t *testing.T) {
	ctx := context.Background()
	repo, db := newNoteRepo(t)
	seedNotes(t, db,
		noteModel{Title: "a", Pos: 1},
		noteModel{Title: "b", Pos: 2},
		noteModel{Title: "c", Pos: 3},
	)

	found, err := repo.Find(ctx, repository.WithConditionIn("title", []string{"a", "c"}))
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestRepositoryWithTxRollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	repo, db := newNoteRepo(t)
	seedNotes(t, db, noteModel{Title: "a", Pos: 1}, noteModel{Title: "b", Pos: 2})

	boom := errors.New("boom")
	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).DeleteBy(ctx, repository.WithCondition("title", "a")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryWithTxCommits(t *testing.T) {
	ctx := context.Background()
	repo, db := newNoteRepo(t)
	seedNotes(t, db, noteModel{Title: "a", Pos: 1}, noteModel{Title: "b", Pos: 2})

	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		return repo.WithTx(tx).DeleteBy(ctx, repository.WithCondition("title", "a"))
	})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryFindOnePreloadsAssociation(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewPlain(t)
	require.NoError(t, db.Session(ctx).AutoMigrate(&shelfModel{}, &bookModel{}))

	require.NoError(t, db.Session(ctx).Create(&shelfModel{ID: 1, Name: "fiction"}).Error)
	for _, b := range []bookModel{
		{ShelfID: 1, Title: "second", Slot: 2},
		{ShelfID: 1, Title: "first", Slot: 1},
	} {
		b := b
		require.NoError(t, db.Session(ctx).Create(&b).Error)
	}

	repo := database.NewRepository[shelf, shelfModel](db, shelfMapper{}, "shelf")
	found, err := repo.FindOne(ctx,
		repository.WithID(1),
		repository.WithPreload("Books", repository.WithOrderAsc("slot")),
	)
	require.NoError(t, err)
	require.Len(t, found.Books, 2)
	assert.Equal(t, "first", found.Books[0])
	assert.Equal(t, "second", found.Books[1])
}
