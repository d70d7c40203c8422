package memstore

import (
	"context"
	"testing"

	"github.com/fsdevblog/slugreg/internal/db"
	"github.com/fsdevblog/slugreg/internal/models"
	"github.com/fsdevblog/slugreg/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecordRepo() *RecordRepo {
	return NewRecordRepo(db.NewMemStorage())
}

func seedRecords(t *testing.T, repo *RecordRepo, recs ...models.Record) {
	t.Helper()
	for i := range recs {
		require.NoError(t, repo.Create(context.Background(), &recs[i]))
	}
}

func TestRecordRepo_Create(t *testing.T) {
	repo := newTestRecordRepo()
	ctx := context.Background()

	rec := models.Record{SequenceID: 1, Slug: "abcd1234", URL: "https://test.com"}
	require.NoError(t, repo.Create(ctx, &rec))

	dup := models.Record{SequenceID: 2, Slug: "abcd1234", URL: "https://other.test"}
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
}

func TestRecordRepo_GetBySlug(t *testing.T) {
	repo := newTestRecordRepo()
	seedRecords(t, repo, models.Record{SequenceID: 1, Slug: "abcd1234", URL: "https://test.com"})

	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{name: "exists", slug: "abcd1234", wantErr: nil},
		{name: "missing", slug: "missing1", wantErr: repositories.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := repo.GetBySlug(context.Background(), tt.slug)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.slug, rec.Slug)
		})
	}
}

func TestRecordRepo_GetBySequenceID(t *testing.T) {
	repo := newTestRecordRepo()
	seedRecords(t, repo,
		models.Record{SequenceID: 1, Slug: "aaaaaaaa", URL: "https://a.test"},
		models.Record{SequenceID: 2, Slug: "bbbbbbbb", URL: "https://b.test"},
	)

	rec, err := repo.GetBySequenceID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb", rec.Slug)

	_, missErr := repo.GetBySequenceID(context.Background(), 99)
	assert.ErrorIs(t, missErr, repositories.ErrNotFound)
}

func TestRecordRepo_SlugExists(t *testing.T) {
	repo := newTestRecordRepo()
	seedRecords(t, repo, models.Record{SequenceID: 1, Slug: "abcd1234", URL: "https://test.com"})

	exists, err := repo.SlugExists(context.Background(), "abcd1234")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(context.Background(), "missing1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecordRepo_UpdateURL(t *testing.T) {
	repo := newTestRecordRepo()
	seedRecords(t, repo, models.Record{SequenceID: 1, Slug: "abcd1234", URL: "https://before.test"})

	require.NoError(t, repo.UpdateURL(context.Background(), 1, "https://after.test"))

	rec, err := repo.GetBySlug(context.Background(), "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, "https://after.test", rec.URL)

	assert.ErrorIs(t, repo.UpdateURL(context.Background(), 99, "https://nope.test"), repositories.ErrNotFound)
}

func TestRecordRepo_MaxSequenceID(t *testing.T) {
	repo := newTestRecordRepo()

	maxID, err := repo.MaxSequenceID(context.Background())
	require.NoError(t, err)
	assert.Zero(t, maxID)

	seedRecords(t, repo,
		models.Record{SequenceID: 3, Slug: "cccccccc", URL: "https://c.test"},
		models.Record{SequenceID: 1, Slug: "aaaaaaaa", URL: "https://a.test"},
		models.Record{SequenceID: 2, Slug: "bbbbbbbb", URL: "https://b.test"},
	)

	maxID, err = repo.MaxSequenceID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), maxID)
}
