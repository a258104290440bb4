package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/essay-board-backend/models"
)

// fakeClock hands out a controllable time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequentialIDs returns an id generator yielding essay-1, essay-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("essay-%d", n)
	}
}

type repoFactory func(t *testing.T, opts ...Option) EssayRepo

func strPtr(s string) *string { return &s }

func sampleInput(i int) models.EssayInput {
	return models.EssayInput{
		Title:  fmt.Sprintf("Essay %d", i),
		Author: fmt.Sprintf("Author %d", i),
		Why:    fmt.Sprintf("Reason %d", i),
	}
}

// seed creates n essays one millisecond apart.
func seed(t *testing.T, repo EssayRepo, clock *fakeClock, n int) []models.Essay {
	t.Helper()
	var created []models.Essay
	for i := 1; i <= n; i++ {
		essay, err := repo.Add(context.Background(), sampleInput(i))
		require.NoError(t, err)
		created = append(created, *essay)
		clock.Advance(time.Millisecond)
	}
	return created
}

// runEssayRepoContract checks the behaviour every EssayRepo must share.
func runEssayRepoContract(t *testing.T, newRepo repoFactory) {
	ctx := context.Background()

	t.Run("empty collection lists nothing", func(t *testing.T) {
		repo := newRepo(t)
		page, err := repo.List(ctx, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)
		assert.NotNil(t, page.Essays)
		assert.Empty(t, page.Essays)
	})

	t.Run("total is independent of paging", func(t *testing.T) {
		clock := newFakeClock()
		repo := newRepo(t, WithClock(clock.Now))
		seed(t, repo, clock, 15)

		cases := []struct {
			page, limit, wantLen int
		}{
			{page: 1, limit: 20, wantLen: 15},
			{page: 2, limit: 20, wantLen: 0},
			{page: 1, limit: 10, wantLen: 10},
			{page: 2, limit: 10, wantLen: 5},
			{page: 3, limit: 10, wantLen: 0},
			{page: 4, limit: 4, wantLen: 3},
			{page: 1000, limit: 1, wantLen: 0},
			{page: 1, limit: 1, wantLen: 1},
		}
		for _, tc := range cases {
			page, err := repo.List(ctx, tc.page, tc.limit)
			require.NoError(t, err)
			assert.Equal(t, 15, page.Total, "page=%d limit=%d", tc.page, tc.limit)
			assert.Len(t, page.Essays, tc.wantLen, "page=%d limit=%d", tc.page, tc.limit)
			assert.NotNil(t, page.Essays)
		}
	})

	t.Run("out of range paging arguments are clamped", func(t *testing.T) {
		clock := newFakeClock()
		repo := newRepo(t, WithClock(clock.Now))
		seed(t, repo, clock, 3)

		page, err := repo.List(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		assert.Len(t, page.Essays, 1)
	})

	t.Run("pages concatenate in descending createdAt order", func(t *testing.T) {
		clock := newFakeClock()
		repo := newRepo(t, WithClock(clock.Now))
		created := seed(t, repo, clock, 15)

		var all []models.Essay
		for p := 1; ; p++ {
			page, err := repo.List(ctx, p, 4)
			require.NoError(t, err)
			if len(page.Essays) == 0 {
				break
			}
			all = append(all, page.Essays...)
		}

		require.Len(t, all, len(created))
		for i := 1; i < len(all); i++ {
			assert.Greater(t, all[i-1].CreatedAt, all[i].CreatedAt)
		}
		assert.Equal(t, created[len(created)-1].ID, all[0].ID)
		assert.Equal(t, created[0].ID, all[len(all)-1].ID)
	})

	t.Run("equal createdAt puts latest insertion first", func(t *testing.T) {
		clock := newFakeClock()
		repo := newRepo(t, WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
		for i := 1; i <= 3; i++ {
			_, err := repo.Add(ctx, sampleInput(i))
			require.NoError(t, err)
		}

		page, err := repo.List(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Essays, 3)
		assert.Equal(t, "essay-3", page.Essays[0].ID)
		assert.Equal(t, "essay-2", page.Essays[1].ID)
		assert.Equal(t, "essay-1", page.Essays[2].ID)
	})

	t.Run("create assigns identity and round trips", func(t *testing.T) {
		clock := newFakeClock()
		repo := newRepo(t, WithClock(clock.Now))

		created, err := repo.Add(ctx, models.EssayInput{
			Title:     "On Liberty",
			Author:    "J.S. Mill",
			Why:       "Clarifies the harm principle",
			Source:    strPtr("https://www.gutenberg.org/ebooks/34901"),
			Pseudonym: strPtr("millian"),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, clock.Now().UnixMilli(), created.CreatedAt)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, *created, *found)
	})

	t.Run("ids are unique", func(t *testing.T) {
		clock := newFakeClock()
		repo := newRepo(t, WithClock(clock.Now))
		created := seed(t, repo, clock, 10)

		seen := map[string]bool{}
		for _, e := range created {
			assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
			seen[e.ID] = true
		}
	})

	t.Run("find unknown id returns nil", func(t *testing.T) {
		repo := newRepo(t)
		found, err := repo.FindByID(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update changes only present fields", func(t *testing.T) {
		clock := newFakeClock()
		repo := newRepo(t, WithClock(clock.Now))
		created, err := repo.Add(ctx, models.EssayInput{
			Title:  "On Liberty",
			Author: "J.S. Mill",
			Why:    "Clarifies the harm principle",
		})
		require.NoError(t, err)

		clock.Advance(time.Hour)
		updated, err := repo.Update(ctx, created.ID, models.EssayPatch{
			Why:    strPtr("Still relevant"),
			Source: strPtr("Chapter two is the core."),
		})
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, "On Liberty", updated.Title)
		assert.Equal(t, "J.S. Mill", updated.Author)
		assert.Equal(t, "Still relevant", updated.Why)
		require.NotNil(t, updated.Source)
		assert.Equal(t, "Chapter two is the core.", *updated.Source)
		assert.Nil(t, updated.Pseudonym)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *updated, *found)
	})

	t.Run("empty patch returns the record unchanged", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Add(ctx, sampleInput(1))
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, models.EssayPatch{})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, *created, *updated)
	})

	t.Run("update of unknown id does not create", func(t *testing.T) {
		repo := newRepo(t)
		updated, err := repo.Update(ctx, "missing", models.EssayPatch{Title: strPtr("x")})
		require.NoError(t, err)
		assert.Nil(t, updated)

		page, err := repo.List(ctx, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)
	})

	t.Run("delete is final", func(t *testing.T) {
		clock := newFakeClock()
		repo := newRepo(t, WithClock(clock.Now))
		created := seed(t, repo, clock, 3)
		victim := created[1]

		removed, err := repo.Delete(ctx, victim.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		found, err := repo.FindByID(ctx, victim.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		page, err := repo.List(ctx, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		for _, e := range page.Essays {
			assert.NotEqual(t, victim.ID, e.ID)
		}

		removed, err = repo.Delete(ctx, victim.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("returned essays are copies", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Add(ctx, models.EssayInput{
			Title: "t", Author: "a", Why: "w", Source: strPtr("original"),
		})
		require.NoError(t, err)

		*created.Source = "mutated by caller"
		created.Title = "mutated by caller"

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "t", found.Title)
		assert.Equal(t, "original", *found.Source)
	})
}
