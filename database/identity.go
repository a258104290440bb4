package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/essay-board-backend/models"
)

// identity assigns ids and creation timestamps. Both come from the store,
// never from the caller.
type identity struct {
	now   func() time.Time
	newID func() string
}

// Option customises how a store assigns essay identity.
type Option func(*identity)

// WithClock overrides the clock used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(i *identity) {
		i.now = now
	}
}

// WithIDGenerator overrides how essay ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(i *identity) {
		i.newID = newID
	}
}

func newIdentity(opts []Option) identity {
	i := identity{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

func (i identity) newEssay(in models.EssayInput) models.Essay {
	return models.NewEssay(i.newID(), i.now().UnixMilli(), in)
}
