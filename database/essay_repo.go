package database

import (
	"context"

	"github.com/rpupo63/essay-board-backend/models"
)

// EssayRepo is the record store for essays. FindByID and Update return a nil
// essay and a nil error when no essay has the given id.
type EssayRepo interface {
	// List returns one page of essays, newest first, along with the size of
	// the whole collection.
	List(ctx context.Context, page, limit int) (EssayPage, error)
	FindByID(ctx context.Context, id string) (*models.Essay, error)
	Add(ctx context.Context, in models.EssayInput) (*models.Essay, error)
	Update(ctx context.Context, id string, patch models.EssayPatch) (*models.Essay, error)
	// Delete reports whether an essay was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// EssayPage is one slice of the sorted essay collection.
type EssayPage struct {
	Essays []models.Essay `json:"essays"`
	Total  int            `json:"total"`
}

// pageBounds returns the [start, end) bounds of page within total items.
// Out-of-range pages yield an empty range rather than an error.
func pageBounds(total, page, limit int) (start, end int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if page-1 > total/limit {
		return total, total
	}

	start = (page - 1) * limit
	if start > total {
		start = total
	}
	end = start + limit
	if end > total || end < start {
		end = total
	}
	return start, end
}
