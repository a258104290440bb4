package database

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/essay-board-backend/errs"
	"github.com/rpupo63/essay-board-backend/models"
)

// Document is the persisted shape: every essay and user in one JSON value.
// The order of Essays is insertion order.
type Document struct {
	Essays []models.Essay `json:"essays"`
	Users  []models.User  `json:"users"`
}

// DocumentStore implements EssayRepo over a single JSON document. Each call
// re-reads the blob; each mutation rewrites the whole document. Mutations
// are serialized so concurrent writers in one process cannot lose updates.
type DocumentStore struct {
	identity
	blob   Blob
	logger zerolog.Logger

	writeMu sync.Mutex
}

// NewDocumentStore returns a store over blob, writing an empty document
// first if the blob does not exist yet.
func NewDocumentStore(ctx context.Context, blob Blob, opts ...Option) (*DocumentStore, error) {
	s := &DocumentStore{
		identity: newIdentity(opts),
		blob:     blob,
		logger:   log.With().Str("component", "documentStore").Str("blob", blob.String()).Logger(),
	}

	_, err := blob.Read(ctx)
	switch {
	case errors.Is(err, ErrBlobNotExist):
		s.logger.Info().Msg("Creating new essay document")
		if err := s.save(ctx, emptyDocument()); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, errs.StorageError("open essay document", err)
	}

	return s, nil
}

func emptyDocument() *Document {
	return &Document{Essays: []models.Essay{}, Users: []models.User{}}
}

// load reads and decodes the current document. A missing blob reads as empty.
func (s *DocumentStore) load(ctx context.Context) (*Document, error) {
	data, err := s.blob.Read(ctx)
	if errors.Is(err, ErrBlobNotExist) {
		return emptyDocument(), nil
	}
	if err != nil {
		return nil, errs.StorageError("read essay document", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.CorruptionError("decode essay document", err)
	}
	if doc.Essays == nil {
		doc.Essays = []models.Essay{}
	}
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	return &doc, nil
}

func (s *DocumentStore) save(ctx context.Context, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errs.StorageError("encode essay document", err)
	}
	if err := s.blob.Write(ctx, data); err != nil {
		return errs.StorageError("write essay document", err)
	}
	return nil
}

// List sorts by createdAt descending; equal timestamps put the most recently
// inserted essay first.
func (s *DocumentStore) List(ctx context.Context, page, limit int) (EssayPage, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return EssayPage{}, err
	}

	sorted := slices.Clone(doc.Essays)
	slices.Reverse(sorted)
	slices.SortStableFunc(sorted, func(a, b models.Essay) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})

	start, end := pageBounds(len(sorted), page, limit)
	essays := make([]models.Essay, 0, end-start)
	for _, e := range sorted[start:end] {
		essays = append(essays, e.Clone())
	}

	return EssayPage{Essays: essays, Total: len(sorted)}, nil
}

func (s *DocumentStore) FindByID(ctx context.Context, id string) (*models.Essay, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOfEssay(doc.Essays, id)
	if i < 0 {
		return nil, nil
	}
	essay := doc.Essays[i].Clone()
	return &essay, nil
}

func (s *DocumentStore) Add(ctx context.Context, in models.EssayInput) (*models.Essay, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	essay := s.newEssay(in)
	doc.Essays = append(doc.Essays, essay)

	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("essayID", essay.ID).Msg("Essay created")
	created := essay.Clone()
	return &created, nil
}

func (s *DocumentStore) Update(ctx context.Context, id string, patch models.EssayPatch) (*models.Essay, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOfEssay(doc.Essays, id)
	if i < 0 {
		return nil, nil
	}

	patch.Apply(&doc.Essays[i])

	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("essayID", id).Msg("Essay updated")
	updated := doc.Essays[i].Clone()
	return &updated, nil
}

// Delete rewrites the document only when an essay was actually removed.
func (s *DocumentStore) Delete(ctx context.Context, id string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	i := indexOfEssay(doc.Essays, id)
	if i < 0 {
		return false, nil
	}
	doc.Essays = slices.Delete(doc.Essays, i, i+1)

	if err := s.save(ctx, doc); err != nil {
		return false, err
	}

	s.logger.Debug().Str("essayID", id).Msg("Essay deleted")
	return true, nil
}

func indexOfEssay(essays []models.Essay, id string) int {
	return slices.IndexFunc(essays, func(e models.Essay) bool {
		return e.ID == id
	})
}
