package models

// Essay is one recommendation on the board. ID and CreatedAt are assigned by
// the store when the essay is created and never change afterwards.
type Essay struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Why       string  `json:"why"`
	Source    *string `json:"source,omitempty"`
	Pseudonym *string `json:"pseudonym,omitempty"`
	CreatedAt int64   `json:"createdAt"` // milliseconds since epoch

	// SourceType is a legacy label found in older documents. It is carried
	// through rewrites unchanged and never set by the API.
	SourceType *string `json:"sourceType,omitempty"`
}

// EssayInput carries the caller-supplied fields of a new essay.
type EssayInput struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Why       string  `json:"why"`
	Source    *string `json:"source,omitempty"`
	Pseudonym *string `json:"pseudonym,omitempty"`
}

// EssayPatch is a partial update. Nil fields are left untouched.
type EssayPatch struct {
	Title     *string `json:"title,omitempty"`
	Author    *string `json:"author,omitempty"`
	Why       *string `json:"why,omitempty"`
	Source    *string `json:"source,omitempty"`
	Pseudonym *string `json:"pseudonym,omitempty"`
}

// NewEssay builds an essay from input with the store-assigned identity.
func NewEssay(id string, createdAt int64, in EssayInput) Essay {
	return Essay{
		ID:        id,
		Title:     in.Title,
		Author:    in.Author,
		Why:       in.Why,
		Source:    cloneString(in.Source),
		Pseudonym: cloneString(in.Pseudonym),
		CreatedAt: createdAt,
	}
}

// Apply merges the present fields of p into e. ID and CreatedAt are never touched.
func (p EssayPatch) Apply(e *Essay) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Author != nil {
		e.Author = *p.Author
	}
	if p.Why != nil {
		e.Why = *p.Why
	}
	if p.Source != nil {
		e.Source = cloneString(p.Source)
	}
	if p.Pseudonym != nil {
		e.Pseudonym = cloneString(p.Pseudonym)
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p EssayPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Why == nil && p.Source == nil && p.Pseudonym == nil
}

// Clone returns a deep copy so callers never share pointers with the store.
func (e Essay) Clone() Essay {
	e.Source = cloneString(e.Source)
	e.Pseudonym = cloneString(e.Pseudonym)
	e.SourceType = cloneString(e.SourceType)
	return e
}

// DisplayName is the pseudonym, or "Anonymous" when none was given.
func (e Essay) DisplayName() string {
	if e.Pseudonym == nil || *e.Pseudonym == "" {
		return "Anonymous"
	}
	return *e.Pseudonym
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
