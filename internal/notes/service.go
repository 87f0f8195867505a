package notes

import (
	"context"
	"errors"

	"github.com/MaraVoron/ya-note/internal/identity"
	"github.com/MaraVoron/ya-note/internal/slug"
	"github.com/MaraVoron/ya-note/internal/stringsx"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidSlug     = errors.New("invalid slug")
	ErrSlugTaken       = errors.New("slug already taken")
)

// Store is the persistence dependency of the service.
// It allows unit-testing use cases without a real database.
type Store interface {
	Create(ctx context.Context, owner, title, text, slug string) (Note, error)
	ListByOwner(ctx context.Context, owner string) ([]Note, error)
	GetByOwnerAndSlug(ctx context.Context, owner, slug string) (Note, error)
	Update(ctx context.Context, owner, slug, newTitle, newText, newSlug string) (Note, error)
	Delete(ctx context.Context, owner, slug string) error
}

// Service implements the note use cases on behalf of a principal. Every
// store call carries the principal's id, so a note of another owner is
// indistinguishable from a missing one.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create adds a note for the principal. A blank slugInput derives the slug
// from the title.
func (s *Service) Create(ctx context.Context, p identity.Principal, title, text, slugInput string) (Note, error) {
	if !p.Authenticated {
		return Note{}, ErrUnauthenticated
	}

	sl, err := resolveSlug(title, slugInput)
	if err != nil {
		return Note{}, err
	}

	n, err := s.store.Create(ctx, p.ID, title, text, sl)
	if errors.Is(err, ErrDuplicateSlug) {
		return Note{}, ErrSlugTaken
	}
	return n, err
}

// List returns all of the principal's notes.
func (s *Service) List(ctx context.Context, p identity.Principal) ([]Note, error) {
	if !p.Authenticated {
		return nil, ErrUnauthenticated
	}
	return s.store.ListByOwner(ctx, p.ID)
}

// View returns the principal's note with the given slug.
func (s *Service) View(ctx context.Context, p identity.Principal, noteSlug string) (Note, error) {
	if !p.Authenticated {
		return Note{}, ErrUnauthenticated
	}
	return s.store.GetByOwnerAndSlug(ctx, p.ID, noteSlug)
}

// Edit updates the principal's note. A blank newSlugInput keeps the current
// slug: changing a title must not silently change an established URL.
func (s *Service) Edit(ctx context.Context, p identity.Principal, noteSlug, newTitle, newText, newSlugInput string) (Note, error) {
	if !p.Authenticated {
		return Note{}, ErrUnauthenticated
	}

	newSlug := noteSlug
	if !stringsx.IsEmpty(newSlugInput) {
		var err error
		if newSlug, err = slug.Validate(newSlugInput); err != nil {
			return Note{}, ErrInvalidSlug
		}
	}

	n, err := s.store.Update(ctx, p.ID, noteSlug, newTitle, newText, newSlug)
	if errors.Is(err, ErrDuplicateSlug) {
		return Note{}, ErrSlugTaken
	}
	return n, err
}

// Delete removes the principal's note with the given slug.
func (s *Service) Delete(ctx context.Context, p identity.Principal, noteSlug string) error {
	if !p.Authenticated {
		return ErrUnauthenticated
	}
	return s.store.Delete(ctx, p.ID, noteSlug)
}

func resolveSlug(title, input string) (string, error) {
	if stringsx.IsEmpty(input) {
		return slug.FromTitle(title), nil
	}
	sl, err := slug.Validate(input)
	if err != nil {
		return "", ErrInvalidSlug
	}
	return sl, nil
}
