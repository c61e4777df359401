// Package snippet owns the snippet save path and its boundary with the
// knowledge engine: tag and domain extraction happen here, so the engine
// always receives already-normalized tag strings.
package snippet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/knipselapp/knipsel/plugin/knowledge"
	"github.com/knipselapp/knipsel/store"
)

const learnTimeout = 10 * time.Second

// Service provides snippet CRUD plus the learning and suggestion hooks.
type Service struct {
	store  *store.Store
	engine *knowledge.Engine

	// learnWG tracks fire-and-forget learns so shutdown can drain them.
	learnWG sync.WaitGroup
}

// NewService creates a snippet service.
func NewService(st *store.Store, engine *knowledge.Engine) *Service {
	return &Service{
		store:  st,
		engine: engine,
	}
}

// Create saves a new snippet and schedules learning from its tag set.
// The save result does not wait for learning; a learn failure is logged
// and never fails the save.
func (s *Service) Create(ctx context.Context, content string) (*store.Snippet, error) {
	now := time.Now().Unix()
	created, err := s.store.CreateSnippet(ctx, &store.Snippet{
		UID:       shortuuid.New(),
		CreatedTs: now,
		UpdatedTs: now,
		Content:   content,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create snippet")
	}

	s.learnAsync(created.Content)
	return created, nil
}

// Update replaces a snippet's content and schedules learning from the
// new tag set.
func (s *Service) Update(ctx context.Context, uid string, content string) (*store.Snippet, error) {
	existing, err := s.store.GetSnippet(ctx, &store.FindSnippet{UID: &uid})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find snippet")
	}
	if existing == nil {
		return nil, errors.Errorf("snippet %s not found", uid)
	}

	now := time.Now().Unix()
	if err := s.store.UpdateSnippet(ctx, &store.UpdateSnippet{
		ID:        existing.ID,
		Content:   &content,
		UpdatedTs: &now,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to update snippet")
	}
	existing.Content = content
	existing.UpdatedTs = now

	s.learnAsync(content)
	return existing, nil
}

// Get returns a snippet by uid, or nil when absent.
func (s *Service) Get(ctx context.Context, uid string) (*store.Snippet, error) {
	return s.store.GetSnippet(ctx, &store.FindSnippet{UID: &uid})
}

// List returns snippets newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*store.Snippet, error) {
	find := &store.FindSnippet{}
	if limit > 0 {
		find.Limit = &limit
		if offset > 0 {
			find.Offset = &offset
		}
	}
	return s.store.ListSnippets(ctx, find)
}

// Delete removes a snippet by uid. Accumulated statistics are kept; the
// knowledge graph only ever grows.
func (s *Service) Delete(ctx context.Context, uid string) error {
	existing, err := s.store.GetSnippet(ctx, &store.FindSnippet{UID: &uid})
	if err != nil {
		return errors.Wrap(err, "failed to find snippet")
	}
	if existing == nil {
		return errors.Errorf("snippet %s not found", uid)
	}
	return s.store.DeleteSnippet(ctx, &store.DeleteSnippet{ID: existing.ID})
}

// Suggest parses the draft content and returns ranked tag suggestions
// for it.
func (s *Service) Suggest(ctx context.Context, content string) ([]string, error) {
	return s.engine.Predict(ctx, ExtractTags(content), ExtractDomain(content))
}

// SuggestForTags returns ranked suggestions for an explicit tag set and
// optional domain.
func (s *Service) SuggestForTags(ctx context.Context, tags []string, domain string) ([]string, error) {
	return s.engine.Predict(ctx, tags, domain)
}

// DrainLearning blocks until all scheduled learns have finished.
func (s *Service) DrainLearning() {
	s.learnWG.Wait()
}

func (s *Service) learnAsync(content string) {
	s.learnWG.Add(1)
	go func() {
		defer s.learnWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), learnTimeout)
		defer cancel()
		if err := s.learnFromContent(ctx, content); err != nil {
			slog.Warn("failed to learn from snippet", "error", err)
		}
	}()
}

func (s *Service) learnFromContent(ctx context.Context, content string) error {
	return s.engine.Learn(ctx, ExtractTags(content), ExtractDomain(content))
}
