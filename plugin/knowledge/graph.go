// Package knowledge maintains the tag knowledge graph: pairwise tag
// co-occurrence counters and per-domain tag frequencies learned from saved
// snippets, queried for ranked tag suggestions while typing.
//
// The engine holds no state of its own. Every call reads committed data
// from the store, so a predict racing an in-flight learn simply sees the
// previous state; suggestions are advisory and eventual consistency is
// acceptable.
package knowledge

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/knipselapp/knipsel/store"
)

const (
	// domainBonus is the fixed score awarded to each of a domain's top
	// tags. It deliberately does not scale with the count magnitude.
	domainBonus = 5
	// domainTopTags is how many of a domain's most frequent tags
	// receive the bonus.
	domainTopTags = 3
	// maxSuggestions caps the prediction result.
	maxSuggestions = 5
)

// ErrMalformedTag is returned when a tag name is empty, contains
// whitespace, or contains the pair-key separator.
var ErrMalformedTag = errors.New("malformed tag")

// Engine is the tag association learning and prediction engine.
type Engine struct {
	store *store.Store
}

// NewEngine creates a new knowledge engine backed by the given store.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Learn records one snippet's tag set, optionally attributed to a source
// domain. Unknown tags are registered, every unordered pair of distinct
// tags is counted once, and domain tag frequencies are incremented. The
// whole step is applied in a single store transaction.
//
// An empty tag set is a no-op. Duplicate names are deduplicated before
// pairing, so a repeated tag never pairs with itself.
func (e *Engine) Learn(ctx context.Context, tags []string, domain string) error {
	distinct, err := normalizeTags(tags)
	if err != nil {
		return err
	}
	if len(distinct) == 0 {
		return nil
	}

	now := time.Now().Unix()
	delta := &store.KnowledgeDelta{}

	for _, name := range distinct {
		delta.Tags = append(delta.Tags, &store.Tag{
			Name:      name,
			CreatedTs: now,
		})
	}

	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			tagA, tagB := store.SortPair(distinct[i], distinct[j])
			delta.Pairs = append(delta.Pairs, &store.CoOccurrence{
				PairKey:   store.PairKey(tagA, tagB),
				TagA:      tagA,
				TagB:      tagB,
				Count:     1,
				UpdatedTs: now,
			})
		}
	}

	if domain != "" {
		for _, name := range distinct {
			delta.DomainTags = append(delta.DomainTags, &store.DomainTag{
				Domain: domain,
				Tag:    name,
				Count:  1,
			})
		}
	}

	return e.store.ApplyKnowledgeDelta(ctx, delta)
}

// Predict returns up to five suggested tag names, most relevant first,
// never including a tag already in currentTags.
//
// Two additive signals feed one score per candidate: the domain's top
// tags each get a fixed bonus, and every stored pair with exactly one
// side among currentTags contributes its count to the other side.
// Equal scores are broken by tag name ascending so the ranking is
// deterministic for a given store state.
func (e *Engine) Predict(ctx context.Context, currentTags []string, domain string) ([]string, error) {
	current, err := normalizeTags(currentTags)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 && domain == "" {
		return []string{}, nil
	}

	scores := make(map[string]int64)

	if domain != "" {
		limit := domainTopTags
		rows, err := e.store.ListDomainTags(ctx, &store.FindDomainTag{
			Domain:           &domain,
			OrderByCountDesc: true,
			Limit:            &limit,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to read domain profile")
		}
		for _, row := range rows {
			scores[row.Tag] += domainBonus
		}
	}

	if len(current) > 0 {
		currentSet := make(map[string]bool, len(current))
		for _, tag := range current {
			currentSet[tag] = true
		}

		pairs, err := e.store.ListCoOccurrences(ctx, &store.FindCoOccurrence{Tags: current})
		if err != nil {
			return nil, errors.Wrap(err, "failed to read co-occurrences")
		}
		for _, pair := range pairs {
			aTyped, bTyped := currentSet[pair.TagA], currentSet[pair.TagB]
			switch {
			case aTyped && !bTyped:
				scores[pair.TagB] += pair.Count
			case bTyped && !aTyped:
				scores[pair.TagA] += pair.Count
			}
		}

		// A tag already typed never surfaces, even if it scored via the
		// domain signal.
		for _, tag := range current {
			delete(scores, tag)
		}
	}

	candidates := make([]string, 0, len(scores))
	for name := range scores {
		candidates = append(candidates, name)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if scores[candidates[i]] != scores[candidates[j]] {
			return scores[candidates[i]] > scores[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	return candidates, nil
}

// normalizeTags validates tag names and deduplicates them, preserving
// first-seen order. Names are compared case-sensitively, exactly as given.
func normalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	distinct := make([]string, 0, len(tags))
	for _, name := range tags {
		if name == "" {
			return nil, errors.Wrap(ErrMalformedTag, "empty tag name")
		}
		if strings.ContainsAny(name, store.PairSeparator+" \t\n") {
			return nil, errors.Wrapf(ErrMalformedTag, "invalid tag name %q", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		distinct = append(distinct, name)
	}
	return distinct, nil
}
