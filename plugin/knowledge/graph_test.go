package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/knipselapp/knipsel/internal/profile"
	"github.com/knipselapp/knipsel/store"
)

// fakeDriver is an in-memory store.Driver for engine tests.
type fakeDriver struct {
	mu       sync.Mutex
	tags     map[string]*store.Tag
	pairs    map[string]*store.CoOccurrence
	domains  map[string]map[string]int64
	snippets map[int32]*store.Snippet
	nextID   int32

	failDelta bool
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		tags:     make(map[string]*store.Tag),
		pairs:    make(map[string]*store.CoOccurrence),
		domains:  make(map[string]map[string]int64),
		snippets: make(map[int32]*store.Snippet),
	}
}

func (d *fakeDriver) GetDB() *sql.DB { return nil }
func (d *fakeDriver) Close() error   { return nil }

func (d *fakeDriver) IsInitialized(context.Context) (bool, error) { return true, nil }

func (d *fakeDriver) UpsertTag(_ context.Context, upsert *store.Tag) (*store.Tag, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tags[upsert.Name] = upsert
	return upsert, nil
}

func (d *fakeDriver) ListTags(_ context.Context, find *store.FindTag) ([]*store.Tag, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Tag, 0)
	for _, tag := range d.tags {
		if find.Name != nil && tag.Name != *find.Name {
			continue
		}
		list = append(list, tag)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (d *fakeDriver) ListCoOccurrences(_ context.Context, find *store.FindCoOccurrence) ([]*store.CoOccurrence, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tagSet := make(map[string]bool, len(find.Tags))
	for _, tag := range find.Tags {
		tagSet[tag] = true
	}
	list := make([]*store.CoOccurrence, 0)
	for _, pair := range d.pairs {
		if find.PairKey != nil && pair.PairKey != *find.PairKey {
			continue
		}
		if len(tagSet) > 0 && !tagSet[pair.TagA] && !tagSet[pair.TagB] {
			continue
		}
		list = append(list, pair)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PairKey < list[j].PairKey })
	return list, nil
}

func (d *fakeDriver) ListDomainTags(_ context.Context, find *store.FindDomainTag) ([]*store.DomainTag, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.DomainTag, 0)
	for domain, counts := range d.domains {
		if find.Domain != nil && domain != *find.Domain {
			continue
		}
		for tag, count := range counts {
			list = append(list, &store.DomainTag{Domain: domain, Tag: tag, Count: count})
		}
	}
	if find.OrderByCountDesc {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Count != list[j].Count {
				return list[i].Count > list[j].Count
			}
			return list[i].Tag < list[j].Tag
		})
	} else {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Domain != list[j].Domain {
				return list[i].Domain < list[j].Domain
			}
			return list[i].Tag < list[j].Tag
		})
	}
	if find.Limit != nil && len(list) > *find.Limit {
		list = list[:*find.Limit]
	}
	return list, nil
}

func (d *fakeDriver) ApplyKnowledgeDelta(_ context.Context, delta *store.KnowledgeDelta) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failDelta {
		return errors.New("storage unavailable")
	}
	for _, tag := range delta.Tags {
		if _, ok := d.tags[tag.Name]; !ok {
			d.tags[tag.Name] = tag
		}
	}
	for _, pair := range delta.Pairs {
		if existing, ok := d.pairs[pair.PairKey]; ok {
			existing.Count += pair.Count
			existing.UpdatedTs = pair.UpdatedTs
		} else {
			clone := *pair
			d.pairs[pair.PairKey] = &clone
		}
	}
	for _, domainTag := range delta.DomainTags {
		counts, ok := d.domains[domainTag.Domain]
		if !ok {
			counts = make(map[string]int64)
			d.domains[domainTag.Domain] = counts
		}
		counts[domainTag.Tag] += domainTag.Count
	}
	return nil
}

func (d *fakeDriver) CreateSnippet(_ context.Context, create *store.Snippet) (*store.Snippet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	create.ID = d.nextID
	d.snippets[create.ID] = create
	return create, nil
}

func (d *fakeDriver) ListSnippets(_ context.Context, find *store.FindSnippet) ([]*store.Snippet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Snippet, 0)
	for _, snippet := range d.snippets {
		if find.ID != nil && snippet.ID != *find.ID {
			continue
		}
		if find.UID != nil && snippet.UID != *find.UID {
			continue
		}
		list = append(list, snippet)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (d *fakeDriver) UpdateSnippet(_ context.Context, update *store.UpdateSnippet) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	snippet, ok := d.snippets[update.ID]
	if !ok {
		return errors.New("snippet not found")
	}
	if update.Content != nil {
		snippet.Content = *update.Content
	}
	if update.UpdatedTs != nil {
		snippet.UpdatedTs = *update.UpdatedTs
	}
	return nil
}

func (d *fakeDriver) DeleteSnippet(_ context.Context, del *store.DeleteSnippet) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.snippets[del.ID]; !ok {
		return errors.New("snippet not found")
	}
	delete(d.snippets, del.ID)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeDriver, *store.Store) {
	t.Helper()
	driver := newFakeDriver()
	st := store.New(driver, &profile.Profile{Mode: "dev", Driver: "sqlite"})
	t.Cleanup(func() { _ = st.Close() })
	return NewEngine(st), driver, st
}

func TestLearnCountsPairsOrderIndependent(t *testing.T) {
	engine, _, st := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Learn(ctx, []string{"pasta", "tomaat"}, ""))

	key := store.PairKey("tomaat", "pasta")
	pair, err := st.GetCoOccurrence(ctx, &store.FindCoOccurrence{PairKey: &key})
	require.NoError(t, err)
	require.NotNil(t, pair)
	require.Equal(t, int64(1), pair.Count)
	require.Equal(t, "pasta", pair.TagA)
	require.Equal(t, "tomaat", pair.TagB)

	// Reversed order hits the same canonical record.
	require.NoError(t, engine.Learn(ctx, []string{"tomaat", "pasta"}, ""))
	pair, err = st.GetCoOccurrence(ctx, &store.FindCoOccurrence{PairKey: &key})
	require.NoError(t, err)
	require.Equal(t, int64(2), pair.Count)
}

func TestLearnSingleTagCreatesNoPairs(t *testing.T) {
	engine, driver, st := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Learn(ctx, []string{"soep"}, ""))

	tag, err := st.GetTag(ctx, &store.FindTag{Name: stringPtr("soep")})
	require.NoError(t, err)
	require.NotNil(t, tag)
	require.Empty(t, driver.pairs)
}

func TestLearnEmptyInputIsNoOp(t *testing.T) {
	engine, driver, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Learn(ctx, nil, ""))
	require.NoError(t, engine.Learn(ctx, []string{}, "ah.nl"))

	require.Empty(t, driver.tags)
	require.Empty(t, driver.pairs)
	require.Empty(t, driver.domains)
}

func TestLearnDeduplicatesInput(t *testing.T) {
	engine, driver, st := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Learn(ctx, []string{"pasta", "pasta", "tomaat"}, "ah.nl"))

	key := store.PairKey("pasta", "tomaat")
	pair, err := st.GetCoOccurrence(ctx, &store.FindCoOccurrence{PairKey: &key})
	require.NoError(t, err)
	require.Equal(t, int64(1), pair.Count)
	// No self-pair snuck in for the duplicated tag.
	require.Len(t, driver.pairs, 1)
	require.Equal(t, int64(1), driver.domains["ah.nl"]["pasta"])
}

func TestLearnRejectsMalformedTags(t *testing.T) {
	engine, driver, _ := newTestEngine(t)
	ctx := context.Background()

	for _, tags := range [][]string{
		{""},
		{"ok", "has space"},
		{"a|b"},
	} {
		err := engine.Learn(ctx, tags, "")
		require.ErrorIs(t, err, ErrMalformedTag, "tags %v", tags)
	}
	require.Empty(t, driver.tags)
}

func TestLearnAccumulatesDomainCounts(t *testing.T) {
	engine, _, st := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Learn(ctx, []string{"dessert", "chocolade"}, "24kitchen.nl"))
	require.NoError(t, engine.Learn(ctx, []string{"dessert", "chocolade"}, "24kitchen.nl"))

	domainProfile, err := st.GetDomainProfile(ctx, "24kitchen.nl")
	require.NoError(t, err)
	require.NotNil(t, domainProfile)
	require.Equal(t, int64(2), domainProfile.TagCounts["dessert"])
	require.Equal(t, int64(2), domainProfile.TagCounts["chocolade"])
}

func TestLearnPropagatesStorageFailure(t *testing.T) {
	engine, driver, _ := newTestEngine(t)
	ctx := context.Background()

	driver.failDelta = true
	err := engine.Learn(ctx, []string{"pasta", "tomaat"}, "ah.nl")
	require.Error(t, err)

	// The failed step left nothing behind.
	driver.failDelta = false
	require.Empty(t, driver.tags)
	require.Empty(t, driver.pairs)
	require.Empty(t, driver.domains)
}

func TestPredictRanksByAssociationStrength(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, engine.Learn(ctx, []string{"pasta", "tomaat"}, ""))
	}
	require.NoError(t, engine.Learn(ctx, []string{"pasta", "basilicum"}, ""))

	suggestions, err := engine.Predict(ctx, []string{"pasta"}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"tomaat", "basilicum"}, suggestions)
	require.NotContains(t, suggestions, "pasta")
}

func TestPredictExcludesAlreadyTypedTags(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Learn(ctx, []string{"soep", "balletjes"}, ""))

	suggestions, err := engine.Predict(ctx, []string{"soep", "balletjes"}, "")
	require.NoError(t, err)
	require.Empty(t, suggestions)
}

func TestPredictIncludesDomainFavorites(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.Learn(ctx, []string{"boodschappen", "bonus", "recept"}, "ah.nl"))
	require.NoError(t, engine.Learn(ctx, []string{"boodschappen", "bonus"}, "ah.nl"))

	suggestions, err := engine.Predict(ctx, nil, "ah.nl")
	require.NoError(t, err)
	require.Contains(t, suggestions, "bonus")
	require.Contains(t, suggestions, "boodschappen")
}

func TestPredictCombinesDomainAndAssociationSignals(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	// "tomaat" gets association points from pairs with "pasta" plus the
	// domain bonus; "basilicum" only association.
	for i := 0; i < 2; i++ {
		require.NoError(t, engine.Learn(ctx, []string{"pasta", "tomaat"}, "24kitchen.nl"))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, engine.Learn(ctx, []string{"pasta", "basilicum"}, ""))
	}

	suggestions, err := engine.Predict(ctx, []string{"pasta"}, "24kitchen.nl")
	require.NoError(t, err)
	// tomaat: 2 association + 5 domain = 7, basilicum: 3.
	require.Equal(t, []string{"tomaat", "basilicum"}, suggestions)
}

func TestPredictCapsResultAtFive(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		partner := fmt.Sprintf("partner%d", i)
		require.NoError(t, engine.Learn(ctx, []string{"hub", partner}, ""))
	}

	suggestions, err := engine.Predict(ctx, []string{"hub"}, "")
	require.NoError(t, err)
	require.Len(t, suggestions, 5)
}

func TestPredictTieBreaksDeterministically(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	// All partners score 1; order must be name ascending.
	for _, partner := range []string{"citroen", "appel", "banaan"} {
		require.NoError(t, engine.Learn(ctx, []string{"fruit", partner}, ""))
	}

	suggestions, err := engine.Predict(ctx, []string{"fruit"}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"appel", "banaan", "citroen"}, suggestions)
}

func TestPredictNoInputsReturnsEmpty(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	suggestions, err := engine.Predict(ctx, nil, "")
	require.NoError(t, err)
	require.Empty(t, suggestions)
}

func TestPredictUnknownDomainReturnsEmpty(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	suggestions, err := engine.Predict(ctx, nil, "nooitgezien.example")
	require.NoError(t, err)
	require.Empty(t, suggestions)
}

func stringPtr(s string) *string {
	return &s
}
