package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
)

// fakeMirror is an in-memory repository.Mirror with injectable failures.
type fakeMirror struct {
	mu       sync.Mutex
	carts    map[string][]domain.LineItem
	loadErr  error
	saveErr  error
	clearErr error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{carts: make(map[string][]domain.LineItem)}
}

func (m *fakeMirror) Load(_ context.Context, sessionID string) ([]domain.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return domain.CloneItems(m.carts[sessionID]), nil
}

func (m *fakeMirror) Save(_ context.Context, sessionID string, items []domain.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[sessionID] = domain.CloneItems(items)
	return nil
}

func (m *fakeMirror) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	delete(m.carts, sessionID)
	return nil
}

func (m *fakeMirror) get(sessionID string) []domain.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneItems(m.carts[sessionID])
}

func newTestStore(mirror *fakeMirror) *Store {
	return NewStore(mirror, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestStore_AddItemMergesByProductAndSize(t *testing.T) {
	store := newTestStore(newFakeMirror())
	ctx := context.Background()

	store.AddItem(ctx, "s1", "p1", "M")
	store.AddItem(ctx, "s1", "p1", "M")
	store.AddItem(ctx, "s1", "p1", "L")
	items := store.AddItem(ctx, "s1", "p2", "")

	require.Len(t, items, 3)
	assert.Equal(t, domain.LineItem{ProductID: "p1", Quantity: 2, Size: "M"}, items[0])
	assert.Equal(t, domain.LineItem{ProductID: "p1", Quantity: 1, Size: "L"}, items[1])
	assert.Equal(t, domain.LineItem{ProductID: "p2", Quantity: 1}, items[2])
	assert.Equal(t, 4, store.ItemCount(ctx, "s1"))
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := newTestStore(newFakeMirror())
	ctx := context.Background()

	store.AddItem(ctx, "s1", "p1", "")
	store.AddItem(ctx, "s2", "p2", "")

	s1 := store.Items(ctx, "s1")
	require.Len(t, s1, 1)
	assert.Equal(t, "p1", s1[0].ProductID)

	s2 := store.Items(ctx, "s2")
	require.Len(t, s2, 1)
	assert.Equal(t, "p2", s2[0].ProductID)
}

func TestStore_UpdateQuantity(t *testing.T) {
	store := newTestStore(newFakeMirror())
	ctx := context.Background()

	store.AddItem(ctx, "s1", "p1", "M")
	items := store.UpdateQuantity(ctx, "s1", "p1", "M", 5)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	// Zero or negative removes the line item.
	items = store.UpdateQuantity(ctx, "s1", "p1", "M", 0)
	assert.Empty(t, items)

	store.AddItem(ctx, "s1", "p1", "M")
	items = store.UpdateQuantity(ctx, "s1", "p1", "M", -3)
	assert.Empty(t, items)
}

func TestStore_UpdateQuantityUnknownItemIsNoop(t *testing.T) {
	store := newTestStore(newFakeMirror())
	ctx := context.Background()

	store.AddItem(ctx, "s1", "p1", "M")
	items := store.UpdateQuantity(ctx, "s1", "p1", "L", 9)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestStore_RemoveItem(t *testing.T) {
	store := newTestStore(newFakeMirror())
	ctx := context.Background()

	store.AddItem(ctx, "s1", "p1", "M")
	store.AddItem(ctx, "s1", "p2", "")

	items := store.RemoveItem(ctx, "s1", "p1", "M")
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	// Removing an absent item is a no-op.
	items = store.RemoveItem(ctx, "s1", "p9", "")
	assert.Len(t, items, 1)
}

func TestStore_HydratesFromMirrorOnFirstTouch(t *testing.T) {
	mirror := newFakeMirror()
	mirror.carts["s1"] = []domain.LineItem{{ProductID: "p1", Quantity: 3, Size: "S"}}
	store := newTestStore(mirror)

	items := store.Items(context.Background(), "s1")
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestStore_MirrorStaysBehindMemory(t *testing.T) {
	mirror := newFakeMirror()
	mirror.carts["s1"] = []domain.LineItem{{ProductID: "p1", Quantity: 1}}
	store := newTestStore(mirror)
	ctx := context.Background()

	// Hydrate, then change the mirror out from under the store. The
	// in-memory state stays authoritative.
	store.AddItem(ctx, "s1", "p1", "")
	mirror.mu.Lock()
	mirror.carts["s1"] = []domain.LineItem{{ProductID: "p9", Quantity: 9}}
	mirror.mu.Unlock()

	items := store.Items(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, domain.LineItem{ProductID: "p1", Quantity: 2}, items[0])
}

func TestStore_HydrationFailureStartsEmpty(t *testing.T) {
	mirror := newFakeMirror()
	mirror.loadErr = errors.New("redis down")
	store := newTestStore(mirror)
	ctx := context.Background()

	assert.Empty(t, store.Items(ctx, "s1"))

	// Mutations still work against the empty in-memory cart.
	mirror.mu.Lock()
	mirror.loadErr = nil
	mirror.mu.Unlock()
	items := store.AddItem(ctx, "s1", "p1", "")
	assert.Len(t, items, 1)
}

func TestStore_SaveFailureDoesNotAffectCart(t *testing.T) {
	mirror := newFakeMirror()
	mirror.saveErr = errors.New("redis down")
	store := newTestStore(mirror)
	ctx := context.Background()

	items := store.AddItem(ctx, "s1", "p1", "")
	store.Flush()

	require.Len(t, items, 1)
	assert.Len(t, store.Items(ctx, "s1"), 1)
	assert.Empty(t, mirror.get("s1"))
}

func TestStore_MirrorConvergesToLatestState(t *testing.T) {
	mirror := newFakeMirror()
	store := newTestStore(mirror)
	ctx := context.Background()

	store.AddItem(ctx, "s1", "p1", "M")
	store.AddItem(ctx, "s1", "p1", "M")
	store.UpdateQuantity(ctx, "s1", "p1", "M", 7)
	store.AddItem(ctx, "s1", "p2", "")
	store.Flush()

	want := []domain.LineItem{
		{ProductID: "p1", Quantity: 7, Size: "M"},
		{ProductID: "p2", Quantity: 1},
	}
	assert.Equal(t, want, mirror.get("s1"))
}

func TestStore_ClearErasesMirrorSynchronously(t *testing.T) {
	mirror := newFakeMirror()
	store := newTestStore(mirror)
	ctx := context.Background()

	store.AddItem(ctx, "s1", "p1", "")
	store.Flush()
	require.NotEmpty(t, mirror.get("s1"))

	require.NoError(t, store.Clear(ctx, "s1"))
	assert.Empty(t, store.Items(ctx, "s1"))
	assert.Empty(t, mirror.get("s1"))
}

func TestStore_ClearReportsMirrorFailure(t *testing.T) {
	mirror := newFakeMirror()
	mirror.clearErr = errors.New("redis down")
	store := newTestStore(mirror)
	ctx := context.Background()

	store.AddItem(ctx, "s1", "p1", "")
	err := store.Clear(ctx, "s1")
	require.Error(t, err)

	// The in-memory cart is emptied regardless.
	assert.Empty(t, store.Items(ctx, "s1"))
}

func TestStore_ObserversSeeEveryMutation(t *testing.T) {
	store := newTestStore(newFakeMirror())
	ctx := context.Background()

	var mu sync.Mutex
	var calls [][]domain.LineItem
	store.Subscribe(func(sessionID string, items []domain.LineItem) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "s1", sessionID)
		calls = append(calls, items)
	})

	store.AddItem(ctx, "s1", "p1", "")
	store.RemoveItem(ctx, "s1", "p1", "")
	require.NoError(t, store.Clear(ctx, "s1"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 3)
	assert.Len(t, calls[0], 1)
	assert.Empty(t, calls[1])
	assert.Empty(t, calls[2])
}

func TestStore_ConcurrentAdds(t *testing.T) {
	store := newTestStore(newFakeMirror())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(ctx, "s1", "p1", "M")
		}()
	}
	wg.Wait()
	store.Flush()

	items := store.Items(ctx, "s1")
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
}
