package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
	"github.com/abhinimbalkar96-spec/blak-website/internal/repository"
)

const saveTimeout = 3 * time.Second

// Observer is notified after every cart mutation with a snapshot of the
// session's items.
type Observer func(sessionID string, items []domain.LineItem)

type session struct {
	items    []domain.LineItem
	hydrated bool

	// gen increments on every mutation. Asynchronous saves carry the
	// generation they snapshotted; a save whose generation is no longer
	// current is dropped so an older snapshot can never overwrite a newer
	// one in the mirror.
	gen uint64

	// saveMu serializes mirror writes for this session.
	saveMu sync.Mutex
}

// Store holds the authoritative cart state for every session in memory and
// mirrors it to a repository in the background. Reads and mutations hydrate a
// session from the mirror on first touch; after that the in-memory state wins
// and mirror writes are best-effort.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session

	mirror    repository.Mirror
	logger    *slog.Logger
	observers []Observer

	saveWG sync.WaitGroup
}

func NewStore(mirror repository.Mirror, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*session),
		mirror:   mirror,
		logger:   logger,
	}
}

// Subscribe registers an observer called after every mutation. Must be called
// before the store is shared across goroutines.
func (s *Store) Subscribe(fn Observer) {
	s.observers = append(s.observers, fn)
}

// Items returns a snapshot of the session's cart.
func (s *Store) Items(ctx context.Context, sessionID string) []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.hydrateLocked(ctx, sessionID)
	return domain.CloneItems(sess.items)
}

// ItemCount returns the total quantity across the session's cart.
func (s *Store) ItemCount(ctx context.Context, sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.hydrateLocked(ctx, sessionID)
	return domain.ItemCount(sess.items)
}

// AddItem adds one unit of the given (product, size) pair, merging into the
// existing line item when one exists.
func (s *Store) AddItem(ctx context.Context, sessionID, productID, size string) []domain.LineItem {
	s.mu.Lock()
	sess := s.hydrateLocked(ctx, sessionID)

	if i := domain.FindLineIndex(sess.items, productID, size); i >= 0 {
		sess.items[i].Quantity++
	} else {
		sess.items = append(sess.items, domain.LineItem{ProductID: productID, Quantity: 1, Size: size})
	}
	items := s.commitLocked(sessionID, sess)
	s.mu.Unlock()

	s.notify(sessionID, items)
	return items
}

// UpdateQuantity sets the quantity of an existing line item. A quantity of
// zero or less removes the line item. Unknown (product, size) pairs are
// ignored.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, productID, size string, quantity int) []domain.LineItem {
	s.mu.Lock()
	sess := s.hydrateLocked(ctx, sessionID)

	i := domain.FindLineIndex(sess.items, productID, size)
	if i < 0 {
		items := domain.CloneItems(sess.items)
		s.mu.Unlock()
		return items
	}
	if quantity <= 0 {
		sess.items = append(sess.items[:i], sess.items[i+1:]...)
	} else {
		sess.items[i].Quantity = quantity
	}
	items := s.commitLocked(sessionID, sess)
	s.mu.Unlock()

	s.notify(sessionID, items)
	return items
}

// RemoveItem deletes a line item. Unknown (product, size) pairs are ignored.
func (s *Store) RemoveItem(ctx context.Context, sessionID, productID, size string) []domain.LineItem {
	s.mu.Lock()
	sess := s.hydrateLocked(ctx, sessionID)

	i := domain.FindLineIndex(sess.items, productID, size)
	if i < 0 {
		items := domain.CloneItems(sess.items)
		s.mu.Unlock()
		return items
	}
	sess.items = append(sess.items[:i], sess.items[i+1:]...)
	items := s.commitLocked(sessionID, sess)
	s.mu.Unlock()

	s.notify(sessionID, items)
	return items
}

// Clear empties the session's cart and erases the mirror synchronously, so a
// cleared cart cannot resurface from a stale snapshot.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess := s.hydrateLocked(ctx, sessionID)
	sess.items = nil
	sess.gen++
	s.mu.Unlock()

	s.notify(sessionID, nil)

	// Taking saveMu serializes with in-flight saves: anything still pending
	// sees the bumped generation and drops itself, so a stale snapshot can
	// never land after the erase.
	sess.saveMu.Lock()
	err := s.mirror.Clear(ctx, sessionID)
	sess.saveMu.Unlock()
	if err != nil {
		return fmt.Errorf("clear cart mirror: %w", err)
	}
	return nil
}

// hydrateLocked returns the session, seeding it from the mirror on first
// touch. A mirror failure logs a warning and starts the session empty; the
// mirror is advisory and must never block cart operations.
func (s *Store) hydrateLocked(ctx context.Context, sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	if sess.hydrated {
		return sess
	}
	sess.hydrated = true

	items, err := s.mirror.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("cart hydration failed, starting empty", "session_id", sessionID, "error", err)
		return sess
	}
	sess.items = items
	return sess
}

// commitLocked bumps the session generation and schedules a background mirror
// save of the current items. It returns a snapshot for the caller.
func (s *Store) commitLocked(sessionID string, sess *session) []domain.LineItem {
	sess.gen++
	gen := sess.gen
	items := domain.CloneItems(sess.items)

	s.saveWG.Add(1)
	go func() {
		defer s.saveWG.Done()
		s.save(sessionID, sess, gen, items)
	}()
	return items
}

func (s *Store) save(sessionID string, sess *session, gen uint64, items []domain.LineItem) {
	sess.saveMu.Lock()
	defer sess.saveMu.Unlock()

	s.mu.Lock()
	stale := sess.gen != gen
	s.mu.Unlock()
	if stale {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.mirror.Save(ctx, sessionID, items); err != nil {
		s.logger.Warn("cart mirror save failed", "session_id", sessionID, "error", err)
	}
}

func (s *Store) notify(sessionID string, items []domain.LineItem) {
	for _, fn := range s.observers {
		fn(sessionID, items)
	}
}

// Flush waits for all in-flight mirror saves to finish. Used on shutdown.
func (s *Store) Flush() {
	s.saveWG.Wait()
}
