package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
)

const (
	keyPrefix = "cart:"

	// snapshotVersion guards the mirror payload shape. Snapshots written
	// with an unknown version are discarded on load instead of being
	// half-parsed.
	snapshotVersion = 1
)

type snapshot struct {
	Version int               `json:"version"`
	Items   []domain.LineItem `json:"items"`
}

// CartMirror stores cart snapshots in Redis as versioned JSON documents with
// a TTL so abandoned carts expire on their own.
type CartMirror struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCartMirror(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartMirror {
	return &CartMirror{client: client, ttl: ttl, logger: logger}
}

// Load fetches the snapshot for a session. A missing key, a corrupt document,
// or an unknown snapshot version all report an empty cart rather than an
// error: the mirror is advisory, and a bad snapshot must not block the store.
func (m *CartMirror) Load(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	raw, err := m.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		m.logger.Warn("discarding corrupt cart snapshot", "session_id", sessionID, "error", err)
		return nil, nil
	}
	if snap.Version != snapshotVersion {
		m.logger.Warn("discarding cart snapshot with unknown version", "session_id", sessionID, "version", snap.Version)
		return nil, nil
	}
	return snap.Items, nil
}

func (m *CartMirror) Save(ctx context.Context, sessionID string, items []domain.LineItem) error {
	raw, err := json.Marshal(snapshot{Version: snapshotVersion, Items: items})
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}
	if err := m.client.Set(ctx, keyPrefix+sessionID, raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (m *CartMirror) Clear(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("clear cart snapshot: %w", err)
	}
	return nil
}
