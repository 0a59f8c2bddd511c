// ABOUTME: Charm KV client wrapper for FitSync storage.
// ABOUTME: Provides thread-safe initialization, prefix lookups and automatic cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/stevenrego/FitSync-Pro/internal/models"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

const (
	DBName           = "fitsync"
	defaultCharmHost = "charm.2389.dev"

	ProfilePrefix    = "profile:"
	ExercisePrefix   = "exercise:"
	PlanPrefix       = "plan:"
	FoodPrefix       = "food:"
	EntryPrefix      = "entry:"
	TotalsPrefix     = "totals:"
	SessionPrefix    = "session:"
	ActivityPrefix   = "activity:"
	AdjustmentPrefix = "adjustment:"
)

var errReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client stores FitSync records as JSON values under type-prefixed keys.
type Client struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

var _ storage.Repository = (*Client)(nil)

// InitClient initializes the global Charm client and seeds the exercise
// catalog when the store has none. Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", defaultCharmHost); err != nil {
				clientErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = &Client{
			kv:       db,
			autoSync: true,
		}

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
			clientErr = globalClient.seedCatalog()
		}
	})

	return globalClient, clientErr
}

// GetClient returns the global client, initializing if needed.
func GetClient() (*Client, error) {
	return InitClient()
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

func (c *Client) seedCatalog() error {
	existing, err := c.listByPrefix(ExercisePrefix)
	if err != nil {
		return fmt.Errorf("seed exercise catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, e := range models.DefaultCatalog() {
		if err := c.CreateExercise(e); err != nil {
			return fmt.Errorf("seed exercise catalog: %w", err)
		}
	}
	return nil
}

// put marshals v and stores it under key.
func (c *Client) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", keyType(key), err)
	}
	return c.set(key, data)
}

// set stores a value with the given key.
func (c *Client) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return errReadOnly
	}

	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// get returns the value stored under an exact key.
func (c *Client) get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, storage.ErrNotFound)
	}
	return data, err
}

// exists reports whether an exact key is present.
func (c *Client) exists(key string) (bool, error) {
	_, err := c.get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// deleteKeys removes every given key and syncs once.
func (c *Client) deleteKeys(keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return errReadOnly
	}

	for _, key := range keys {
		if err := c.kv.Delete([]byte(key)); err != nil {
			return err
		}
	}
	c.syncIfEnabled()
	return nil
}

// keysByPrefix returns every key that starts with prefix.
func (c *Client) keysByPrefix(prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	return filterKeys(keys, prefix), nil
}

// listByPrefix returns all values with keys matching the given prefix.
func (c *Client) listByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	var results [][]byte
	for _, key := range filterKeys(keys, prefix) {
		val, err := c.kv.Get([]byte(key))
		if err != nil {
			return nil, err
		}
		results = append(results, val)
	}
	return results, nil
}

// getByIDPrefix retrieves a single value by ID prefix match.
// Returns error if no match or multiple matches found.
func (c *Client) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	key, err := resolveKey(filterKeys(keys, typePrefix+idPrefix), idPrefix)
	if err != nil {
		return nil, err
	}
	return c.kv.Get([]byte(key))
}

// filterKeys returns the keys that start with prefix, as strings.
func filterKeys(keys [][]byte, prefix string) []string {
	p := []byte(prefix)
	var out []string
	for _, k := range keys {
		if bytes.HasPrefix(k, p) {
			out = append(out, string(k))
		}
	}
	return out
}

// resolveKey picks the single matching key for an ID prefix.
func resolveKey(matches []string, idPrefix string) (string, error) {
	if idPrefix == "" || len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, idPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idPrefix)
	}
	return matches[0], nil
}

// decodeAll unmarshals every value, skipping entries that do not parse.
func decodeAll[T any](values [][]byte) []*T {
	out := make([]*T, 0, len(values))
	for _, data := range values {
		v, err := unmarshalJSON[T](data)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}

// keyType names the record kind of a key for error messages.
func keyType(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}

func compositeKey(prefix string, parts ...string) string {
	return prefix + strings.Join(parts, ":")
}
