package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/gophgallery/internal/server/dbconn"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophgallery/internal/server/storage"
)

// -------- connection factory over sqlite --------

type sqliteFactory struct {
	db *sql.DB

	mu       sync.Mutex
	opens    int
	closes   int
	openErr  error
	closeErr error
}

type trackedConn struct {
	*sql.Conn
	f *sqliteFactory
}

func (c *trackedConn) Close() error {
	c.f.mu.Lock()
	c.f.closes++
	closeErr := c.f.closeErr
	c.f.mu.Unlock()

	if err := c.Conn.Close(); err != nil {
		return err
	}
	return closeErr
}

func (f *sqliteFactory) Open(ctx context.Context) (dbconn.Connection, error) {
	f.mu.Lock()
	f.opens++
	openErr := f.openErr
	f.mu.Unlock()

	if openErr != nil {
		return nil, openErr
	}
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &trackedConn{Conn: conn, f: f}, nil
}

func (f *sqliteFactory) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens, f.closes
}

// newSQLiteStore returns a MetadataStore over a migrated in-memory database.
func newSQLiteStore(t *testing.T) (*MetadataStore, *sqliteFactory) {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewSQLRepositoryManager(repomanager.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	f := &sqliteFactory{db: db}
	return NewMetadataStore(f, rm, nopLogger()), f
}

// -------- object store gateway --------

type fakeGateway struct {
	mu        sync.Mutex
	objects   map[string][]byte
	puts      int
	deleted   []string
	signed    []string
	putErr    error
	signErr   map[string]error
	deleteErr error
	signDelay func(key string) time.Duration
	lastTTL   time.Duration
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{objects: map[string][]byte{}, signErr: map[string]error{}}
}

func (g *fakeGateway) PutObject(_ context.Context, key string, payload []byte, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.puts++
	if g.putErr != nil {
		return g.putErr
	}
	g.objects[key] = payload
	return nil
}

func (g *fakeGateway) SignReadURL(_ context.Context, key string, ttl time.Duration) (*storage.SignedURL, error) {
	if g.signDelay != nil {
		time.Sleep(g.signDelay(key))
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signed = append(g.signed, key)
	g.lastTTL = ttl
	if err := g.signErr[key]; err != nil {
		return nil, err
	}
	return &storage.SignedURL{URL: fmt.Sprintf("https://signed.example/%s?ttl=%d", key, int(ttl.Seconds()))}, nil
}

func (g *fakeGateway) DeleteObject(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, key)
	if g.deleteErr != nil {
		return g.deleteErr
	}
	delete(g.objects, key)
	return nil
}
