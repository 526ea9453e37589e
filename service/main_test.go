package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-cloudlet-service/entity"
	"github.com/tnqbao/gau-cloudlet-service/infra"
	"github.com/tnqbao/gau-cloudlet-service/infra/produce"
	"github.com/tnqbao/gau-cloudlet-service/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Folder{}, &entity.File{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewRepository(db)
}

type fakeGateway struct {
	mu        sync.Mutex
	objects   map[string]infra.StoredObject
	deleted   []string
	putCalls  int
	getCalls  int
	deleteErr error
	getErr    error
	listErr   error
}

var _ infra.ObjectStoreGateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{objects: map[string]infra.StoredObject{}}
}

func (g *fakeGateway) put(key string, modified time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.objects[key] = infra.StoredObject{Key: key, Size: 1, LastModified: modified}
}

func (g *fakeGateway) has(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.objects[key]
	return ok
}

func (g *fakeGateway) PresignPut(_ context.Context, key, contentType string, expiry time.Duration) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.putCalls++
	return fmt.Sprintf("https://store.test/%s?op=put&ct=%s&exp=%d", key, contentType, int(expiry.Seconds())), nil
}

func (g *fakeGateway) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.getCalls++
	if g.getErr != nil {
		return "", g.getErr
	}
	return fmt.Sprintf("https://store.test/%s?op=get&exp=%d", key, int(expiry.Seconds())), nil
}

func (g *fakeGateway) DeleteObject(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteErr != nil {
		return g.deleteErr
	}
	delete(g.objects, key)
	g.deleted = append(g.deleted, key)
	return nil
}

func (g *fakeGateway) StatObject(_ context.Context, key string) (bool, error) {
	return g.has(key), nil
}

func (g *fakeGateway) ListObjects(_ context.Context, prefix string) ([]infra.StoredObject, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listErr != nil {
		return nil, g.listErr
	}
	var out []infra.StoredObject
	for key, obj := range g.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (g *fakeGateway) Ping(context.Context) error { return nil }

type fakeCache struct {
	mu      sync.Mutex
	urls    map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{urls: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) GetDownloadURL(_ context.Context, storageID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return "", false, c.readErr
	}
	url, ok := c.urls[storageID]
	return url, ok, nil
}

func (c *fakeCache) SetDownloadURL(_ context.Context, storageID, url string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls[storageID] = url
	c.ttls[storageID] = ttl
	return nil
}

func (c *fakeCache) DeleteDownloadURL(_ context.Context, storageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.urls, storageID)
	return nil
}

type fakePublisher struct {
	mu             sync.Mutex
	registered     []produce.FileEventMessage
	filesDeleted   []produce.FileEventMessage
	foldersDeleted []produce.FolderEventMessage
	err            error
}

func (p *fakePublisher) PublishFileRegistered(_ context.Context, msg produce.FileEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, msg)
	return p.err
}

func (p *fakePublisher) PublishFileDeleted(_ context.Context, msg produce.FileEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filesDeleted = append(p.filesDeleted, msg)
	return p.err
}

func (p *fakePublisher) PublishFolderDeleted(_ context.Context, msg produce.FolderEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.foldersDeleted = append(p.foldersDeleted, msg)
	return p.err
}

var errGatewayDown = errors.New("gateway unavailable")

// ownedKey builds a storage id inside owner's namespace.
func ownedKey(owner uuid.UUID, name string) string {
	return OwnerPrefix(owner) + name
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
