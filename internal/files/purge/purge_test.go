package purge

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spshpau/project-service/internal/files/repository"
	"github.com/spshpau/project-service/internal/storage"
)

type fakeQueue struct {
	items []repository.PurgeItem
}

func (f *fakeQueue) DequeuePurgeBatch(_ context.Context, limit int) ([]repository.PurgeItem, error) {
	n := len(f.items)
	if n > limit {
		n = limit
	}
	return append([]repository.PurgeItem(nil), f.items[:n]...), nil
}

func (f *fakeQueue) DeletePurgeItem(_ context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeStore struct {
	deleted []string
	failKey string
}

func (f *fakeStore) Put(context.Context, string, io.Reader, string, int64, map[string]string) (string, error) {
	return "", nil
}

func (f *fakeStore) PresignDownload(context.Context, string, string, time.Duration) (string, error) {
	return "", nil
}

func (f *fakeStore) DeleteVersion(_ context.Context, key, versionID string) error {
	if key == f.failKey {
		return errors.New("bucket unavailable")
	}
	f.deleted = append(f.deleted, key+"@"+versionID)
	return nil
}

func (f *fakeStore) ListVersions(context.Context, string) ([]storage.ObjectVersion, error) {
	return nil, nil
}

func TestRunOnceDrainsQueue(t *testing.T) {
	queue := &fakeQueue{items: []repository.PurgeItem{
		{ID: 1, StorageKey: "projects/a/files/one.wav", StorageVersionID: "v1"},
		{ID: 2, StorageKey: "projects/a/files/two.wav", StorageVersionID: "v3"},
	}}
	store := &fakeStore{}
	p := NewPurger(queue, store, 100)

	n, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, queue.items)
	assert.Equal(t, []string{
		"projects/a/files/one.wav@v1",
		"projects/a/files/two.wav@v3",
	}, store.deleted)
}

func TestRunOnceLeavesFailedItemsQueued(t *testing.T) {
	queue := &fakeQueue{items: []repository.PurgeItem{
		{ID: 1, StorageKey: "projects/a/files/stuck.wav", StorageVersionID: "v1"},
		{ID: 2, StorageKey: "projects/a/files/fine.wav", StorageVersionID: "v1"},
	}}
	store := &fakeStore{failKey: "projects/a/files/stuck.wav"}
	p := NewPurger(queue, store, 100)

	n, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, queue.items, 1, "failed delete stays queued for the next run")
	assert.Equal(t, int64(1), queue.items[0].ID)
}

func TestRunOnceHonorsBatchSize(t *testing.T) {
	queue := &fakeQueue{items: []repository.PurgeItem{
		{ID: 1, StorageKey: "k1", StorageVersionID: "v"},
		{ID: 2, StorageKey: "k2", StorageVersionID: "v"},
		{ID: 3, StorageKey: "k3", StorageVersionID: "v"},
	}}
	p := NewPurger(queue, &fakeStore{}, 2)

	n, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, queue.items, 1)
}
