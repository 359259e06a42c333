package testsupport

import (
	"context"
	"strings"
	"sync"
)

// FakeStore is an in-memory cache.Store that records calls and can be told
// to fail. The zero value is not usable; call NewFakeStore.
type FakeStore struct {
	mu     sync.Mutex
	values map[string]int64

	Gets    int
	Sets    int
	Deletes int

	GetErr    error
	SetErr    error
	DeleteErr error
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string]int64)}
}

// Get returns the value under key, or GetErr when it is set.
func (f *FakeStore) Get(_ context.Context, key string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Gets++
	if f.GetErr != nil {
		return 0, false, f.GetErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

// Set stores value under key unless SetErr is set.
func (f *FakeStore) Set(_ context.Context, key string, value int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Sets++
	if f.SetErr != nil {
		return f.SetErr
	}
	f.values[key] = value
	return nil
}

// Delete removes key unless DeleteErr is set.
func (f *FakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deletes++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.values, key)
	return nil
}

// DeleteByPrefix removes every key starting with prefix unless DeleteErr is
// set. It counts as a single delete.
func (f *FakeStore) DeleteByPrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deletes++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for key := range f.values {
		if strings.HasPrefix(key, prefix) {
			delete(f.values, key)
		}
	}
	return nil
}

// Peek returns the value stored under key without counting a Get.
func (f *FakeStore) Peek(key string) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.values[key]
	return v, ok
}

// Put stores value under key without counting a Set.
func (f *FakeStore) Put(key string, value int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value
}

// Len returns the number of stored keys.
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.values)
}
