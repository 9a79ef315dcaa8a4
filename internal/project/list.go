package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// ErrNotFound is returned when an operation references an unknown project id.
var ErrNotFound = errors.New("project not found")

// Store mirrors the owned list under a key. Implemented by internal/store.
type Store interface {
	Load(ctx context.Context, key string) ([]Project, error)
	Save(ctx context.Context, key string, projects []Project) error
}

// MirrorPolicy decides what happens when a store write fails.
type MirrorPolicy string

const (
	// MirrorLog logs the failure and keeps going (best-effort persistence).
	MirrorLog MirrorPolicy = "log"
	// MirrorFail surfaces the failure to the caller.
	MirrorFail MirrorPolicy = "fail"
)

// List owns the project collection and mirrors every mutation to the store.
type List struct {
	mu     sync.Mutex
	key    string
	items  []Project
	store  Store
	policy MirrorPolicy
	logger *slog.Logger
}

// NewList builds an empty list bound to a store key. A nil store disables
// mirroring; a nil logger discards mirror failures under MirrorLog.
func NewList(key string, store Store, policy MirrorPolicy, logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	if policy == "" {
		policy = MirrorLog
	}
	return &List{key: key, store: store, policy: policy, logger: logger}
}

// LoadStored replaces the in-memory list with the store's contents.
func (l *List) LoadStored(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	items, err := l.store.Load(ctx, l.key)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Create appends a new project seeded from text and mirrors the list.
func (l *List) Create(ctx context.Context, details string) (Project, error) {
	p := New(details)
	l.mu.Lock()
	l.items = append(l.items, p)
	l.mu.Unlock()
	return p, l.mirror(ctx)
}

// Get returns a copy of the project with the given id.
func (l *List) Get(id string) (Project, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.items {
		if p.ID == id {
			return p.clone(), nil
		}
	}
	return Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// All returns a copy of the current list in stored order.
func (l *List) All() []Project {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Project, len(l.items))
	for i, p := range l.items {
		out[i] = p.clone()
	}
	return out
}

// Len reports the number of projects held.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Delete removes the projects with the given ids and mirrors the list.
// Unknown ids are ignored.
func (l *List) Delete(ctx context.Context, ids ...string) error {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	l.mu.Lock()
	kept := l.items[:0]
	for _, p := range l.items {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	l.items = kept
	l.mu.Unlock()
	return l.mirror(ctx)
}

// Edit returns a draft staging changes to the project with the given id.
// The stored project is untouched until the draft's Save commits it.
func (l *List) Edit(id string) (*Draft, error) {
	original, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	return &Draft{list: l, original: original, staged: original.clone()}, nil
}

// commit replaces the stored project matching the staged copy's id.
func (l *List) commit(ctx context.Context, staged Project) error {
	l.mu.Lock()
	found := false
	for i := range l.items {
		if l.items[i].ID == staged.ID {
			l.items[i] = staged.clone()
			found = true
			break
		}
	}
	l.mu.Unlock()
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, staged.ID)
	}
	return l.mirror(ctx)
}

// mirror writes the current list to the store, honoring the mirror policy.
func (l *List) mirror(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	l.mu.Lock()
	snapshot := make([]Project, len(l.items))
	for i, p := range l.items {
		snapshot[i] = p.clone()
	}
	l.mu.Unlock()

	if err := l.store.Save(ctx, l.key, snapshot); err != nil {
		if l.policy == MirrorFail {
			return fmt.Errorf("save projects: %w", err)
		}
		l.logger.Warn("project mirror failed", "key", l.key, "error", err.Error())
	}
	return nil
}
