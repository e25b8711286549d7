package hass

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
)

// Source streams host data into a Sink until ctx is cancelled. Client and
// Simulator are Sources.
type Source interface {
	Run(ctx context.Context, sink Sink) error
}

// Sink receives what a Source learns about the host. Implementations must be
// safe for use from the Source's goroutine.
type Sink interface {
	// ReplaceStates replaces the whole state set.
	ReplaceStates(snaps []entity.Snapshot)
	// ApplyState updates one entity; a nil snapshot removes it.
	ApplyState(entityID string, snap *entity.Snapshot)
	ReplaceThemes(reg theme.Registry)
	SetStatus(status Status)
}

// Status describes the host connection.
type Status struct {
	Connected bool
	Simulated bool
	Endpoint  string
	Version   string
	Err       error
	Retry     int
	Backoff   time.Duration
}

// Update is what a Store hands to its listener. Host is set when states or
// themes changed; Status is set when the connection status changed.
type Update struct {
	Host   *presentation.Host
	Status *Status
}

// StoreOptions configures a Store.
type StoreOptions struct {
	Localize  presentation.LocalizeFunc
	ColorFunc presentation.ColorFunc
	// Watch limits change notifications to these entity ids. Empty means every
	// entity.
	Watch []string
	// Notify is called synchronously for every update.
	Notify func(Update)
}

// Store keeps the latest states and themes and turns them into host pushes.
type Store struct {
	mu       sync.RWMutex
	states   entity.States
	themes   theme.Registry
	status   Status
	watch    map[string]struct{}
	localize presentation.LocalizeFunc
	color    presentation.ColorFunc
	notify   func(Update)
}

var _ Sink = (*Store)(nil)

// NewStore creates an empty Store using the default theme.
func NewStore(opts StoreOptions) *Store {
	s := &Store{
		states:   entity.States{},
		themes:   theme.Registry{Base: theme.Default()},
		localize: opts.Localize,
		color:    opts.ColorFunc,
		notify:   opts.Notify,
	}
	if len(opts.Watch) > 0 {
		s.watch = make(map[string]struct{}, len(opts.Watch))
		for _, id := range opts.Watch {
			s.watch[id] = struct{}{}
		}
	}
	return s
}

// ReplaceStates implements Sink.
func (s *Store) ReplaceStates(snaps []entity.Snapshot) {
	s.mu.Lock()
	s.states = make(entity.States, len(snaps))
	for _, snap := range snaps {
		if snap.EntityID == "" {
			continue
		}
		s.states[snap.EntityID] = snap
	}
	host := s.hostLocked()
	s.mu.Unlock()
	s.emit(Update{Host: host})
}

// ApplyState implements Sink.
func (s *Store) ApplyState(entityID string, snap *entity.Snapshot) {
	if entityID == "" && snap != nil {
		entityID = snap.EntityID
	}
	if entityID == "" {
		return
	}

	s.mu.Lock()
	prev, existed := s.states[entityID]
	changed := existed
	if snap == nil {
		delete(s.states, entityID)
	} else {
		next := *snap
		next.EntityID = entityID
		changed = !existed || !prev.Equal(next)
		s.states[entityID] = next
	}
	watched := s.watchedLocked(entityID)
	var host *presentation.Host
	if changed && watched {
		host = s.hostLocked()
	}
	s.mu.Unlock()

	if host != nil {
		s.emit(Update{Host: host})
	}
}

// ReplaceThemes implements Sink.
func (s *Store) ReplaceThemes(reg theme.Registry) {
	s.mu.Lock()
	s.themes = reg
	host := s.hostLocked()
	s.mu.Unlock()
	s.emit(Update{Host: host})
}

// SetStatus implements Sink.
func (s *Store) SetStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.emit(Update{Status: &status})
}

// Host returns the current host view.
func (s *Store) Host() *presentation.Host {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hostLocked()
}

// Status returns the last connection status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// EntityIDs lists the known entity ids in sorted order.
func (s *Store) EntityIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.states.IDs()
	sort.Strings(ids)
	return ids
}

func (s *Store) watchedLocked(entityID string) bool {
	if len(s.watch) == 0 {
		return true
	}
	_, ok := s.watch[entityID]
	return ok
}

// hostLocked copies the state set so the host value never changes under a
// reader.
func (s *Store) hostLocked() *presentation.Host {
	states := make(entity.States, len(s.states))
	for id, snap := range s.states {
		states[id] = snap
	}
	return &presentation.Host{
		States:    states,
		Localize:  s.localize,
		ColorFunc: s.color,
		Themes:    s.themes,
	}
}

func (s *Store) emit(u Update) {
	if s.notify != nil {
		s.notify(u)
	}
}
