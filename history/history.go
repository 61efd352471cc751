// Package history stores playback checkpoints and serves resume positions.
package history

import (
	"errors"
	"sort"
	"sync"

	"github.com/anisan-cli/playcore/filesystem"
	"github.com/anisan-cli/playcore/progress"
	"github.com/anisan-cli/playcore/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// FinishedPercentage is the watched share from which an episode no longer resumes.
const FinishedPercentage = 95

// ErrNotFound is returned when no checkpoint exists for an episode.
var ErrNotFound = errors.New("no checkpoint for episode")

// Entry is a stored checkpoint with the display title of its session.
type Entry struct {
	progress.Checkpoint
	Title string `json:"title,omitempty"`
}

// backend is the persisted map of entries keyed by episode id.
type backend interface {
	Get() (map[string]Entry, bool, error)
	Set(map[string]Entry) error
}

// Store is a disk-backed registry of checkpoints.
type Store struct {
	mu      sync.Mutex
	backend backend
}

// NewStore opens the registry at path.
func NewStore(path string) *Store {
	return &Store{
		backend: gache.New[map[string]Entry](
			&gache.Options{
				Path:       path,
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

// Default returns the registry at where.History().
func Default() *Store {
	defaultStoreOnce.Do(func() {
		defaultStore = NewStore(where.History())
	})
	return defaultStore
}

func (s *Store) load() (map[string]Entry, error) {
	cached, expired, err := s.backend.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]Entry), nil
	}
	return cached, nil
}

// Get returns the checkpoint of an episode.
func (s *Store) Get(episodeID string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	entry, ok := saved[episodeID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

// All returns every entry, most recently saved first.
func (s *Store) All() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})
	return entries, nil
}

// Save stores entry unless a newer checkpoint for the same episode exists.
// It reports whether the entry was written.
func (s *Store) Save(entry Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load()
	if err != nil {
		return false, err
	}

	if existing, ok := saved[entry.EpisodeID]; ok {
		if existing.SavedAt.After(entry.SavedAt) {
			return false, nil
		}
		if entry.Title == "" {
			entry.Title = existing.Title
		}
	}

	saved[entry.EpisodeID] = entry
	return true, s.backend.Set(saved)
}

// Remove deletes the checkpoint of an episode.
func (s *Store) Remove(episodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := saved[episodeID]; !ok {
		return ErrNotFound
	}

	delete(saved, episodeID)
	return s.backend.Set(saved)
}

// Clear deletes every checkpoint.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Set(make(map[string]Entry))
}

// Resume returns the position to resume an episode from. Finished or
// unknown episodes start from the beginning.
func (s *Store) Resume(episodeID string) mo.Option[float64] {
	entry, err := s.Get(episodeID)
	if err != nil {
		return mo.None[float64]()
	}
	if entry.Percentage() >= FinishedPercentage || entry.CurrentTime <= 0 {
		return mo.None[float64]()
	}
	return mo.Some(entry.CurrentTime)
}
