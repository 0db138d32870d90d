// Package favorites persists pinned and recently used folders as a
// small JSON file. The scan engine never writes it; the front end
// records roots here and reads the most recent one back as a default.
package favorites

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const maxRecents = 10

// Entry is one remembered folder.
type Entry struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	LastUsed int64  `json:"last_used"`
}

// Store holds favorites and recents and saves itself on mutation.
type Store struct {
	Favorites []Entry `json:"favorites"`
	Recents   []Entry `json:"recent_folders"`

	path string
	now  func() int64
}

// DefaultPath places the store under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "quickfindr", "favorites.json")
}

// Load reads the store at path. A missing or unreadable file yields an
// empty store; the file is created on first mutation.
func Load(path string) *Store {
	st := &Store{path: path, now: func() int64 { return time.Now().Unix() }}
	data, err := os.ReadFile(path)
	if err != nil {
		return st
	}
	_ = json.Unmarshal(data, st)
	return st
}

// Save writes the store back to disk, creating parent directories on
// first save.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// AddFavorite pins a folder. Duplicates by path are ignored.
func (s *Store) AddFavorite(path, name string) {
	for _, f := range s.Favorites {
		if f.Path == path {
			return
		}
	}
	s.Favorites = append(s.Favorites, Entry{Path: path, Name: name, LastUsed: s.now()})
	_ = s.Save()
}

// RemoveFavorite unpins a folder by path.
func (s *Store) RemoveFavorite(path string) {
	kept := s.Favorites[:0]
	for _, f := range s.Favorites {
		if f.Path != path {
			kept = append(kept, f)
		}
	}
	s.Favorites = kept
	_ = s.Save()
}

// AddRecent records a folder as most recently used: unique by path,
// newest first, capped.
func (s *Store) AddRecent(path string) {
	kept := make([]Entry, 0, len(s.Recents)+1)
	kept = append(kept, Entry{
		Path:     path,
		Name:     filepath.Base(path),
		LastUsed: s.now(),
	})
	for _, r := range s.Recents {
		if r.Path != path {
			kept = append(kept, r)
		}
	}
	if len(kept) > maxRecents {
		kept = kept[:maxRecents]
	}
	s.Recents = kept
	_ = s.Save()
}

// UpdateLastUsed refreshes the timestamp of a folder wherever it
// appears.
func (s *Store) UpdateLastUsed(path string) {
	ts := s.now()
	for i := range s.Favorites {
		if s.Favorites[i].Path == path {
			s.Favorites[i].LastUsed = ts
		}
	}
	for i := range s.Recents {
		if s.Recents[i].Path == path {
			s.Recents[i].LastUsed = ts
		}
	}
	_ = s.Save()
}

// MostRecent returns the newest recent folder, or "" when empty.
func (s *Store) MostRecent() string {
	if len(s.Recents) == 0 {
		return ""
	}
	return s.Recents[0].Path
}
