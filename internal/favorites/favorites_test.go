package favorites

import (
	"fmt"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st := Load(filepath.Join(t.TempDir(), "favorites.json"))
	ts := int64(0)
	st.now = func() int64 { ts++; return ts }
	return st
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	st := Load(path)
	st.AddFavorite("/projects/api", "api")
	st.AddRecent("/projects/api")
	st.AddRecent("/notes")

	reloaded := Load(path)
	if len(reloaded.Favorites) != 1 || reloaded.Favorites[0].Path != "/projects/api" {
		t.Fatalf("favorites lost on reload: %+v", reloaded.Favorites)
	}
	if reloaded.MostRecent() != "/notes" {
		t.Fatalf("expected /notes most recent, got %q", reloaded.MostRecent())
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	st := Load(filepath.Join(t.TempDir(), "nope", "favorites.json"))
	if len(st.Favorites) != 0 || len(st.Recents) != 0 || st.MostRecent() != "" {
		t.Fatal("missing file should load as empty store")
	}
}

func TestStore_NoDuplicateFavorites(t *testing.T) {
	st := testStore(t)
	st.AddFavorite("/p", "p")
	st.AddFavorite("/p", "p")
	if len(st.Favorites) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(st.Favorites))
	}
}

func TestStore_RemoveFavorite(t *testing.T) {
	st := testStore(t)
	st.AddFavorite("/p", "p")
	st.AddFavorite("/q", "q")
	st.RemoveFavorite("/p")
	if len(st.Favorites) != 1 || st.Favorites[0].Path != "/q" {
		t.Fatalf("unexpected favorites after removal: %+v", st.Favorites)
	}
}

func TestStore_RecentsDedupeAndOrder(t *testing.T) {
	st := testStore(t)
	st.AddRecent("/a")
	st.AddRecent("/b")
	st.AddRecent("/a")
	if len(st.Recents) != 2 {
		t.Fatalf("expected 2 recents, got %d", len(st.Recents))
	}
	if st.Recents[0].Path != "/a" || st.Recents[1].Path != "/b" {
		t.Fatalf("most recent first expected, got %+v", st.Recents)
	}
}

func TestStore_RecentsCap(t *testing.T) {
	st := testStore(t)
	for i := 0; i < 15; i++ {
		st.AddRecent(fmt.Sprintf("/dir%d", i))
	}
	if len(st.Recents) != maxRecents {
		t.Fatalf("expected cap of %d, got %d", maxRecents, len(st.Recents))
	}
	if st.Recents[0].Path != "/dir14" {
		t.Fatalf("newest entry should lead, got %s", st.Recents[0].Path)
	}
}

func TestStore_UpdateLastUsed(t *testing.T) {
	st := testStore(t)
	st.AddFavorite("/p", "p")
	st.AddRecent("/p")
	before := st.Favorites[0].LastUsed
	st.UpdateLastUsed("/p")
	if st.Favorites[0].LastUsed <= before {
		t.Error("favorite timestamp should advance")
	}
	if st.Recents[0].LastUsed <= before {
		t.Error("recent timestamp should advance")
	}
}

func TestStore_RecentNameFromBase(t *testing.T) {
	st := testStore(t)
	st.AddRecent("/home/dev/projects/api")
	if st.Recents[0].Name != "api" {
		t.Fatalf("recent name should be the folder base, got %q", st.Recents[0].Name)
	}
}
