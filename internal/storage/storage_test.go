package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/lockinhq/lockin/internal/models"
)

func sampleState() models.AppState {
	s := models.Default()
	s.CurrentClass = 12
	s.Logs = []models.FocusLog{
		{ID: "l1", Date: "2026-04-10", Subject: models.SubjectPhysics, Hours: 2.5, Quality: 4, Distractions: 1},
	}
	s.Progress = []models.ChapterProgress{
		{ClassID: 12, Subject: models.SubjectChemistry, Chapter: "Electrochemistry", Status: models.StatusInProgress, Notes: "nernst eq"},
	}
	s.Tasks = []models.Task{{ID: "t1", Text: "mock test", Subject: models.SubjectGeneral}}
	s.DailyGoalHours = 9
	return s
}

func TestJSONStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewJSONStore(path)

	want := sampleState()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CurrentClass != 12 || got.DailyGoalHours != 9 {
		t.Errorf("scalars did not round-trip: %+v", got)
	}
	if len(got.Logs) != 1 || got.Logs[0] != want.Logs[0] {
		t.Errorf("logs did not round-trip: %+v", got.Logs)
	}
	if len(got.Progress) != 1 || got.Progress[0] != want.Progress[0] {
		t.Errorf("progress did not round-trip: %+v", got.Progress)
	}
}

func TestJSONStore_FirstRunReturnsNotFound(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "state.json"))
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJSONStore_MalformedFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewJSONStore(path)
	if _, err := store.Load(); err == nil {
		t.Fatalf("malformed document should error")
	}

	got := LoadOrDefault(store)
	if got.CurrentClass != models.Default().CurrentClass {
		t.Errorf("LoadOrDefault should fall back to the default document")
	}
}

func TestJSONStore_FileModeIsPrivate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file modes")
	}
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewJSONStore(path)
	if err := store.Save(models.Default()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("document mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestJSONStore_MarshalsCamelCaseFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewJSONStore(path)
	if err := store.Save(sampleState()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"currentClass"`, `"dailyGoalHours"`, `"isLockInModeEnabled"`, `"accumulatedMs"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("document should contain %s", field)
		}
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	want := sampleState()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Logs) != 1 || got.Logs[0] != want.Logs[0] {
		t.Errorf("logs did not round-trip: %+v", got.Logs)
	}
}

func TestSQLiteStore_SaveOverwritesSingleRow(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	defer store.Close()

	first := sampleState()
	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}

	second := first
	second.CurrentClass = 11
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentClass != 11 {
		t.Errorf("latest save should win, got class %d", got.CurrentClass)
	}
}

func TestSQLiteStore_FirstRunReturnsNotFound(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpen_PicksBackendByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonStore, err := Open(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatalf("Open json: %v", err)
	}
	defer jsonStore.Close()
	if _, ok := jsonStore.(*JSONStore); !ok {
		t.Errorf("expected JSONStore for .json, got %T", jsonStore)
	}

	dbStore, err := Open(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("Open db: %v", err)
	}
	defer dbStore.Close()
	if _, ok := dbStore.(*SQLiteStore); !ok {
		t.Errorf("expected SQLiteStore for .db, got %T", dbStore)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	got, err := ExpandPath("~/x/state.json")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "x", "state.json") {
		t.Errorf("ExpandPath = %s", got)
	}

	abs := filepath.Join(home, "y")
	got, err = ExpandPath(abs)
	if err != nil {
		t.Fatal(err)
	}
	if got != abs {
		t.Errorf("absolute paths pass through, got %s", got)
	}
}
