package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func setupDoc(t *testing.T, content string) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	docPath := filepath.Join(dir, "state.json")
	if err := os.WriteFile(docPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test document: %v", err)
	}
	return NewManager(docPath), docPath
}

func TestCreate_CopiesDocument(t *testing.T) {
	m, _ := setupDoc(t, `{"currentClass":11}`)

	path, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(data) != `{"currentClass":11}` {
		t.Errorf("backup content = %s", data)
	}
	if filepath.Dir(path) != m.BackupDir() {
		t.Errorf("backup landed outside the backup dir: %s", path)
	}
}

func TestCreate_MissingDocumentFails(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "state.json"))
	if _, err := m.Create(); err == nil {
		t.Fatalf("expected error when document does not exist")
	}
}

func TestCreate_UniqueNamesWithinSameSecond(t *testing.T) {
	m, _ := setupDoc(t, `{}`)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		path, err := m.Create()
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path: %s", path)
		}
		seen[path] = true
	}
}

func TestList_NewestFirst(t *testing.T) {
	m, _ := setupDoc(t, `{}`)

	if _, err := m.Create(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create(); err != nil {
		t.Fatal(err)
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
	if backups[0].Timestamp.Before(backups[1].Timestamp) {
		t.Errorf("backups should be newest first")
	}
}

func TestList_EmptyWhenNoBackupDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "state.json"))
	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestRestore_SnapshotsCurrentFirst(t *testing.T) {
	m, docPath := setupDoc(t, `{"v":"old"}`)

	backupPath, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(docPath, []byte(`{"v":"new"}`), 0600); err != nil {
		t.Fatal(err)
	}

	if err := m.Restore(backupPath); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	data, _ := os.ReadFile(docPath)
	if string(data) != `{"v":"old"}` {
		t.Errorf("document after restore = %s", data)
	}

	// The pre-restore document must have been snapshotted.
	backups, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, b := range backups {
		content, _ := os.ReadFile(b.Path)
		if string(content) == `{"v":"new"}` {
			found = true
		}
	}
	if !found {
		t.Errorf("restore should snapshot the replaced document first")
	}
}

func TestRotate_KeepsAtMostMaxBackups(t *testing.T) {
	m, _ := setupDoc(t, `{}`)

	for i := 0; i < MaxBackups+3; i++ {
		if _, err := m.Create(); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	backups, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) > MaxBackups {
		t.Errorf("expected at most %d backups, got %d", MaxBackups, len(backups))
	}
}
