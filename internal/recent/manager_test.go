package recent

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManager_AddAndReload(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.json")
	if err := os.WriteFile(file, []byte(`{}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	m, err := NewManager(dir, 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := m.Add(file, 2); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := m.Add(file, 3); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	all := m.GetAll()
	if len(all) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(all))
	}
	if all[0].OpenCount != 2 {
		t.Errorf("Expected open count 2, got %d", all[0].OpenCount)
	}
	if all[0].Size != 3 {
		t.Errorf("Expected size 3, got %d", all[0].Size)
	}

	reloaded, err := NewManager(dir, 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if len(reloaded.GetAll()) != 1 || reloaded.GetAll()[0].Path != file {
		t.Errorf("Expected reloaded entry for %s, got %+v", file, reloaded.GetAll())
	}
}

func TestManager_CapKeepsMostRecent(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, 2)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	for _, name := range []string{"a.json", "b.json", "c.json"} {
		if err := m.Add(filepath.Join(dir, name), 1); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	recent := m.GetRecent(0)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(recent))
	}
	if filepath.Base(recent[0].Path) != "c.json" || filepath.Base(recent[1].Path) != "b.json" {
		t.Errorf("Expected c.json then b.json, got %s then %s", recent[0].Path, recent[1].Path)
	}
}

func TestManager_MostUsedAndDelete(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir, 0)

	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	_ = m.Add(a, 1)
	_ = m.Add(b, 1)
	_ = m.Add(b, 1)

	most := m.GetMostUsed(1)
	if len(most) != 1 || most[0].Path != b {
		t.Fatalf("Expected b.json as most used, got %+v", most)
	}

	if err := m.Delete(most[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(m.GetAll()) != 1 {
		t.Errorf("Expected 1 entry after delete, got %d", len(m.GetAll()))
	}
	if err := m.Delete("missing"); err == nil {
		t.Error("Expected error deleting unknown ID")
	}
}

func TestManager_PruneMissing(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir, 0)

	present := filepath.Join(dir, "present.json")
	_ = os.WriteFile(present, []byte(`[]`), 0644)
	_ = m.Add(present, 2)
	_ = m.Add(filepath.Join(dir, "gone.json"), 2)

	removed, err := m.PruneMissing()
	if err != nil {
		t.Fatalf("PruneMissing failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}
	if len(m.GetAll()) != 1 || m.GetAll()[0].Path != present {
		t.Errorf("Expected only present.json to remain, got %+v", m.GetAll())
	}
}
