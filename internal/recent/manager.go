package recent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebelice/jsonstudio/internal/models"
)

// Manager manages the list of recently opened files
type Manager struct {
	path    string
	files   []models.RecentFile
	maxSize int
}

// NewManager creates a new recent files manager. maxSize <= 0 keeps every entry.
func NewManager(configDir string, maxSize int) (*Manager, error) {
	path := filepath.Join(configDir, "recent_files.yaml")

	m := &Manager{
		path:    path,
		files:   []models.RecentFile{},
		maxSize: maxSize,
	}

	// Load existing entries if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load recent files: %w", err)
		}
	}

	return m, nil
}

// Load loads the list from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read recent files: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.files); err != nil {
		return fmt.Errorf("failed to parse recent files: %w", err)
	}

	return nil
}

// Save writes the list to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.files)
	if err != nil {
		return fmt.Errorf("failed to marshal recent files: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write recent files: %w", err)
	}

	return nil
}

// Add records that path was opened. Paths are stored absolute.
func (m *Manager) Add(path string, size int64) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	for i, entry := range m.files {
		if entry.Path == abs {
			m.files[i].LastOpened = time.Now()
			m.files[i].OpenCount++
			m.files[i].Size = size
			return m.Save()
		}
	}

	now := time.Now()
	m.files = append(m.files, models.RecentFile{
		ID:         uuid.New().String(),
		Path:       abs,
		Size:       size,
		LastOpened: now,
		OpenCount:  1,
		CreatedAt:  now,
	})

	// Drop the least recently opened entries beyond the cap
	if m.maxSize > 0 && len(m.files) > m.maxSize {
		m.files = m.GetRecent(m.maxSize)
	}

	return m.Save()
}

// GetAll returns every entry
func (m *Manager) GetAll() []models.RecentFile {
	return m.files
}

// GetRecent returns the most recently opened files
func (m *Manager) GetRecent(limit int) []models.RecentFile {
	sorted := make([]models.RecentFile, len(m.files))
	copy(sorted, m.files)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastOpened.After(sorted[j].LastOpened)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// GetMostUsed returns the most frequently opened files
func (m *Manager) GetMostUsed(limit int) []models.RecentFile {
	sorted := make([]models.RecentFile, len(m.files))
	copy(sorted, m.files)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OpenCount > sorted[j].OpenCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// Delete removes an entry by ID
func (m *Manager) Delete(id string) error {
	for i, entry := range m.files {
		if entry.ID == id {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return m.Save()
		}
	}
	return fmt.Errorf("recent file with ID '%s' not found", id)
}

// PruneMissing drops entries whose file no longer exists and returns how
// many were removed
func (m *Manager) PruneMissing() (int, error) {
	kept := m.files[:0]
	removed := 0
	for _, entry := range m.files {
		if _, err := os.Stat(entry.Path); err != nil {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	m.files = kept

	if removed == 0 {
		return 0, nil
	}
	return removed, m.Save()
}
