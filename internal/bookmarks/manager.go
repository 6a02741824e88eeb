package bookmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebelice/jsonstudio/internal/export"
	"github.com/rebelice/jsonstudio/internal/jsontree"
	"github.com/rebelice/jsonstudio/internal/models"
)

// Manager manages bookmarked node paths
type Manager struct {
	path      string
	bookmarks []models.Bookmark
}

// NewManager creates a new bookmarks manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "bookmarks.yaml")

	m := &Manager{
		path:      path,
		bookmarks: []models.Bookmark{},
	}

	// Load existing bookmarks if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load bookmarks: %w", err)
		}
	}

	return m, nil
}

// Load loads bookmarks from YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read bookmarks file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.bookmarks); err != nil {
		return fmt.Errorf("failed to parse bookmarks: %w", err)
	}

	return nil
}

// Save saves bookmarks to YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.bookmarks)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write bookmarks file: %w", err)
	}

	return nil
}

// validate checks name and path. The root path is not bookmarkable since
// it cannot be copied either.
func validate(name, path string) error {
	if name == "" {
		return fmt.Errorf("bookmark name cannot be empty")
	}
	if path == "" {
		return fmt.Errorf("bookmark path cannot be empty")
	}
	if _, err := jsontree.ParsePath(path); err != nil {
		return fmt.Errorf("invalid bookmark path: %w", err)
	}
	return nil
}

// Add adds a new bookmark
func (m *Manager) Add(name, description, path, file string, tags []string) (*models.Bookmark, error) {
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)

	if err := validate(name, path); err != nil {
		return nil, err
	}

	// Check for duplicate names (case-insensitive)
	for _, b := range m.bookmarks {
		if strings.EqualFold(b.Name, name) {
			return nil, fmt.Errorf("a bookmark with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	now := time.Now()
	bookmark := models.Bookmark{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Path:        path,
		File:        file,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.bookmarks = append(m.bookmarks, bookmark)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return &bookmark, nil
}

// Update updates an existing bookmark
func (m *Manager) Update(id string, name, description, path string, tags []string) error {
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)

	if err := validate(name, path); err != nil {
		return err
	}

	// Check for duplicate names (case-insensitive, excluding the current bookmark)
	for _, b := range m.bookmarks {
		if b.ID != id && strings.EqualFold(b.Name, name) {
			return fmt.Errorf("a bookmark with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	for i, b := range m.bookmarks {
		if b.ID == id {
			m.bookmarks[i].Name = name
			m.bookmarks[i].Description = strings.TrimSpace(description)
			m.bookmarks[i].Path = path
			m.bookmarks[i].Tags = tags
			m.bookmarks[i].UpdatedAt = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save bookmark: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("bookmark with ID '%s' was not found", id)
}

// Delete deletes a bookmark by ID
func (m *Manager) Delete(id string) error {
	for i, b := range m.bookmarks {
		if b.ID == id {
			m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save bookmarks after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("bookmark with ID '%s' was not found", id)
}

// Get returns a bookmark by ID
func (m *Manager) Get(id string) (*models.Bookmark, error) {
	for _, b := range m.bookmarks {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("bookmark with ID '%s' was not found", id)
}

// GetAll returns all bookmarks
func (m *Manager) GetAll() []models.Bookmark {
	return m.bookmarks
}

// ForFile returns the bookmarks saved against file, plus those saved
// without a file
func (m *Manager) ForFile(file string) []models.Bookmark {
	var results []models.Bookmark
	for _, b := range m.bookmarks {
		if b.File == "" || b.File == file {
			results = append(results, b)
		}
	}
	return results
}

// Search searches bookmarks by name, description, path, or tags
func (m *Manager) Search(query string) []models.Bookmark {
	if query == "" {
		return m.bookmarks
	}

	query = strings.ToLower(query)
	var results []models.Bookmark

	for _, b := range m.bookmarks {
		if strings.Contains(strings.ToLower(b.Name), query) ||
			strings.Contains(strings.ToLower(b.Description), query) ||
			strings.Contains(strings.ToLower(b.Path), query) {
			results = append(results, b)
			continue
		}

		for _, tag := range b.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				results = append(results, b)
				break
			}
		}
	}

	return results
}

// RecordUsage updates usage statistics for a bookmark
func (m *Manager) RecordUsage(id string) error {
	for i, b := range m.bookmarks {
		if b.ID == id {
			m.bookmarks[i].UsageCount++
			m.bookmarks[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("bookmark with ID '%s' was not found", id)
}

// GetMostUsed returns the most frequently used bookmarks
func (m *Manager) GetMostUsed(limit int) []models.Bookmark {
	sorted := make([]models.Bookmark, len(m.bookmarks))
	copy(sorted, m.bookmarks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// GetRecent returns the most recently used bookmarks
func (m *Manager) GetRecent(limit int) []models.Bookmark {
	sorted := make([]models.Bookmark, len(m.bookmarks))
	copy(sorted, m.bookmarks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// ExportToCSV exports all bookmarks to a CSV file
func (m *Manager) ExportToCSV(customPath ...string) (string, error) {
	if len(m.bookmarks) == 0 {
		return "", fmt.Errorf("no bookmarks to export")
	}

	path := filepath.Join(filepath.Dir(m.path), "bookmarks.csv")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.ExportToCSV(m.bookmarks, path); err != nil {
		return "", fmt.Errorf("failed to export bookmarks to CSV: %w", err)
	}

	return path, nil
}

// ExportToJSON exports all bookmarks to a JSON file
func (m *Manager) ExportToJSON(customPath ...string) (string, error) {
	if len(m.bookmarks) == 0 {
		return "", fmt.Errorf("no bookmarks to export")
	}

	path := filepath.Join(filepath.Dir(m.path), "bookmarks.json")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.ExportToJSON(m.bookmarks, path); err != nil {
		return "", fmt.Errorf("failed to export bookmarks to JSON: %w", err)
	}

	return path, nil
}
