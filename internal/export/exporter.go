package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rebelice/jsonstudio/internal/jsontree"
	"github.com/rebelice/jsonstudio/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// ExportToCSV exports bookmarks to a CSV file
func ExportToCSV(bookmarks []models.Bookmark, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Name", "Description", "Path", "File", "Tags", "Created", "Updated", "Last Used", "Usage Count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, b := range bookmarks {
		lastUsed := ""
		if !b.LastUsed.IsZero() {
			lastUsed = b.LastUsed.Format(timeLayout)
		}

		row := []string{
			b.Name,
			b.Description,
			b.Path,
			b.File,
			strings.Join(b.Tags, ", "),
			b.CreatedAt.Format(timeLayout),
			b.UpdatedAt.Format(timeLayout),
			lastUsed,
			fmt.Sprintf("%d", b.UsageCount),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// ExportToJSON exports bookmarks to a JSON file
func ExportToJSON(bookmarks []models.Bookmark, path string) error {
	data, err := json.MarshalIndent(bookmarks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// WritePathsCSV writes one row per node of root: path, key or index,
// kind, depth and the literal or preview of the value
func WritePathsCSV(w io.Writer, root jsontree.Value) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Path", "Name", "Kind", "Depth", "Value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	var werr error
	jsontree.Walk(root, func(n jsontree.Node) bool {
		if werr != nil {
			return false
		}
		value := jsontree.Literal(n.Value)
		if n.Value.IsContainer() {
			value = jsontree.Preview(n.Value)
		}
		werr = writer.Write([]string{
			n.Path.String(),
			n.Name,
			n.Value.Kind().String(),
			fmt.Sprintf("%d", n.Depth),
			value,
		})
		return werr == nil
	})
	if werr != nil {
		return fmt.Errorf("failed to write CSV row: %w", werr)
	}

	writer.Flush()
	return writer.Error()
}
