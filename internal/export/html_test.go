package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/cutstock/internal/model"
)

func TestExportHTML_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_output.html")

	result := buildTestResult()

	if err := ExportHTML(path, result); err != nil {
		t.Fatalf("ExportHTML returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("HTML file was not created: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "<svg") {
		t.Error("expected HTML report to contain an inline SVG mosaic diagram")
	}
	if !strings.Contains(content, "Side Panel") {
		t.Error("expected HTML report to label the placed parts")
	}
}

func TestExportHTML_ListsUnplacedParts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unplaced.html")

	result := buildTestResult()
	result.UnplacedParts = []model.Part{{ID: "u1", Label: "Leftover", Width: 90, Height: 90}}

	if err := ExportHTML(path, result); err != nil {
		t.Fatalf("ExportHTML returned error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("HTML file was not created: %v", err)
	}
	if !strings.Contains(string(content), "Leftover") {
		t.Error("expected HTML report to list the unplaced part")
	}
}
