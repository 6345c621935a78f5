package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/toolhub/internal/catalog"
	"github.com/MrSnakeDoc/toolhub/internal/domain"
	"github.com/MrSnakeDoc/toolhub/internal/logger"
	"github.com/MrSnakeDoc/toolhub/internal/remote/memory"
)

const catalogYAML = `
categories:
  - name: Writing
    icon: pen
    tools:
      - name: Draftly
        description: Long-form drafting assistant
        url: https://draftly.example
        rating: 4.5
        tags: [text, drafts]
      - name: Quill
        description: Grammar checker
        url: ${SEED_TEST_QUILL_URL}
        is_free: true
  - name: Imaging
    tools:
      - name: Pixie
        description: Image generator
        url: https://pixie.example
`

func TestLoaderLoad(t *testing.T) {
	t.Setenv("SEED_TEST_QUILL_URL", "https://quill.example")

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	got, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(got.Categories) != 2 {
		t.Fatalf("Load() returned %d categories, want 2", len(got.Categories))
	}
	if got.ToolCount() != 3 {
		t.Errorf("ToolCount() = %d, want 3", got.ToolCount())
	}
	quill := got.Categories[0].Tools[1]
	if quill.URL != "https://quill.example" || !quill.IsFree {
		t.Errorf("Quill = %+v, want expanded url and is_free", quill)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/catalog.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid yaml", data: "categories: [unclosed"},
		{name: "no categories", data: "categories: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.data)
			}
		})
	}
}

func TestImportThroughCatalog(t *testing.T) {
	t.Setenv("SEED_TEST_QUILL_URL", "https://quill.example")

	cat, err := Parse([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	svc, err := catalog.New(catalog.Options{Remote: memory.New()})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	sum, err := Import(ctx, svc, cat, logger.New("error", false))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if sum.Categories != 2 || sum.Tools != 3 {
		t.Errorf("Import() = %+v, want 2 categories and 3 tools", sum)
	}

	tools, err := svc.ListTools(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 3 {
		t.Fatalf("ListTools() = %d tools, want 3", len(tools))
	}
	for _, tool := range tools {
		if tool.CategoryName() == domain.Uncategorized {
			t.Errorf("tool %s has no embedded category", tool.Name)
		}
	}
}

func TestImportStopsOnInvalidTool(t *testing.T) {
	cat, err := Parse([]byte(`
categories:
  - name: Broken
    tools:
      - name: NoURL
        description: missing url
`))
	if err != nil {
		t.Fatal(err)
	}

	svc, err := catalog.New(catalog.Options{Remote: memory.New()})
	if err != nil {
		t.Fatal(err)
	}

	sum, err := Import(context.Background(), svc, cat, logger.Nop())
	if !domain.IsValidation(err) {
		t.Fatalf("Import() error = %v, want validation error", err)
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "url" {
		t.Errorf("validation field = %v, want url", verr)
	}
	if sum.Categories != 1 || sum.Tools != 0 {
		t.Errorf("Import() = %+v, want the category kept", sum)
	}
}
