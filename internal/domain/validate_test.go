package domain

import (
	"errors"
	"testing"
)

func validTool() ToolInput {
	return ToolInput{
		Name:        "Claude",
		Description: "assistant",
		CategoryID:  "cat-1",
		URL:         "https://claude.ai",
		Rating:      4.8,
	}
}

func TestToolInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ToolInput)
		wantField string
	}{
		{name: "valid", mutate: func(*ToolInput) {}},
		{name: "missing name", mutate: func(in *ToolInput) { in.Name = "" }, wantField: "name"},
		{name: "missing description", mutate: func(in *ToolInput) { in.Description = "" }, wantField: "description"},
		{name: "missing url", mutate: func(in *ToolInput) { in.URL = "" }, wantField: "url"},
		{name: "missing category", mutate: func(in *ToolInput) { in.CategoryID = "" }, wantField: "category_id"},
		{name: "rating too high", mutate: func(in *ToolInput) { in.Rating = 5.1 }, wantField: "rating"},
		{name: "negative rating", mutate: func(in *ToolInput) { in.Rating = -1 }, wantField: "rating"},
		{name: "whitespace name after normalize", mutate: func(in *ToolInput) { in.Name = "   " }, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validTool()
			tt.mutate(&in)
			err := in.Normalize().Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestToolPatchValidate(t *testing.T) {
	blank := "  "
	name := "New name"
	rating := 9.0

	if err := (ToolPatch{}).Validate(); err != nil {
		t.Errorf("empty patch should be valid, got %v", err)
	}
	if err := (ToolPatch{Name: &name}).Normalize().Validate(); err != nil {
		t.Errorf("name patch should be valid, got %v", err)
	}
	if err := (ToolPatch{Name: &blank}).Normalize().Validate(); !IsValidation(err) {
		t.Errorf("blank name patch should fail validation, got %v", err)
	}
	if err := (ToolPatch{Rating: &rating}).Validate(); !IsValidation(err) {
		t.Errorf("rating 9 should fail validation, got %v", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (CategoryInput{Name: " Writing "}).Normalize().Validate(); err != nil {
		t.Errorf("valid category rejected: %v", err)
	}
	if err := (CategoryInput{Name: " "}).Normalize().Validate(); !IsValidation(err) {
		t.Errorf("blank category accepted: %v", err)
	}
	blank := ""
	if err := (CategoryPatch{Name: &blank}).Validate(); !IsValidation(err) {
		t.Errorf("blank category patch accepted: %v", err)
	}
}

func TestRequireID(t *testing.T) {
	if err := RequireID("id", "abc"); err != nil {
		t.Errorf("RequireID() = %v, want nil", err)
	}
	if err := RequireID("id", " "); !IsValidation(err) {
		t.Errorf("RequireID() = %v, want ValidationError", err)
	}
}

func TestResolve(t *testing.T) {
	ok := Resolve([]string{"a"}, nil)
	if !ok.OK() || ok.Data == nil || ok.Error != nil {
		t.Fatalf("Resolve(success) = %+v", ok)
	}

	failed := Resolve([]string(nil), errors.New("boom"))
	if failed.OK() || failed.Data != nil || failed.Error == nil || *failed.Error != "boom" {
		t.Fatalf("Resolve(failure) = %+v", failed)
	}
}
