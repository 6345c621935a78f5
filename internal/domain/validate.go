package domain

import "strings"

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Normalize trims the free-text fields of a tool input.
func (in ToolInput) Normalize() ToolInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Logo = strings.TrimSpace(in.Logo)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.URL = strings.TrimSpace(in.URL)
	return in
}

// Validate checks the required fields of a tool to create.
func (in ToolInput) Validate() error {
	if in.Name == "" {
		return NewValidationError("name", "tool name is required")
	}
	if in.Description == "" {
		return NewValidationError("description", "tool description is required")
	}
	if in.URL == "" {
		return NewValidationError("url", "tool url is required")
	}
	if in.CategoryID == "" {
		return NewValidationError("category_id", "tool category is required")
	}
	return validateRating(in.Rating)
}

// Normalize trims the free-text fields that are set.
func (p ToolPatch) Normalize() ToolPatch {
	p.Name = trimPtr(p.Name)
	p.Description = trimPtr(p.Description)
	p.Logo = trimPtr(p.Logo)
	p.CategoryID = trimPtr(p.CategoryID)
	p.URL = trimPtr(p.URL)
	return p
}

// Validate rejects set-but-blank required fields and out of range ratings.
func (p ToolPatch) Validate() error {
	switch {
	case p.Name != nil && *p.Name == "":
		return NewValidationError("name", "tool name cannot be empty")
	case p.Description != nil && *p.Description == "":
		return NewValidationError("description", "tool description cannot be empty")
	case p.URL != nil && *p.URL == "":
		return NewValidationError("url", "tool url cannot be empty")
	case p.CategoryID != nil && *p.CategoryID == "":
		return NewValidationError("category_id", "tool category cannot be empty")
	}
	if p.Rating != nil {
		return validateRating(*p.Rating)
	}
	return nil
}

// Normalize trims the free-text fields of a category input.
func (in CategoryInput) Normalize() CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Icon = strings.TrimSpace(in.Icon)
	return in
}

// Validate checks the required fields of a category to create.
func (in CategoryInput) Validate() error {
	if in.Name == "" {
		return NewValidationError("name", "category name is required")
	}
	return nil
}

// Normalize trims the free-text fields that are set.
func (p CategoryPatch) Normalize() CategoryPatch {
	p.Name = trimPtr(p.Name)
	p.Description = trimPtr(p.Description)
	p.Icon = trimPtr(p.Icon)
	return p
}

// Validate rejects a set-but-blank name.
func (p CategoryPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return NewValidationError("name", "category name cannot be empty")
	}
	return nil
}

// RequireID rejects blank identifiers.
func RequireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError(field, "%s is required", field)
	}
	return nil
}

func validateRating(r float64) error {
	if r < MinRating || r > MaxRating {
		return NewValidationError("rating", "rating must be between %.1f and %.1f", MinRating, MaxRating)
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
