package domain

import "time"

// Uncategorized is the display name of a tool without a category snapshot.
const Uncategorized = "uncategorized"

// Tool represents an AI tool listed in the directory.
//
// Tools are owned by the remote data service. Values held here are
// transient copies (possibly served from the response cache).
type Tool struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the opaque identifier assigned by the remote data service.
	ID string `json:"id"`

	// ─────────────────────────────
	// Listing data
	// ─────────────────────────────

	Name        string   `json:"name"`
	Description string   `json:"description"`
	Logo        string   `json:"logo,omitempty"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags,omitempty"`

	// IsFree is true for tools usable without payment.
	IsFree bool `json:"is_free"`

	// Rating ranges from MinRating to MaxRating.
	Rating float64 `json:"rating"`

	// ─────────────────────────────
	// Classification
	// ─────────────────────────────

	// CategoryID references exactly one Category.
	CategoryID string `json:"category_id"`

	// Category is the embedded snapshot joined by the remote service.
	// It may be nil when the projection did not request it or the
	// reference is dangling.
	Category *Category `json:"category,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryName returns the embedded category name or Uncategorized.
func (t Tool) CategoryName() string {
	if t.Category == nil || t.Category.Name == "" {
		return Uncategorized
	}
	return t.Category.Name
}

// ToolInput carries the fields of a tool to create.
type ToolInput struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Logo        string   `json:"logo,omitempty" yaml:"logo"`
	CategoryID  string   `json:"category_id" yaml:"category_id"`
	IsFree      bool     `json:"is_free" yaml:"is_free"`
	Rating      float64  `json:"rating" yaml:"rating"`
	URL         string   `json:"url" yaml:"url"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
}

// ToolPatch carries a partial update. Nil fields are left untouched.
type ToolPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Logo        *string   `json:"logo,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty"`
	IsFree      *bool     `json:"is_free,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// ToolPage is one window of a paginated tool listing.
type ToolPage struct {
	Items []Tool `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// Stats aggregates directory counters.
type Stats struct {
	TotalTools      int64 `json:"totalTools"`
	TotalCategories int64 `json:"totalCategories"`
	// TotalViews stays 0 until a view-metrics source exists.
	TotalViews int64 `json:"totalViews"`
}
