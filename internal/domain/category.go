package domain

import "time"

// Category groups tools.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// CategoryInput carries the fields of a category to create.
type CategoryInput struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
}

// CategoryPatch carries a partial update. Nil fields are left untouched.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// CategoryCount is a category with the number of loaded tools in it.
type CategoryCount struct {
	Category
	Count int `json:"count"`
}

// Favorite links a user identity to a tool.
// (UserID, ToolID) is unique; the remote service enforces it.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ToolID    string    `json:"tool_id"`
	Tool      *Tool     `json:"tool,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
