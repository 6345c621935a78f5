package seed

// Catalog is the top-level structure of a catalog.yaml file.
//
//	categories:
//	  - name: Writing
//	    icon: pen
//	    tools:
//	      - name: Draftly
//	        url: https://draftly.example
//	        description: Long-form drafting assistant
//	        rating: 4.5
type Catalog struct {
	Categories []CategorySeed `yaml:"categories"`
}

// CategorySeed is one category with the tools filed under it.
type CategorySeed struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Icon        string     `yaml:"icon,omitempty"`
	Tools       []ToolSeed `yaml:"tools,omitempty"`
}

// ToolSeed holds the tool fields; the category comes from the parent.
type ToolSeed struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Logo        string   `yaml:"logo,omitempty"`
	URL         string   `yaml:"url"`
	Tags        []string `yaml:"tags,omitempty"`
	IsFree      bool     `yaml:"is_free,omitempty"`
	Rating      float64  `yaml:"rating,omitempty"`
}

// ToolCount returns the number of tools across all categories.
func (c Catalog) ToolCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Tools)
	}
	return n
}
