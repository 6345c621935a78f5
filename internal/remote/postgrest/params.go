package postgrest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

// selectParam renders a projection with embedded resources, e.g.
// "*,category:categories(id,name)".
func selectParam(columns []string, embeds []remote.Embed) string {
	parts := make([]string, 0, len(columns)+len(embeds))
	if len(columns) == 0 {
		parts = append(parts, "*")
	} else {
		parts = append(parts, columns...)
	}
	for _, e := range embeds {
		parts = append(parts, fmt.Sprintf("%s:%s(%s)", e.Alias, e.Table, selectParam(e.Columns, e.Embeds)))
	}
	return strings.Join(parts, ",")
}

func addFilters(params url.Values, filters []remote.Filter) {
	for _, f := range filters {
		params.Add(f.Column, string(f.Op)+"."+filterValue(f))
	}
}

// orParam renders filters combined with OR: "(name.ilike.*k*,description.ilike.*k*)".
func orParam(filters []remote.Filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, f.Column+"."+string(f.Op)+"."+quote(filterValue(f)))
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func orderParam(o remote.Order) string {
	if o.Descending {
		return o.Column + ".desc"
	}
	return o.Column + ".asc"
}

func filterValue(f remote.Filter) string {
	switch v := f.Value.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		if f.Op == remote.OpILike {
			// PostgREST reads * as the % wildcard.
			return strings.ReplaceAll(v, "%", "*")
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// quote wraps values holding PostgREST reserved characters in double quotes.
func quote(v string) string {
	if !strings.ContainsAny(v, ",().:\"\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}
