package memory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/toolhub/internal/remote"
)

// filterRows returns the rows matching every filter of all and at least
// one filter of anyOf (when anyOf is not empty).
func filterRows(rows []Row, all, anyOf []remote.Filter) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		ok, err := matchAll(r, all)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if len(anyOf) > 0 {
			ok, err = matchAny(r, anyOf)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func matchAll(r Row, filters []remote.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := match(r, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchAny(r Row, filters []remote.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := match(r, f)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func match(r Row, f remote.Filter) (bool, error) {
	v := r[f.Column]
	switch f.Op {
	case remote.OpEq:
		want, err := normalizeValue(f.Value)
		if err != nil {
			return false, err
		}
		return v != nil && equal(v, want), nil

	case remote.OpILike:
		pattern, ok := f.Value.(string)
		if !ok {
			return false, fmt.Errorf("ilike on %s: pattern must be a string", f.Column)
		}
		s, ok := v.(string)
		return ok && likeRegexp(pattern).MatchString(s), nil

	case remote.OpIs:
		switch f.Value {
		case nil:
			return v == nil, nil
		case true, false:
			return v == f.Value, nil
		default:
			return false, fmt.Errorf("is on %s: value must be null, true or false", f.Column)
		}
	}
	return false, fmt.Errorf("unsupported operator %q", f.Op)
}

// likeRegexp compiles an ILIKE pattern. % matches any run, _ any single character.
func likeRegexp(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("(?is)^")
	for _, ch := range pattern {
		switch ch {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

func normalizeValue(v any) (any, error) {
	row, err := normalize(map[string]any{"v": v})
	if err != nil {
		return nil, err
	}
	return row["v"], nil
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return compare(a, b) == 0
}

// compare orders JSON values. Null sorts after every other value, as in
// PostgreSQL.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
