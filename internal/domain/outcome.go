package domain

// Outcome is the {data, error} shape handed to presentation consumers.
// Exactly one of Data and Error is set.
type Outcome[T any] struct {
	Data  *T      `json:"data"`
	Error *string `json:"error"`
}

// Resolve folds a (value, error) pair into an Outcome.
func Resolve[T any](v T, err error) Outcome[T] {
	if err != nil {
		msg := err.Error()
		return Outcome[T]{Error: &msg}
	}
	return Outcome[T]{Data: &v}
}

// Failed builds an error-only Outcome.
func Failed[T any](msg string) Outcome[T] {
	return Outcome[T]{Error: &msg}
}

// OK reports whether the outcome carries data.
func (o Outcome[T]) OK() bool { return o.Error == nil }
