package export

import (
	"strings"

	"github.com/schemaport/schemaport/internal/errs"
)

// Resolver reconciles nominal table names from the manifest against the
// actual table names in the live database. The lookup maps are built once
// from the live table list.
type Resolver struct {
	exact map[string]struct{}
	lower map[string][]string // lower-cased name → live names with that folding
}

// NewResolver builds a Resolver over the live table names.
func NewResolver(liveTables []string) *Resolver {
	r := &Resolver{
		exact: make(map[string]struct{}, len(liveTables)),
		lower: make(map[string][]string, len(liveTables)),
	}
	for _, t := range liveTables {
		r.exact[t] = struct{}{}
		lt := strings.ToLower(t)
		r.lower[lt] = append(r.lower[lt], t)
	}
	return r
}

// Resolve maps a nominal name to a live table name. An exact match wins and
// is returned unchanged. Otherwise a case-insensitive match is attempted:
// exactly one candidate resolves to that candidate's live casing; zero
// candidates report the table as absent (ok = false); two or more candidates
// are ambiguous and fail the run rather than silently picking one.
func (r *Resolver) Resolve(name string) (resolved string, ok bool, err error) {
	if _, found := r.exact[name]; found {
		return name, true, nil
	}

	candidates := r.lower[strings.ToLower(name)]
	switch len(candidates) {
	case 0:
		return "", false, nil
	case 1:
		return candidates[0], true, nil
	default:
		return "", false, errs.Newf(errs.ErrKindAmbiguousTable,
			"table %q matches multiple live tables case-insensitively: %s",
			name, strings.Join(candidates, ", "))
	}
}
