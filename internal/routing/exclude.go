package routing

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultExcludePattern matches the paths the router never touches: the JSON API,
// internal asset directories and any path ending in a static file extension.
const DefaultExcludePattern = `^/(api|static|_assets)(/|$)|^/(favicon\.ico|robots\.txt|healthz)$|\.(svg|png|jpe?g|gif|webp|ico|css|js|map|woff2?|txt)$`

// Exclusions is a path pattern filter for requests that bypass tenant routing and the gate.
// New static paths are covered by pattern rather than by listing routes.
type Exclusions struct {
	re *regexp.Regexp
}

// NewExclusions compiles a path pattern. An empty pattern excludes nothing.
func NewExclusions(pattern string) (*Exclusions, error) {
	if strings.TrimSpace(pattern) == "" {
		return &Exclusions{}, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid exclusion pattern: %w", err)
	}

	return &Exclusions{re: re}, nil
}

// MustExclusions is like NewExclusions but panics on an invalid pattern.
func MustExclusions(pattern string) *Exclusions {
	e, err := NewExclusions(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

// Match reports whether path is excluded.
func (e *Exclusions) Match(path string) bool {
	if e == nil || e.re == nil {
		return false
	}
	return e.re.MatchString(path)
}
