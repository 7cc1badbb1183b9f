package fs

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

func validatePatterns(include, exclude []string) error {
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// matches reports whether a slash-separated relative path passes the filters.
func (r *Repository) matches(rel string) bool {
	for _, p := range r.config.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	for _, p := range r.config.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
