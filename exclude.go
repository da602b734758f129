package httphook

import (
	"regexp"
)

// Excluder decides which request paths skip observation entirely.  A path is
// excluded if it is equal to one of the exact paths or if any of the regular
// expressions matches somewhere within it.  Use ^ and $ to anchor a pattern.
//
// The zero value excludes nothing.  An Excluder is not safe for modification
// once in use; the Builder hands each Hook its own copy.
type Excluder struct {
	paths    map[string]bool
	patterns []*regexp.Regexp
}

// AddPath adds exact path exclusions.
func (e *Excluder) AddPath(paths ...string) {
	if e.paths == nil {
		e.paths = make(map[string]bool, len(paths))
	}

	for _, p := range paths {
		e.paths[p] = true
	}
}

// AddPattern compiles and adds a regular expression exclusion.  If the pattern
// does not compile, a *ConfigError is returned and nothing is added.
func (e *Excluder) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &ConfigError{
			Op:    "exclude regex",
			Value: pattern,
			Err:   err,
		}
	}

	e.patterns = append(e.patterns, re)
	return nil
}

// Empty tests if this Excluder has no rules at all.  A nil Excluder is empty.
func (e *Excluder) Empty() bool {
	return e == nil || (len(e.paths) == 0 && len(e.patterns) == 0)
}

// IsExcluded tests if the given request path is exempt from observation.
// A nil Excluder excludes nothing.
func (e *Excluder) IsExcluded(path string) bool {
	if e == nil {
		return false
	}

	if e.paths[path] {
		return true
	}

	for _, re := range e.patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// clone produces a copy that shares nothing mutable with this Excluder.
// Compiled expressions are safe for concurrent use, so they are shared.
func (e *Excluder) clone() *Excluder {
	c := &Excluder{
		patterns: append([]*regexp.Regexp(nil), e.patterns...),
	}

	if len(e.paths) > 0 {
		c.paths = make(map[string]bool, len(e.paths))
		for p := range e.paths {
			c.paths[p] = true
		}
	}

	return c
}
