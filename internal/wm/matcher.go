package wm

import (
	"fmt"
	"regexp"
)

// Criteria describes the windows to look for. Each non-empty field is a
// regular expression that must match the corresponding window property
// starting at the beginning of the value (prefix semantics, not full-string).
type Criteria struct {
	Class      string
	Instance   string
	Title      string
	IgnoreCase bool
}

// Empty reports whether no pattern is set at all.
func (c Criteria) Empty() bool {
	return c.Class == "" && c.Instance == "" && c.Title == ""
}

// Matcher is a compiled, reusable predicate over window handles.
type Matcher struct {
	class    *regexp.Regexp
	instance *regexp.Regexp
	title    *regexp.Regexp
}

// NewMatcher compiles the criteria. Patterns are anchored at the start of
// the property value; case-insensitivity applies to pattern and value
// uniformly.
func NewMatcher(c Criteria) (*Matcher, error) {
	compile := func(pattern, field string) (*regexp.Regexp, error) {
		if pattern == "" {
			return nil, nil
		}
		if c.IgnoreCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern: %w", field, err)
		}
		return re, nil
	}

	m := &Matcher{}
	var err error
	if m.class, err = compile(c.Class, "class"); err != nil {
		return nil, err
	}
	if m.instance, err = compile(c.Instance, "instance"); err != nil {
		return nil, err
	}
	if m.title, err = compile(c.Title, "title"); err != nil {
		return nil, err
	}
	return m, nil
}

// Matches reports whether the window satisfies every configured pattern.
// A window lacking a property required by a non-empty pattern never
// matches; absence is not a wildcard.
func (m *Matcher) Matches(w *Window) bool {
	for _, p := range []struct {
		re    *regexp.Regexp
		value *string
	}{
		{m.class, w.Class},
		{m.instance, w.Instance},
		{m.title, w.Title},
	} {
		if p.re == nil {
			continue
		}
		if p.value == nil || !p.re.MatchString(*p.value) {
			return false
		}
	}
	return true
}
