package aop

import "strings"

// Matcher selects which methods (or function contracts) an interceptor chain
// applies to
type Matcher interface {
	// Matches reports whether the named method should be intercepted
	Matches(name string) bool
}

// matcherFunc adapts a predicate to the Matcher interface
type matcherFunc func(name string) bool

func (f matcherFunc) Matches(name string) bool {
	return f(name)
}

// MatcherFunc adapts a plain predicate to the Matcher interface
func MatcherFunc(f func(name string) bool) Matcher {
	return matcherFunc(f)
}

// Any matches every method
func Any() Matcher {
	return matcherFunc(func(string) bool { return true })
}

// Named matches a single method by exact name
func Named(name string) Matcher {
	return matcherFunc(func(n string) bool { return n == name })
}

// Prefix matches methods whose name starts with the given prefix
func Prefix(prefix string) Matcher {
	return matcherFunc(func(n string) bool { return strings.HasPrefix(n, prefix) })
}

// Suffix matches methods whose name ends with the given suffix
func Suffix(suffix string) Matcher {
	return matcherFunc(func(n string) bool { return strings.HasSuffix(n, suffix) })
}

// Not inverts a matcher
func Not(m Matcher) Matcher {
	return matcherFunc(func(n string) bool { return !m.Matches(n) })
}

// And matches when every matcher matches
func And(matchers ...Matcher) Matcher {
	return matcherFunc(func(n string) bool {
		for _, m := range matchers {
			if !m.Matches(n) {
				return false
			}
		}
		return true
	})
}

// Or matches when at least one matcher matches
func Or(matchers ...Matcher) Matcher {
	return matcherFunc(func(n string) bool {
		for _, m := range matchers {
			if m.Matches(n) {
				return true
			}
		}
		return false
	})
}
