// Package pattern holds the ordered token recognizers and the per-character
// class dispatch table built from them.
//
// A Registry is immutable once NewRegistry returns, so one value can serve any
// number of concurrent tokenization calls.
package pattern

import (
	"regexp"
	"sync"

	"github.com/msarson/Clarion-Extension-sub003/pkg/charclass"
	"github.com/msarson/Clarion-Extension-sub003/pkg/token"
)

// Rule recognizes one token kind at the start of the remaining line text.
type Rule struct {
	Kind token.Kind
	// Name identifies the rule in tests and logs; several rules may share a Kind.
	Name string
	// Starts lists the character classes a match can begin with.
	Starts []charclass.Class
	// LineStart restricts the rule to column 0.
	LineStart bool
	// Source is the regular expression; it must be anchored with ^.
	Source string
	// Group is the capture group holding the token text; 0 is the whole match.
	Group int

	re       *regexp.Regexp
	priority int
}

// Priority is the rule's position in the registry; lower wins.
func (r Rule) Priority() int {
	return r.priority
}

// Match returns the token text if the rule matches at the start of rest.
func (r Rule) Match(rest string) (string, bool) {
	loc := r.re.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	start, end := loc[2*r.Group], loc[2*r.Group+1]
	if start != 0 || end <= start {
		return "", false
	}
	return rest[start:end], true
}

type dispatch struct {
	anywhere  []Rule
	lineStart []Rule
}

// Registry is the frozen rule table.
type Registry struct {
	rules   []Rule
	byClass [charclass.NumClasses]dispatch
}

// NewRegistry compiles the rule table and builds the class dispatch.
func NewRegistry() *Registry {
	return newRegistry(definitions())
}

func newRegistry(defs []Rule) *Registry {
	reg := &Registry{rules: make([]Rule, len(defs))}

	for i, def := range defs {
		def.re = regexp.MustCompile(def.Source)
		def.priority = i
		reg.rules[i] = def
	}

	for _, rule := range reg.rules {
		for _, class := range rule.Starts {
			d := &reg.byClass[class]
			d.lineStart = append(d.lineStart, rule)
			if !rule.LineStart {
				d.anywhere = append(d.anywhere, rule)
			}
		}
	}

	return reg
}

var shared = sync.OnceValue(NewRegistry)

// Shared returns a process-wide registry, built on first use.
func Shared() *Registry {
	return shared()
}

// Candidates returns the rules that may match a character of class c, in
// priority order. atLineStart admits rules restricted to column 0. The
// returned slice is shared and must not be modified.
func (r *Registry) Candidates(c charclass.Class, atLineStart bool) []Rule {
	if c >= charclass.NumClasses {
		return nil
	}
	if atLineStart {
		return r.byClass[c].lineStart
	}
	return r.byClass[c].anywhere
}

// Rules returns a copy of the full table in priority order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Rule returns the rule with the given name.
func (r *Registry) Rule(name string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}
