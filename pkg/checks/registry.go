// Package checks holds the node visitors run against every file: the
// metrics visitor and a small set of structural, accessibility and
// security rules.
package checks

import (
	"sort"

	"github.com/adammathes/htmlverify/pkg/report"
	"github.com/adammathes/htmlverify/pkg/visitor"
)

// Rule keys.
const (
	RuleUnclosedTag        = "HTML-UNCLOSED"
	RuleOrphanEndTag       = "HTML-ORPHAN-CLOSE"
	RuleDoctype            = "HTML-DOCTYPE"
	RuleDeprecatedElement  = "HTML-DEPRECATED"
	RuleImageAlt           = "A11Y-IMG-ALT"
	RuleInlineEventHandler = "SEC-INLINE-HANDLER"
)

// Rule describes a check and builds fresh instances of it. Visitors hold
// per-file state, so every file gets its own.
type Rule struct {
	Key         string
	Severity    report.Severity
	Description string
	New         func() visitor.Visitor
}

var rules = []Rule{
	{RuleUnclosedTag, report.Error, "Start tags must be closed",
		func() visitor.Visitor { return &UnclosedTag{} }},
	{RuleOrphanEndTag, report.Warning, "End tags must close an open element",
		func() visitor.Visitor { return &OrphanEndTag{} }},
	{RuleDoctype, report.Warning, "HTML pages must start with a <!DOCTYPE>",
		func() visitor.Visitor { return &DoctypePresence{} }},
	{RuleDeprecatedElement, report.Warning, "Deprecated elements should not be used",
		func() visitor.Visitor { return &DeprecatedElement{} }},
	{RuleImageAlt, report.Warning, "Images must have a text alternative",
		func() visitor.Visitor { return &ImageAlt{} }},
	{RuleInlineEventHandler, report.Warning, "Event handlers should not be inlined",
		func() visitor.Visitor { return &InlineEventHandler{} }},
}

// Rules returns every known rule sorted by key.
func Rules() []Rule {
	out := append([]Rule(nil), rules...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Lookup returns the rule with the given key.
func Lookup(key string) (Rule, bool) {
	for _, r := range rules {
		if r.Key == key {
			return r, true
		}
	}
	return Rule{}, false
}

// Visitors builds the metrics visitor followed by a fresh instance of every
// rule not listed in disabled.
func Visitors(disabled map[string]bool) []visitor.Visitor {
	out := []visitor.Visitor{&Metrics{}}
	for _, r := range rules {
		if !disabled[r.Key] {
			out = append(out, r.New())
		}
	}
	return out
}
