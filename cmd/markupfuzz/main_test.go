package main

import (
	"math/rand"
	"strings"
	"testing"
)

func TestGeneratedPagesSatisfyInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 1; i <= 300; i++ {
		spec, page := generatePage(i, rng)
		if v := verify(page); len(v) > 0 {
			t.Errorf("page %d (%v): %s\n%q", i, spec.Faults, strings.Join(v, "; "), page)
		}
	}
}

func TestCountBreaks(t *testing.T) {
	tests := map[string]int{
		"":         0,
		"a\nb":     1,
		"a\r\nb":   1,
		"a\rb\n":   2,
		"\r\n\r\n": 2,
		"\n\r":     2,
	}
	for in, want := range tests {
		if got := countBreaks(in); got != want {
			t.Errorf("countBreaks(%q) = %d, want %d", in, got, want)
		}
	}
}
