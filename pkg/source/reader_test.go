package source

import (
	"bytes"
	"strings"
	"testing"
)

func TestPopTracksLineAndColumn(t *testing.T) {
	r := FromString("ab\ncd\r\ne\rf")

	tests := []struct {
		want rune
		line int
		col  int
	}{
		{'a', 1, 2},
		{'b', 1, 3},
		{'\n', 2, 1},
		{'c', 2, 2},
		{'d', 2, 3},
		{'\r', 2, 4},
		{'\n', 3, 1},
		{'e', 3, 2},
		{'\r', 4, 1},
		{'f', 4, 2},
	}
	for i, tt := range tests {
		got := r.Pop()
		if got != tt.want {
			t.Fatalf("pop %d: got %q, want %q", i, got, tt.want)
		}
		p := r.Position()
		if p.Line != tt.line || p.Column != tt.col {
			t.Errorf("pop %d (%q): position %d:%d, want %d:%d", i, got, p.Line, p.Column, tt.line, tt.col)
		}
	}
	if r.Pop() != EOF {
		t.Error("expected EOF after last character")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	r := FromString("<!--x")
	if r.PeekN(4) != "<!--" {
		t.Errorf("PeekN(4) = %q", r.PeekN(4))
	}
	if r.PeekN(10) != "<!--x" {
		t.Errorf("PeekN past end = %q", r.PeekN(10))
	}
	if r.Position().Offset != 0 {
		t.Error("peek advanced the reader")
	}
	if !r.HasPrefix("<!-") || r.HasPrefix("<!x") {
		t.Error("HasPrefix mismatch")
	}
	if !FromString("<!doctype html>").HasPrefixFold("<!DOCTYPE") {
		t.Error("HasPrefixFold should ignore case")
	}
}

func TestPopToStopsBeforeMatch(t *testing.T) {
	r := FromString("hello <b>")
	var sb strings.Builder
	n := r.PopTo(StopAt('<'), &sb)
	if sb.String() != "hello " || n != 6 {
		t.Errorf("PopTo = %q (%d)", sb.String(), n)
	}
	if r.Peek() != '<' {
		t.Errorf("terminator was consumed, next is %q", r.Peek())
	}
}

func TestPopToWithoutMatchConsumesRest(t *testing.T) {
	r := FromString("no terminator here")
	var sb strings.Builder
	r.PopTo(StopAt('<'), &sb)
	if sb.String() != "no terminator here" {
		t.Errorf("got %q", sb.String())
	}
	if !r.AtEOF() {
		t.Error("expected reader at EOF")
	}
}

func TestStopBefore(t *testing.T) {
	r := FromString("a -- b --> c")
	var sb strings.Builder
	r.PopTo(StopBefore(r, "-->"), &sb)
	if sb.String() != "a -- b " {
		t.Errorf("got %q", sb.String())
	}
}

func TestNewDecodesCharset(t *testing.T) {
	// "café" in ISO-8859-1
	data := []byte{'c', 'a', 'f', 0xe9}
	r, err := New(bytes.NewReader(data), "iso-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.PeekN(10); got != "café" {
		t.Errorf("decoded %q", got)
	}
}

func TestNewBOMOverridesCharset(t *testing.T) {
	data := append([]byte{0xef, 0xbb, 0xbf}, []byte("<p>é</p>")...)
	r, err := New(bytes.NewReader(data), "windows-1252")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.PeekN(20); got != "<p>é</p>" {
		t.Errorf("decoded %q", got)
	}
}

func TestNewUnknownCharset(t *testing.T) {
	if _, err := New(strings.NewReader("x"), "no-such-charset"); err == nil {
		t.Error("expected error for unknown charset")
	}
}
