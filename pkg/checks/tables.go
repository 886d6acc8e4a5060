package checks

import (
	"strings"

	iradix "github.com/hashicorp/go-immutable-radix"
	"golang.org/x/net/html/atom"
)

// Lookup tables shared by all checks. They are built once at package
// initialization and never modified afterwards.
var (
	// deprecatedElements maps obsolete element names to a replacement hint.
	deprecatedElements = newTable(map[string]string{
		"acronym":   "use <abbr> instead",
		"applet":    "use <object> instead",
		"basefont":  "use CSS instead",
		"big":       "use CSS instead",
		"blink":     "use CSS animations instead",
		"center":    "use CSS text-align instead",
		"dir":       "use <ul> instead",
		"font":      "use CSS instead",
		"frame":     "use <iframe> or CSS layout instead",
		"frameset":  "use <iframe> or CSS layout instead",
		"isindex":   "use a <form> with an <input> instead",
		"listing":   "use <pre> and <code> instead",
		"marquee":   "use CSS animations instead",
		"multicol":  "use CSS columns instead",
		"nextid":    "use GUIDs instead",
		"nobr":      "use CSS white-space instead",
		"noembed":   "use <object> instead",
		"noframes":  "remove it",
		"plaintext": "use the text/plain MIME type instead",
		"spacer":    "use CSS instead",
		"strike":    "use <del> or <s> instead",
		"tt":        "use <kbd>, <code> or CSS instead",
		"xmp":       "use <pre> and <code> instead",
	})

	// optionalEndElements may legitimately be left open in HTML.
	optionalEndElements = newTable(map[string]string{
		"html": "", "head": "", "body": "", "p": "", "dt": "", "dd": "",
		"li": "", "option": "", "optgroup": "", "thead": "", "tbody": "",
		"tfoot": "", "tr": "", "th": "", "td": "", "colgroup": "",
		"rb": "", "rt": "", "rtc": "", "rp": "",
	})

	// eventFamilies holds the stems of DOM event names. A handler attribute
	// is "on" followed by a name that starts with one of them, so
	// onpointerdown and onbeforeunload match "pointer" and "before".
	eventFamilies = newTable(map[string]string{
		"abort": "", "after": "", "animation": "", "auxclick": "", "before": "",
		"blur": "", "can": "", "change": "", "click": "", "close": "",
		"context": "", "copy": "", "cut": "", "dblclick": "", "drag": "",
		"drop": "", "durationchange": "", "ended": "", "error": "", "focus": "",
		"formdata": "", "hashchange": "", "input": "", "invalid": "", "key": "",
		"load": "", "message": "", "mouse": "", "offline": "", "online": "",
		"page": "", "paste": "", "pause": "", "play": "", "pointer": "",
		"popstate": "", "progress": "", "ratechange": "", "reset": "", "resize": "",
		"scroll": "", "search": "", "seek": "", "select": "", "show": "",
		"stalled": "", "storage": "", "submit": "", "suspend": "", "timeupdate": "",
		"toggle": "", "touch": "", "transition": "", "unload": "", "volumechange": "",
		"waiting": "", "wheel": "",
	})

	voidElements = map[atom.Atom]bool{
		atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
		atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
		atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
		atom.Track: true, atom.Wbr: true, atom.Keygen: true,
	}
)

func newTable(entries map[string]string) *iradix.Tree {
	txn := iradix.New().Txn()
	for k, v := range entries {
		txn.Insert([]byte(k), v)
	}
	return txn.Commit()
}

// lookup finds name (lowercased) in table.
func lookup(table *iradix.Tree, name string) (string, bool) {
	v, ok := table.Get([]byte(strings.ToLower(name)))
	if !ok {
		return "", false
	}
	return v.(string), true
}

// elementAtom resolves a tag name to its HTML atom, or 0 for unknown and
// namespaced names.
func elementAtom(name string) atom.Atom {
	return atom.Lookup([]byte(strings.ToLower(name)))
}

// isEventHandler reports whether an attribute name is an inline event
// handler such as onclick or onPointerDown.
func isEventHandler(name string) bool {
	name = strings.ToLower(name)
	if !strings.HasPrefix(name, "on") || len(name) == 2 {
		return false
	}
	_, _, ok := eventFamilies.Root().LongestPrefix([]byte(name[2:]))
	return ok
}

func isVoid(name string) bool {
	return voidElements[elementAtom(name)]
}
