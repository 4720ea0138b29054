package dom

import (
	"fmt"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// compiled caches selectors by their source text. The page queries the same
// handful of selectors on every render.
var compiled sync.Map

func compile(s string) (cascadia.Sel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty selector")
	}
	if sel, ok := compiled.Load(s); ok {
		return sel.(cascadia.Sel), nil
	}
	sel, err := cascadia.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", s, err)
	}
	compiled.Store(s, sel)
	return sel, nil
}

// findAll returns the descendants of root matching sel in document order.
func findAll(root *html.Node, sel cascadia.Sel, first bool) []*html.Node {
	if first {
		if n := cascadia.Query(root, sel); n != nil {
			return []*html.Node{n}
		}
		return nil
	}
	return cascadia.QueryAll(root, sel)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}
