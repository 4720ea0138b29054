// Package dom holds the page as an HTML node tree that components are mounted
// into and that the chat binds its controls on.
package dom

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	apierrors "github.com/diogo/startychat/internal/errors"
)

// Document is a parsed page. It is safe for concurrent use.
type Document struct {
	mu        sync.RWMutex
	root      *html.Node
	listeners map[*html.Node]map[string][]func()
}

// Parse builds a Document from a full HTML page.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]func()),
	}, nil
}

// Mount replaces the children of the element with id containerID by the
// parsed markup. Listeners bound inside the old content are dropped.
func (d *Document) Mount(containerID, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel, err := compile("#" + containerID)
	if err != nil {
		return err
	}
	found := findAll(d.root, sel, true)
	if len(found) == 0 {
		return fmt.Errorf("%w: %s", apierrors.ErrNoContainer, containerID)
	}
	container := found[0]

	nodes, err := html.ParseFragment(strings.NewReader(markup), container)
	if err != nil {
		return fmt.Errorf("failed to parse fragment for %s: %w", containerID, err)
	}

	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		d.forget(c)
		container.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return nil
}

// Query returns the first element matching selector, or nil.
func (d *Document) Query(selector string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.query(d.root, selector)
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []*Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.queryAll(d.root, selector)
}

// Text returns the trimmed text of the first match, or "".
func (d *Document) Text(selector string) string {
	el := d.Query(selector)
	if el == nil {
		return ""
	}
	return el.Text()
}

// HTML renders the whole document.
func (d *Document) HTML() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var sb strings.Builder
	_ = html.Render(&sb, d.root)
	return sb.String()
}

func (d *Document) query(root *html.Node, selector string) *Element {
	sel, err := compile(selector)
	if err != nil {
		return nil
	}
	found := findAll(root, sel, true)
	if len(found) == 0 {
		return nil
	}
	return &Element{doc: d, node: found[0]}
}

func (d *Document) queryAll(root *html.Node, selector string) []*Element {
	sel, err := compile(selector)
	if err != nil {
		return nil
	}
	found := findAll(root, sel, false)
	out := make([]*Element, len(found))
	for i, n := range found {
		out[i] = &Element{doc: d, node: n}
	}
	return out
}

// forget drops the listeners of n and its subtree. Caller holds d.mu.
func (d *Document) forget(n *html.Node) {
	delete(d.listeners, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

// blockAtoms start a new line in ReadableText.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Br: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.Ul: true, atom.Ol: true, atom.Nav: true, atom.Header: true,
	atom.Section: true, atom.Form: true, atom.Button: true,
}
