package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element is a handle on one node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Tag returns the element name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Query returns the first descendant matching selector, or nil.
func (e *Element) Query(selector string) *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.doc.query(e.node, selector)
}

// QueryAll returns every descendant matching selector.
func (e *Element) QueryAll(selector string) []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.doc.queryAll(e.node, selector)
}

// Text returns the concatenated, trimmed text content.
func (e *Element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	var sb strings.Builder
	textContent(&sb, e.node)
	return strings.TrimSpace(sb.String())
}

// TextContent returns the concatenated text exactly as stored, whitespace
// included.
func (e *Element) TextContent() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	var sb strings.Builder
	textContent(&sb, e.node)
	return sb.String()
}

// ReadableText returns the text with one line per block element and
// collapsed whitespace, for display outside a browser.
func (e *Element) ReadableText() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	var sb strings.Builder
	readable(&sb, e.node)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the children by a single text node.
func (e *Element) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.doc.forget(c)
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Attr returns the attribute value, or "".
func (e *Element) Attr(key string) string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return attr(e.node, key)
}

// SetAttr sets or adds an attribute.
func (e *Element) SetAttr(key, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, key, value)
}

// HasClass reports whether class is in the class list.
func (e *Element) HasClass(class string) bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return hasClass(e.node, class)
}

// AddClass adds class if absent.
func (e *Element) AddClass(class string) {
	e.ToggleClassTo(class, true)
}

// RemoveClass removes class if present.
func (e *Element) RemoveClass(class string) {
	e.ToggleClassTo(class, false)
}

// ToggleClass flips class and reports whether it is now present.
func (e *Element) ToggleClass(class string) bool {
	on := !e.HasClass(class)
	e.ToggleClassTo(class, on)
	return on
}

// ToggleClassTo forces class on or off.
func (e *Element) ToggleClassTo(class string, on bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	list := classes(e.node)
	out := list[:0]
	for _, c := range list {
		if c != class {
			out = append(out, c)
		}
	}
	if on {
		out = append(out, class)
	}
	setAttr(e.node, "class", strings.Join(out, " "))
}

// InnerHTML renders the children.
func (e *Element) InnerHTML() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	var sb strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// On registers fn for event on this element.
func (e *Element) On(event string, fn func()) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	byEvent, ok := e.doc.listeners[e.node]
	if !ok {
		byEvent = make(map[string][]func())
		e.doc.listeners[e.node] = byEvent
	}
	byEvent[event] = append(byEvent[event], fn)
}

// Dispatch runs the listeners for event in registration order and returns
// how many ran. Listeners run without the document lock held.
func (e *Element) Dispatch(event string) int {
	e.doc.mu.RLock()
	handlers := append([]func(){}, e.doc.listeners[e.node][event]...)
	e.doc.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
	return len(handlers)
}

func textContent(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContent(sb, c)
	}
}

func readable(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}

	block := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
	if block {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		readable(sb, c)
	}
	if block {
		sb.WriteString("\n")
	}
}

func setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}
