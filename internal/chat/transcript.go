package chat

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/diogo/startychat/internal/dom"
	"github.com/diogo/startychat/internal/models"
)

// Avatars referenced by the saved markup.
const (
	OutgoingAvatar = "./assets/images/profile/user-1.jpg"
	IncomingAvatar = "./assets/images/starty.png"
)

// Classes of the transcript markup.
const (
	classMessage = "message"
	classLoading = "loading"
	classError   = "error"
	classText    = "text"
	attrID       = "data-id"
	copyIcon     = "content_copy"
	copiedIcon   = "done"
)

// MarshalTranscript renders entries as the chat list markup that is kept in
// local storage.
func MarshalTranscript(entries []models.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		_ = html.Render(&sb, entryNode(e))
	}
	return sb.String()
}

func entryNode(e models.Entry) *html.Node {
	classes := []string{classMessage, string(e.Direction)}
	if e.Loading {
		classes = append(classes, classLoading)
	}
	if e.Errored {
		classes = append(classes, classError)
	}

	msg := element(atom.Div, "class", strings.Join(classes, " "), attrID, e.ID)

	content := element(atom.Div, "class", "message-content")
	avatar, alt := OutgoingAvatar, "User avatar"
	if e.IsIncoming() {
		avatar, alt = IncomingAvatar, "Starty avatar"
	}
	content.AppendChild(element(atom.Img, "class", "avatar", "src", avatar, "alt", alt))

	text := element(atom.P, "class", classText)
	if e.Text != "" {
		text.AppendChild(&html.Node{Type: html.TextNode, Data: e.Text})
	}
	content.AppendChild(text)
	msg.AppendChild(content)

	if e.IsIncoming() {
		icon := element(atom.Span, "class", "icon material-symbols-rounded")
		label := copyIcon
		if e.Copied {
			label = copiedIcon
		}
		icon.AppendChild(&html.Node{Type: html.TextNode, Data: label})
		msg.AppendChild(icon)
	}

	return msg
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// ParseTranscript reads entries back from saved chat list markup. Entries
// without an id, as written by older pages, get a fresh one. A placeholder
// that was still loading when saved comes back as a settled empty entry.
func ParseTranscript(markup string) ([]models.Entry, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, nil
	}

	doc, err := dom.Parse("<html><body>" + markup + "</body></html>")
	if err != nil {
		return nil, err
	}

	var entries []models.Entry
	for _, el := range doc.QueryAll("." + classMessage) {
		var dir models.Direction
		switch {
		case el.HasClass(string(models.Incoming)):
			dir = models.Incoming
		case el.HasClass(string(models.Outgoing)):
			dir = models.Outgoing
		default:
			continue
		}

		entry := models.Entry{
			ID:        el.Attr(attrID),
			Direction: dir,
			Errored:   el.HasClass(classError),
		}
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if text := el.Query("." + classText); text != nil {
			entry.Text = text.TextContent()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
