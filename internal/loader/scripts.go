package loader

import (
	"github.com/diogo/startychat/internal/dom"
	"github.com/diogo/startychat/internal/models"
)

// HighlightClass marks the page title while the pointer is over it.
const HighlightClass = "highlight"

// BasicScripts binds the demo interactions of the header: the greeting
// button and the title highlight.
func BasicScripts(doc *dom.Document) {
	if btn := doc.Query(models.SelectorGreetingBtn); btn != nil {
		btn.On(models.EventClick, func() {
			if msg := doc.Query(models.SelectorGreetingText); msg != nil {
				msg.SetText(models.GreetingText)
			}
		})
	}

	if title := doc.Query(models.SelectorTitle); title != nil {
		title.On(models.EventMouseOver, func() { title.AddClass(HighlightClass) })
		title.On(models.EventMouseOut, func() { title.RemoveClass(HighlightClass) })
	}
}
