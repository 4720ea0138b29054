package render

import "strings"

// markdown renders content with a renderer borrowed from the pool.
func markdown(content string, opts Options) (string, error) {
	r, err := renderers.get(opts)
	if err != nil {
		return "", err
	}
	defer renderers.put(opts, r)

	return r.Render(content)
}

// Reply renders a chat reply, falling back to the raw text when rendering
// fails. Surrounding blank lines added by glamour are trimmed.
func Reply(text string, opts Options) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	out, err := markdown(text, opts)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
