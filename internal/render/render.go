package render

// Markdown renders content for terminal display using a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.borrow(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, r)

	return r.Render(content)
}

// Reply renders a bot reply, falling back to the raw text when the style
// cannot be loaded or the content does not render.
func Reply(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return out
}
