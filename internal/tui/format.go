// Package tui renders rich terminal output for the depot CLI.
package tui

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownOptions configures terminal markdown rendering.
type MarkdownOptions struct {
	// Width is the word wrap width (0 for no wrap).
	Width int
}

// Markdown renders markdown content for the terminal using glamour,
// picking light or dark styling from the terminal background.
func Markdown(content string, opts MarkdownOptions) (string, error) {
	rendererOpts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if opts.Width > 0 {
		rendererOpts = append(rendererOpts, glamour.WithWordWrap(opts.Width))
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}

// Code renders content as a fenced code block with optional syntax
// highlighting.
func Code(content, language string, opts MarkdownOptions) (string, error) {
	return Markdown("```"+language+"\n"+content+"\n```", opts)
}
