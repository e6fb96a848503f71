package tui

import (
	"strings"
	"testing"
)

func TestMarkdownRendersContent(t *testing.T) {
	out, err := Markdown("# Title\n\nbody text", MarkdownOptions{Width: 40})
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "body text") {
		t.Errorf("rendered output missing content:\n%s", out)
	}
}

func TestCodeWrapsInFence(t *testing.T) {
	out, err := Code("a := 1", "go", MarkdownOptions{})
	if err != nil {
		t.Fatalf("Code failed: %v", err)
	}
	if !strings.Contains(out, "a := 1") {
		t.Errorf("rendered output missing code:\n%s", out)
	}
}
