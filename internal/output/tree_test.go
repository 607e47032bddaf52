package output

import (
	"strings"
	"testing"

	"github.com/eimhee/EpubManager/internal/epub"
)

func TestTOCTreeRender(t *testing.T) {
	ch1 := epub.NewResource("ch1", nil, "text/chapter1.xhtml", epub.MediaTypeXHTML)
	ch2 := epub.NewResource("ch2", nil, "text/chapter2.xhtml", epub.MediaTypeXHTML)

	tree := NewTOCTree("My Book")
	tree.AddReferences([]epub.TOCReference{
		{
			Title:    "Chapter 1",
			Resource: ch1,
			Children: []epub.TOCReference{
				{Title: "Section 1.1", Resource: ch1, Fragment: "s11"},
			},
		},
		{Title: "", Resource: ch2},
	})

	out := tree.Render()
	for _, want := range []string{
		"My Book",
		"Chapter 1  [text/chapter1.xhtml]",
		"Section 1.1  [text/chapter1.xhtml#s11]",
		"(untitled)  [text/chapter2.xhtml]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestTOCTreeDefaultRoot(t *testing.T) {
	tree := NewTOCTree("")
	if out := tree.Render(); !strings.Contains(out, "Table of Contents") {
		t.Errorf("Render() = %q, want default root label", out)
	}
}
