package output

import (
	"github.com/disiqueira/gotree/v3"

	"github.com/eimhee/EpubManager/internal/epub"
)

// TOCTree renders a table of contents as a textual tree.
type TOCTree struct {
	tree gotree.Tree
}

// NewTOCTree creates a tree with the given root label, typically the book
// title.
func NewTOCTree(rootLabel string) TOCTree {
	if rootLabel == "" {
		rootLabel = "Table of Contents"
	}
	return TOCTree{tree: gotree.New(rootLabel)}
}

// AddReferences adds a level of TOC references and their children.
func (t TOCTree) AddReferences(references []epub.TOCReference) {
	addReferences(t.tree, references)
}

func addReferences(node gotree.Tree, references []epub.TOCReference) {
	for _, ref := range references {
		label := ref.Title
		if label == "" {
			label = "(untitled)"
		}
		if href := ref.CompleteHref(); href != "" {
			label += "  [" + href + "]"
		}
		child := node.Add(label)
		addReferences(child, ref.Children)
	}
}

// Render returns the printable tree.
func (t TOCTree) Render() string {
	return t.tree.Print()
}
