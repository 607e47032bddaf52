package epub

// Semantic guide reference types defined by the OPF guide element.
const (
	GuideTypeCover = "cover"
	GuideTypeTOC   = "toc"
	GuideTypeText  = "text"
)

// GuideReference is a semantic landmark from the package document's guide:
// a pointer at a resource together with a type tag and a display title.
type GuideReference struct {
	Resource *Resource
	Type     string
	Title    string
	Fragment string
}

// Guide is the ordered list of guide references in document order.
// Duplicate types are permitted.
type Guide struct {
	References []GuideReference
}

// SpineReference is one entry in the book's reading order. Non-linear entries
// (linear="no") are auxiliary content readers may skip.
type SpineReference struct {
	Resource *Resource
	Linear   bool
}

// Spine is the linear reading order of the book, plus the resource holding
// the table of contents. TocResource stays nil when no toc could be resolved.
type Spine struct {
	References  []SpineReference
	TocResource *Resource
}

// TOCReference is one node of the table of contents tree. Resource is nil
// when the referenced file is missing from the book, so navigation can still
// display the label.
type TOCReference struct {
	Title    string
	Resource *Resource
	Fragment string
	Children []TOCReference
}

// CompleteHref returns the resolved href of the reference including its
// fragment, or the empty string when the reference is unresolved.
func (r *TOCReference) CompleteHref() string {
	if r.Resource == nil {
		return ""
	}
	if r.Fragment == "" {
		return r.Resource.Href
	}
	return r.Resource.Href + "#" + r.Fragment
}

// TableOfContents owns the tree of TOC references.
type TableOfContents struct {
	References []TOCReference
}

// Size returns the total number of references in the tree.
func (t *TableOfContents) Size() int {
	return countReferences(t.References)
}

func countReferences(refs []TOCReference) int {
	n := len(refs)
	for _, ref := range refs {
		n += countReferences(ref.Children)
	}
	return n
}

// Book is the decoded structural model of an EPUB package. It owns the
// resource index, guide, spine and table of contents; the remaining fields
// are back-references into Resources.
type Book struct {
	Metadata        Metadata
	Resources       *Resources
	Guide           Guide
	Spine           Spine
	TableOfContents TableOfContents

	OpfResource *Resource
	NcxResource *Resource
	CoverPage   *Resource
	CoverImage  *Resource
}
