package epub

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustParseHTML(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("failed to parse HTML fixture: %v", err)
	}
	return doc
}

// buildNavBook assembles a book the way the package reader leaves it: an OPF
// resource, content resources and a designated toc resource.
func buildNavBook(opfHref, tocHref, tocProperties string, tocData []byte, contentHrefs ...string) *Book {
	book := &Book{
		Resources:   NewResources(),
		OpfResource: NewResource("opf", nil, opfHref, MediaTypeEPUB),
	}
	for i, href := range contentHrefs {
		r := NewResource("", []byte("<html/>"), href, MediaTypeXHTML)
		r.ID = "item" + string(rune('a'+i))
		book.Resources.Add(r)
		book.Spine.References = append(book.Spine.References, SpineReference{Resource: r, Linear: true})
	}
	toc := NewResource("toc", tocData, tocHref, MediaTypeNCX)
	toc.Properties = tocProperties
	book.Resources.Add(toc)
	book.Spine.TocResource = toc
	return book
}

func TestReadTableOfContents_NoTocResource(t *testing.T) {
	book := &Book{Resources: NewResources()}
	_, err := ReadTableOfContents(book)
	if !errors.Is(err, ErrNoTocResource) {
		t.Errorf("ReadTableOfContents() error = %v, want ErrNoTocResource", err)
	}
}

func TestReadTableOfContents_NCX(t *testing.T) {
	ncx := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="np1" playOrder="1">
      <navLabel><text>Chapter 1</text></navLabel>
      <content src="chapter1.html"/>
    </navPoint>
    <navPoint id="np2" playOrder="2">
      <navLabel><text>Chapter 2</text></navLabel>
      <content src="chapter2.html#part2"/>
      <navPoint id="np2.1" playOrder="3">
        <navLabel><text>Chapter 2.1</text></navLabel>
        <content src="chapter2_1.html"/>
      </navPoint>
    </navPoint>
    <navPoint id="np3" playOrder="4">
      <navLabel><text>Missing</text></navLabel>
      <content src="ghost.html"/>
    </navPoint>
  </navMap>
</ncx>`)

	book := buildNavBook("xhtml/content.opf", "xhtml/toc.ncx", "", ncx,
		"xhtml/chapter1.html", "xhtml/chapter2.html", "xhtml/chapter2_1.html")

	toc, err := ReadTableOfContents(book)
	if err != nil {
		t.Fatalf("ReadTableOfContents() error = %v", err)
	}
	if len(toc.References) != 3 {
		t.Fatalf("got %d top-level references, want 3", len(toc.References))
	}

	first := toc.References[0]
	if first.Title != "Chapter 1" {
		t.Errorf("References[0].Title = %q, want %q", first.Title, "Chapter 1")
	}
	if got := first.CompleteHref(); got != "xhtml/chapter1.html" {
		t.Errorf("References[0].CompleteHref() = %q, want %q", got, "xhtml/chapter1.html")
	}

	second := toc.References[1]
	if second.Fragment != "part2" {
		t.Errorf("References[1].Fragment = %q, want %q", second.Fragment, "part2")
	}
	if len(second.Children) != 1 || second.Children[0].Title != "Chapter 2.1" {
		t.Fatalf("References[1].Children = %+v, want the nested navPoint", second.Children)
	}
	if got := second.Children[0].CompleteHref(); got != "xhtml/chapter2_1.html" {
		t.Errorf("nested reference resolved to %q, want %q", got, "xhtml/chapter2_1.html")
	}

	// Unresolvable references keep their label with a nil resource.
	third := toc.References[2]
	if third.Title != "Missing" || third.Resource != nil {
		t.Errorf("References[2] = %+v, want an unresolved reference with its label", third)
	}
	if len(third.Children) != 0 {
		t.Errorf("References[2].Children = %v, want empty", third.Children)
	}
}

func TestReadTableOfContents_NCXResolvesAgainstOPF(t *testing.T) {
	// NCX hrefs resolve against the package document's path. Moving the NCX
	// into a different directory must not change the result.
	ncx := []byte(`<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="np1"><navLabel><text>One</text></navLabel><content src="chapter1.html"/></navPoint>
  </navMap>
</ncx>`)

	for _, tocHref := range []string{"toc.ncx", "xhtml/toc.ncx", "deep/nested/toc.ncx"} {
		t.Run(tocHref, func(t *testing.T) {
			book := buildNavBook("xhtml/content.opf", tocHref, "", ncx, "xhtml/chapter1.html")
			toc, err := ReadTableOfContents(book)
			if err != nil {
				t.Fatalf("ReadTableOfContents() error = %v", err)
			}
			if len(toc.References) != 1 {
				t.Fatalf("got %d references, want 1", len(toc.References))
			}
			if got := toc.References[0].CompleteHref(); got != "xhtml/chapter1.html" {
				t.Errorf("resolved href = %q, want %q regardless of the toc location", got, "xhtml/chapter1.html")
			}
		})
	}
}

func TestReadTableOfContents_NCXPercentEncodedSrc(t *testing.T) {
	ncx := []byte(`<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="np1"><navLabel><text>Spaced</text></navLabel><content src="my%20chapter.html"/></navPoint>
  </navMap>
</ncx>`)

	book := buildNavBook("content.opf", "toc.ncx", "", ncx, "my chapter.html")
	toc, err := ReadTableOfContents(book)
	if err != nil {
		t.Fatalf("ReadTableOfContents() error = %v", err)
	}
	if toc.References[0].Resource == nil {
		t.Error("percent-encoded src did not resolve to its resource")
	}
}

func TestReadTableOfContents_NCXMalformed(t *testing.T) {
	book := buildNavBook("content.opf", "toc.ncx", "", []byte("<ncx><navMap>"), "chapter1.html")
	if _, err := ReadTableOfContents(book); err == nil {
		t.Error("ReadTableOfContents() on truncated NCX must fail")
	}
}

func TestReadTableOfContents_NavDocument(t *testing.T) {
	nav := []byte(`<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
  <nav epub:type="landmarks"><ol><li><a href="ignored.html">Landmark</a></li></ol></nav>
  <nav epub:type="toc">
    <h1>Contents</h1>
    <ol>
      <li><a href="chapter1.html">Chapter 1</a></li>
      <li>
        <a href="chapter2.html#intro">Chapter 2</a>
        <ol>
          <li><a href="chapter2.html#details">Details</a></li>
        </ol>
      </li>
      <li><a href="ghost.html">Missing</a></li>
    </ol>
  </nav>
</body>
</html>`)

	book := buildNavBook("content.opf", "text/nav.xhtml", "nav", nav,
		"text/chapter1.html", "text/chapter2.html")

	toc, err := ReadTableOfContents(book)
	if err != nil {
		t.Fatalf("ReadTableOfContents() error = %v", err)
	}
	if len(toc.References) != 3 {
		t.Fatalf("got %d top-level references, want 3", len(toc.References))
	}

	// Nav-document hrefs resolve against the toc resource's own directory.
	if got := toc.References[0].CompleteHref(); got != "text/chapter1.html" {
		t.Errorf("References[0].CompleteHref() = %q, want %q", got, "text/chapter1.html")
	}

	second := toc.References[1]
	if second.Title != "Chapter 2" || second.Fragment != "intro" {
		t.Errorf("References[1] = %+v, want Chapter 2 with fragment intro", second)
	}
	if len(second.Children) != 1 {
		t.Fatalf("References[1].Children = %+v, want one nested entry", second.Children)
	}
	child := second.Children[0]
	if child.Title != "Details" || child.Fragment != "details" {
		t.Errorf("nested entry = %+v, want Details with fragment", child)
	}
	if child.Resource == nil || child.Resource.Href != "text/chapter2.html" {
		t.Errorf("nested entry resource = %v, want text/chapter2.html", child.Resource)
	}

	third := toc.References[2]
	if third.Resource != nil || third.Title != "Missing" {
		t.Errorf("References[2] = %+v, want an unresolved reference with its label", third)
	}
}

func TestReadTableOfContents_NavDocumentDotSegments(t *testing.T) {
	nav := []byte(`<html xmlns:epub="http://www.idpf.org/2007/ops">
<body>
  <nav epub:type="toc">
    <ol>
      <li><a href="../other/chapter1.html">Elsewhere</a></li>
      <li><a href="./chapter2.html">Here</a></li>
    </ol>
  </nav>
</body>
</html>`)

	book := buildNavBook("content.opf", "text/nav.xhtml", "nav", nav,
		"other/chapter1.html", "text/chapter2.html")

	toc, err := ReadTableOfContents(book)
	if err != nil {
		t.Fatalf("ReadTableOfContents() error = %v", err)
	}
	if got := toc.References[0].CompleteHref(); got != "other/chapter1.html" {
		t.Errorf("parent-relative href resolved to %q, want %q", got, "other/chapter1.html")
	}
	if got := toc.References[1].CompleteHref(); got != "text/chapter2.html" {
		t.Errorf("dot-relative href resolved to %q, want %q", got, "text/chapter2.html")
	}
}

func TestReadTableOfContents_NavPropertySelectsStrategy(t *testing.T) {
	// The same book, with the toc resource flagged nav in mixed case, must go
	// through the navigation-document parser.
	nav := []byte(`<html xmlns:epub="http://www.idpf.org/2007/ops">
<body><nav epub:type="toc"><ol><li><a href="chapter1.html">One</a></li></ol></nav></body>
</html>`)

	book := buildNavBook("opf/content.opf", "nav.xhtml", "NAV scripted", nav, "chapter1.html")
	toc, err := ReadTableOfContents(book)
	if err != nil {
		t.Fatalf("ReadTableOfContents() error = %v", err)
	}
	if len(toc.References) != 1 || toc.References[0].Title != "One" {
		t.Fatalf("toc = %+v, want the nav-document result", toc.References)
	}
	// Resolution against the toc directory (archive root), not the OPF
	// directory, proves the strategy choice.
	if got := toc.References[0].CompleteHref(); got != "chapter1.html" {
		t.Errorf("resolved href = %q, want %q", got, "chapter1.html")
	}
}

func TestReadTableOfContents_NavDocumentWithoutToc(t *testing.T) {
	nav := []byte(`<html><body><nav epub:type="landmarks"><ol><li><a href="x.html">X</a></li></ol></nav></body></html>`)
	book := buildNavBook("content.opf", "nav.xhtml", "nav", nav, "x.html")
	toc, err := ReadTableOfContents(book)
	if err != nil {
		t.Fatalf("ReadTableOfContents() error = %v", err)
	}
	if len(toc.References) != 0 {
		t.Errorf("toc = %+v, want empty when no toc nav exists", toc.References)
	}
}

func TestFindElementByTypeAttr(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "epub-prefixed type attribute",
			html: `<html><body><nav epub:type="toc"></nav></body></html>`,
			want: true,
		},
		{
			name: "bare type attribute",
			html: `<html><body><nav type="toc"></nav></body></html>`,
			want: true,
		},
		{
			name: "wrong value",
			html: `<html><body><nav epub:type="landmarks"></nav></body></html>`,
			want: false,
		},
		{
			name: "no nav element",
			html: `<html><body><div type="toc"></div></body></html>`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParseHTML(t, tt.html)
			got := findElementByTypeAttr(doc, "nav", "toc")
			if (got != nil) != tt.want {
				t.Errorf("findElementByTypeAttr() found = %v, want %v", got != nil, tt.want)
			}
		})
	}
}
