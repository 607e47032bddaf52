package epub

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoTocResource is returned when the table of contents is read from a book
// whose spine never resolved a toc resource.
var ErrNoTocResource = errors.New("book does not contain a table of contents resource")

// ReadTableOfContents decodes the book's table of contents from the resource
// the spine designates. The resource's properties select the format: a value
// starting with "nav" means an EPUB 3 navigation document, anything else the
// legacy NCX form.
//
// References to missing resources are logged and kept with a nil Resource so
// their labels stay visible.
func ReadTableOfContents(book *Book) (TableOfContents, error) {
	tocResource := book.Spine.TocResource
	if tocResource == nil {
		return TableOfContents{}, ErrNoTocResource
	}
	if strings.HasPrefix(strings.ToLower(tocResource.Properties), "nav") {
		return readNavDocument(book, tocResource)
	}
	return readNCXDocument(book, tocResource)
}

// --- legacy NCX strategy ---

type ncxDocument struct {
	XMLName xml.Name  `xml:"ncx"`
	NavMap  ncxNavMap `xml:"navMap"`
}

type ncxNavMap struct {
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

type ncxNavPoint struct {
	Label    ncxNavLabel   `xml:"navLabel"`
	Content  ncxContent    `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

type ncxNavLabel struct {
	Text string `xml:"text"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

// readNCXDocument decodes an NCX navigation map. NCX hrefs are interpreted
// relative to the package document's path, not the NCX file's own directory.
func readNCXDocument(book *Book, tocResource *Resource) (TableOfContents, error) {
	var doc ncxDocument
	if err := xml.Unmarshal(tocResource.Data, &doc); err != nil {
		return TableOfContents{}, fmt.Errorf("failed to parse ncx document %s: %w", tocResource.Href, err)
	}
	opfHref := ""
	if book.OpfResource != nil {
		opfHref = book.OpfResource.Href
	}
	return TableOfContents{
		References: readNavPoints(doc.NavMap.NavPoints, opfHref, book.Resources),
	}, nil
}

// readNavPoints converts navPoint elements into TOC references, recursing
// into nested navPoints in document order.
func readNavPoints(points []ncxNavPoint, opfHref string, resources *Resources) []TOCReference {
	references := make([]TOCReference, 0, len(points))
	for _, point := range points {
		src := decodeHref(strings.TrimSpace(point.Content.Src))
		href, fragment := splitFragment(resolveReference(opfHref, src))
		resource := resources.GetByHref(href)
		if resource == nil {
			log.Printf("warning: resource with href %q in ncx document not found", href)
		}
		references = append(references, TOCReference{
			Title:    strings.TrimSpace(point.Label.Text),
			Resource: resource,
			Fragment: fragment,
			Children: readNavPoints(point.Children, opfHref, resources),
		})
	}
	return references
}

// --- EPUB 3 navigation document strategy ---

// readNavDocument decodes the toc nav element of an EPUB 3 navigation
// document. Unlike NCX, its hrefs resolve against the navigation document's
// own directory.
func readNavDocument(book *Book, tocResource *Resource) (TableOfContents, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(tocResource.Data))
	if err != nil {
		return TableOfContents{}, fmt.Errorf("failed to parse navigation document %s: %w", tocResource.Href, err)
	}
	nav := findElementByTypeAttr(doc, "nav", "toc")
	if nav == nil {
		log.Printf("warning: navigation document %s has no nav element of type toc", tocResource.Href)
		return TableOfContents{References: []TOCReference{}}, nil
	}
	list := nav.Find("ol").First()
	if list.Length() == 0 {
		return TableOfContents{References: []TOCReference{}}, nil
	}
	return TableOfContents{
		References: readNavList(list, tocResource.Href, book.Resources),
	}, nil
}

// findElementByTypeAttr returns the first element with the given tag carrying
// a type attribute equal to value, regardless of the attribute's namespace
// prefix (epub:type, type, ...).
func findElementByTypeAttr(doc *goquery.Document, tag, value string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find(tag).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, attr := range sel.Nodes[0].Attr {
			key := attr.Key
			if idx := strings.LastIndex(key, ":"); idx >= 0 {
				key = key[idx+1:]
			}
			if key == "type" && attr.Val == value {
				found = sel
				return false
			}
		}
		return true
	})
	return found
}

// readNavList converts the list items of an ol element into TOC references.
// Each list item contributes one reference per direct anchor; a nested ol
// inside the same item supplies the children.
func readNavList(list *goquery.Selection, tocHref string, resources *Resources) []TOCReference {
	references := []TOCReference{}
	list.ChildrenFiltered("li").Each(func(_ int, item *goquery.Selection) {
		children := []TOCReference{}
		if nested := item.ChildrenFiltered("ol").First(); nested.Length() > 0 {
			children = readNavList(nested, tocHref, resources)
		}
		item.ChildrenFiltered("a").Each(func(_ int, anchor *goquery.Selection) {
			src := decodeHref(strings.TrimSpace(anchor.AttrOr("href", "")))
			href, fragment := splitFragment(resolveReference(tocHref, src))
			resource := resources.GetByHref(href)
			if resource == nil {
				log.Printf("warning: resource with href %q in navigation document not found", href)
			}
			references = append(references, TOCReference{
				Title:    strings.TrimSpace(anchor.Text()),
				Resource: resource,
				Fragment: fragment,
				Children: children,
			})
		})
	})
	return references
}
