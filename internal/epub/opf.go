package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
)

// ErrNoManifest is returned when the package document contains no manifest
// element. Without one there is nothing to decode.
var ErrNoManifest = errors.New("package document contains no manifest element")

// conventionalTocIDs are manifest ids that commonly identify the table of
// contents resource when the spine's toc attribute does not.
var conventionalTocIDs = []string{"toc", "ncx", "ncxtoc"}

// opfPackage represents the OPF XML structure.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
	Guide    opfGuide    `xml:"guide"`
}

type opfManifest struct {
	XMLName xml.Name          `xml:"manifest"`
	Items   []opfManifestItem `xml:"item"`
}

type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	XMLName  xml.Name     `xml:"spine"`
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

type opfGuide struct {
	References []opfGuideReference `xml:"reference"`
}

type opfGuideReference struct {
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
	Href  string `xml:"href,attr"`
}

// ReadPackageDocument decodes the package document and populates the book's
// resource index, metadata, guide, spine and cover references.
//
// packagePath is the archive path of the package document itself; all hrefs in
// the document are resolved against its directory. raw holds the resources of
// the archive keyed by path; entries claimed by the manifest move into the
// book's index, unclaimed ones stay behind.
//
// A package document that does not decode, or that has no manifest element,
// is fatal. Dangling references are logged and skipped.
func ReadPackageDocument(data []byte, packagePath string, raw *Resources, book *Book) error {
	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return fmt.Errorf("failed to parse package document: %w", err)
	}
	if pkg.Manifest.XMLName.Local == "" {
		return ErrNoManifest
	}

	resources, idMapping := readManifest(&pkg.Manifest, packagePath, raw)
	book.Resources = resources
	book.Metadata = readMetadata(&pkg.Metadata, pkg.UniqueID)
	book.Guide = readGuide(&pkg.Guide, packagePath, resources)
	book.Spine = readSpine(&pkg.Spine, resources, idMapping)
	readCover(&pkg, packagePath, book)

	// No cover page found anywhere: the first page of the book serves as one.
	if book.CoverPage == nil && len(book.Spine.References) > 0 {
		book.CoverPage = book.Spine.References[0].Resource
	}
	return nil
}

// readManifest claims each manifest item's resource from the raw index,
// assigns its id, media type and properties, and returns the resulting index
// together with the id remap table (declared id -> assigned id). Books
// sometimes use non-identifier ids verbatim in the spine; the remap table
// accommodates them.
func readManifest(manifest *opfManifest, packagePath string, raw *Resources) (*Resources, map[string]string) {
	result := NewResources()
	idMapping := make(map[string]string, len(manifest.Items))
	for _, item := range manifest.Items {
		reference := resolveReference(packagePath, decodeHref(item.Href))
		resource := raw.Remove(reference)
		if resource == nil {
			log.Printf("warning: manifest item %q references resource %q which was not found", item.ID, item.Href)
			continue
		}
		resource.ID = item.ID
		if mediaType, ok := MediaTypeByName(item.MediaType); ok {
			resource.MediaType = mediaType
		}
		if properties := strings.TrimSpace(item.Properties); properties != "" {
			resource.Properties = properties
		}
		result.Add(resource)
		idMapping[item.ID] = resource.ID
	}
	return result, idMapping
}

// readGuide decodes the guide references. Entries of type cover are skipped
// here; cover handling is centralized in readCover.
func readGuide(guide *opfGuide, packagePath string, resources *Resources) Guide {
	var result Guide
	for _, ref := range guide.References {
		if strings.TrimSpace(ref.Href) == "" {
			continue
		}
		href, fragment := splitFragment(ref.Href)
		resource := resources.GetByHref(resolveReference(packagePath, href))
		if resource == nil {
			log.Printf("warning: guide references resource %q which could not be found", ref.Href)
			continue
		}
		if strings.TrimSpace(ref.Type) == "" {
			log.Printf("warning: guide reference %q is missing the type attribute", ref.Href)
			continue
		}
		if strings.EqualFold(ref.Type, GuideTypeCover) {
			continue
		}
		result.References = append(result.References, GuideReference{
			Resource: resource,
			Type:     ref.Type,
			Title:    ref.Title,
			Fragment: fragment,
		})
	}
	return result
}

// readSpine decodes the reading order. Declared idrefs pass through the
// manifest remap table before resolution; an idref absent from the table is
// used as-is. A missing spine element is not fatal: one is generated from the
// resources instead.
func readSpine(spine *opfSpine, resources *Resources, idMapping map[string]string) Spine {
	if spine.XMLName.Local == "" {
		log.Printf("warning: package document has no spine element, generating one from the resources")
		return generateSpineFromResources(resources)
	}
	result := Spine{TocResource: findTableOfContentsResource(spine.Toc, resources)}
	for _, itemRef := range spine.ItemRefs {
		if strings.TrimSpace(itemRef.IDRef) == "" {
			log.Printf("warning: spine itemref with missing or empty idref")
			continue
		}
		id, ok := idMapping[itemRef.IDRef]
		if !ok {
			id = itemRef.IDRef
		}
		resource := resources.GetByIDOrHref(id)
		if resource == nil {
			log.Printf("warning: spine references resource %q which could not be found", id)
			continue
		}
		result.References = append(result.References, SpineReference{
			Resource: resource,
			Linear:   !strings.EqualFold(itemRef.Linear, "no"),
		})
	}
	return result
}

// generateSpineFromResources builds a reading order for a package document
// without a spine element: all XHTML resources in case-insensitive href
// order. The first NCX resource encountered in that order becomes the toc
// resource; later ones do not replace it.
func generateSpineFromResources(resources *Resources) Spine {
	var result Spine
	hrefs := resources.AllHrefs()
	sort.Slice(hrefs, func(i, j int) bool {
		return strings.ToLower(hrefs[i]) < strings.ToLower(hrefs[j])
	})
	for _, href := range hrefs {
		resource := resources.GetByHref(href)
		switch resource.MediaType {
		case MediaTypeNCX:
			if result.TocResource == nil {
				result.TocResource = resource
			}
		case MediaTypeXHTML:
			result.References = append(result.References, SpineReference{
				Resource: resource,
				Linear:   true,
			})
		}
	}
	return result
}

// findTableOfContentsResource resolves the table of contents resource.
// The declared toc id wins; after that the first resource carrying the nav
// property, then a handful of conventional ids tried as id or href, in both
// original and upper case. First match wins.
func findTableOfContentsResource(tocID string, resources *Resources) *Resource {
	if strings.TrimSpace(tocID) != "" {
		if resource := resources.GetByID(tocID); resource != nil {
			return resource
		}
	}
	if resource := resources.FindFirstByProperties("nav"); resource != nil {
		return resource
	}
	for _, id := range conventionalTocIDs {
		if resource := resources.GetByIDOrHref(id); resource != nil {
			return resource
		}
		if resource := resources.GetByIDOrHref(strings.ToUpper(id)); resource != nil {
			return resource
		}
	}
	log.Printf("warning: could not find the table of contents resource: tried id %q, the nav property and the conventional ids %v", tocID, conventionalTocIDs)
	return nil
}

// findCoverHrefs collects candidate cover hrefs from the three places covers
// are declared, in fixed order: the EPUB 2 cover meta, the guide's cover
// reference, the EPUB 3 cover-image manifest property.
func findCoverHrefs(pkg *opfPackage) []string {
	var hrefs []string
	seen := make(map[string]bool)
	add := func(href string) {
		if href == "" || seen[href] {
			return
		}
		seen[href] = true
		hrefs = append(hrefs, href)
	}

	// A meta element with name "cover" carries a manifest id in its content
	// attribute. When no manifest item matches, the content value may itself
	// be an href.
	for _, meta := range pkg.Metadata.Meta {
		if meta.Name != "cover" || strings.TrimSpace(meta.Content) == "" {
			continue
		}
		href := meta.Content
		for _, item := range pkg.Manifest.Items {
			if item.ID == meta.Content && strings.TrimSpace(item.Href) != "" {
				href = item.Href
				break
			}
		}
		add(href)
		break
	}

	for _, ref := range pkg.Guide.References {
		if ref.Type == GuideTypeCover && strings.TrimSpace(ref.Href) != "" {
			add(ref.Href)
			break
		}
	}

	for _, item := range pkg.Manifest.Items {
		if hasPropertyToken(item.Properties, "cover-image") && strings.TrimSpace(item.Href) != "" {
			add(item.Href)
			break
		}
	}
	return hrefs
}

// readCover resolves the cover candidates against the book's resources and
// assigns the cover page (XHTML) and cover image (bitmap). With several
// candidates of the same kind, the last one wins.
func readCover(pkg *opfPackage, packagePath string, book *Book) {
	for _, coverHref := range findCoverHrefs(pkg) {
		resource := book.Resources.GetByHref(resolveReference(packagePath, coverHref))
		if resource == nil {
			log.Printf("warning: cover resource %q not found", coverHref)
			continue
		}
		switch {
		case resource.MediaType == MediaTypeXHTML:
			book.CoverPage = resource
		case resource.MediaType.IsBitmapImage():
			book.CoverImage = resource
		}
	}
}

// hasPropertyToken reports whether the space-separated property list contains
// the exact token.
func hasPropertyToken(properties, token string) bool {
	for _, p := range strings.Fields(properties) {
		if p == token {
			return true
		}
	}
	return false
}
