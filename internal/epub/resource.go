package epub

import "strings"

// Resource is a single file from the EPUB archive: a chapter, an image, a
// stylesheet, the package document itself. A resource is created from the raw
// archive entry with only its href and data set; the package reader later
// assigns its manifest id, declared media type and property tokens.
type Resource struct {
	ID         string
	Href       string
	Data       []byte
	MediaType  MediaType
	Properties string
}

// NewResource creates a fully specified resource.
func NewResource(id string, data []byte, href string, mediaType MediaType) *Resource {
	return &Resource{
		ID:        id,
		Href:      href,
		Data:      data,
		MediaType: mediaType,
	}
}

// newArchiveResource creates a resource for a raw archive entry, guessing the
// media type from the filename. The manifest may overwrite the guess.
func newArchiveResource(href string, data []byte) *Resource {
	return &Resource{
		Href:      href,
		Data:      data,
		MediaType: DetermineMediaType(href),
	}
}

// hasPropertyPrefix reports whether any of the resource's property tokens
// starts with the given token, ignoring case.
func (r *Resource) hasPropertyPrefix(token string) bool {
	token = strings.ToLower(token)
	for _, p := range strings.Fields(r.Properties) {
		if strings.HasPrefix(strings.ToLower(p), token) {
			return true
		}
	}
	return false
}
