package epub

// Resources indexes the resources of a book by href and, once the manifest
// has assigned them, by id. Insertion order is preserved: spine generation and
// property lookups depend on it.
//
// Identifier collisions are not rejected; the last resource added under an id
// wins, mirroring what permissive real-world readers do.
type Resources struct {
	byHref map[string]*Resource
	byID   map[string]*Resource
	hrefs  []string
}

// NewResources creates an empty resource index.
func NewResources() *Resources {
	return &Resources{
		byHref: make(map[string]*Resource),
		byID:   make(map[string]*Resource),
	}
}

// Add indexes a resource by its href, and by its id when one is assigned.
func (rs *Resources) Add(r *Resource) {
	if r == nil {
		return
	}
	if _, ok := rs.byHref[r.Href]; !ok {
		rs.hrefs = append(rs.hrefs, r.Href)
	}
	rs.byHref[r.Href] = r
	if r.ID != "" {
		rs.byID[r.ID] = r
	}
}

// Remove removes and returns the resource with the given href, or nil when no
// such resource exists.
func (rs *Resources) Remove(href string) *Resource {
	r, ok := rs.byHref[href]
	if !ok {
		return nil
	}
	delete(rs.byHref, href)
	if r.ID != "" && rs.byID[r.ID] == r {
		delete(rs.byID, r.ID)
	}
	for i, h := range rs.hrefs {
		if h == href {
			rs.hrefs = append(rs.hrefs[:i], rs.hrefs[i+1:]...)
			break
		}
	}
	return r
}

// GetByID returns the resource with the given id, or nil.
func (rs *Resources) GetByID(id string) *Resource {
	return rs.byID[id]
}

// GetByHref returns the resource with the given href, or nil.
func (rs *Resources) GetByHref(href string) *Resource {
	return rs.byHref[href]
}

// GetByIDOrHref tries the key as an id first and falls back to treating it as
// an href. Spine and toc references sometimes use raw paths as pseudo-ids.
func (rs *Resources) GetByIDOrHref(key string) *Resource {
	if r := rs.byID[key]; r != nil {
		return r
	}
	return rs.byHref[key]
}

// FindFirstByProperties returns the first resource, in insertion order, whose
// properties contain a token starting with the given token (case-insensitive).
func (rs *Resources) FindFirstByProperties(token string) *Resource {
	for _, href := range rs.hrefs {
		if r := rs.byHref[href]; r != nil && r.hasPropertyPrefix(token) {
			return r
		}
	}
	return nil
}

// AllHrefs returns the hrefs of all resources in insertion order. Callers that
// need a particular order sort the result themselves.
func (rs *Resources) AllHrefs() []string {
	hrefs := make([]string, len(rs.hrefs))
	copy(hrefs, rs.hrefs)
	return hrefs
}

// All returns all resources in insertion order.
func (rs *Resources) All() []*Resource {
	all := make([]*Resource, 0, len(rs.hrefs))
	for _, href := range rs.hrefs {
		all = append(all, rs.byHref[href])
	}
	return all
}

// Len returns the number of indexed resources.
func (rs *Resources) Len() int {
	return len(rs.hrefs)
}
