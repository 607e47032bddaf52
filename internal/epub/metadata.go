package epub

// Metadata holds the Dublin Core metadata of the package document.
type Metadata struct {
	Title       string
	Creators    []Creator
	Language    string
	Identifier  string
	Publisher   string
	Date        string
	Description string
	Subjects    []string
	Rights      string
	CoverID     string // EPUB 2 cover image manifest id (from meta name="cover")
}

// Creator is an author, editor or other contributor of the book.
type Creator struct {
	Name string
	Role string // e.g. "aut" for author, "edt" for editor
	Lang string
}

type opfMetadata struct {
	Title       []string        `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator     []opfCreator    `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Language    []string        `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifier  []opfIdentifier `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Publisher   []string        `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Date        []string        `xml:"http://purl.org/dc/elements/1.1/ date"`
	Description []string        `xml:"http://purl.org/dc/elements/1.1/ description"`
	Subject     []string        `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Rights      []string        `xml:"http://purl.org/dc/elements/1.1/ rights"`
	Meta        []opfMeta       `xml:"meta"`
}

type opfCreator struct {
	Name string `xml:",chardata"`
	Role string `xml:"http://www.idpf.org/2007/opf role,attr"`
	Lang string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	ID   string `xml:"id,attr"`
}

type opfIdentifier struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
}

// opfMeta covers both the EPUB 2 name/content form and the EPUB 3
// property/refines form of the meta element.
type opfMeta struct {
	Name     string `xml:"name,attr"`
	Content  string `xml:"content,attr"`
	Value    string `xml:",chardata"`
	Property string `xml:"property,attr"`
	Refines  string `xml:"refines,attr"`
}

// readMetadata extracts the book metadata from the package document. Where
// the format allows repetition, the first occurrence wins, except for the
// identifier where the one referenced by unique-identifier is preferred.
func readMetadata(meta *opfMetadata, uniqueID string) Metadata {
	md := Metadata{}

	if len(meta.Title) > 0 {
		md.Title = meta.Title[0]
	}
	if len(meta.Language) > 0 {
		md.Language = meta.Language[0]
	}
	for _, id := range meta.Identifier {
		if id.ID == uniqueID {
			md.Identifier = id.Value
			break
		}
	}
	if md.Identifier == "" && len(meta.Identifier) > 0 {
		md.Identifier = meta.Identifier[0].Value
	}
	if len(meta.Publisher) > 0 {
		md.Publisher = meta.Publisher[0]
	}
	if len(meta.Date) > 0 {
		md.Date = meta.Date[0]
	}
	if len(meta.Description) > 0 {
		md.Description = meta.Description[0]
	}
	md.Subjects = meta.Subject
	if len(meta.Rights) > 0 {
		md.Rights = meta.Rights[0]
	}

	for _, creator := range meta.Creator {
		md.Creators = append(md.Creators, Creator{
			Name: creator.Name,
			Role: creator.Role,
			Lang: creator.Lang,
		})
	}
	refineCreatorRoles(&md, meta)

	for _, m := range meta.Meta {
		if m.Name == "cover" && m.Content != "" {
			md.CoverID = m.Content
			break
		}
	}
	return md
}

// refineCreatorRoles applies EPUB 3 meta elements that refine creator roles
// via refines="#id" references.
func refineCreatorRoles(md *Metadata, meta *opfMetadata) {
	creatorIndex := make(map[string]int)
	for i, creator := range md.Creators {
		for _, orig := range meta.Creator {
			if orig.Name == creator.Name && orig.ID != "" {
				creatorIndex["#"+orig.ID] = i
				break
			}
		}
	}
	for _, m := range meta.Meta {
		if m.Property != "role" || m.Refines == "" {
			continue
		}
		idx, ok := creatorIndex[m.Refines]
		if !ok {
			continue
		}
		if m.Value != "" {
			md.Creators[idx].Role = m.Value
		} else {
			md.Creators[idx].Role = m.Content
		}
	}
}
