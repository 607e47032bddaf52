package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

var (
	ErrInvalidMimetype    = errors.New("invalid mimetype: must be 'application/epub+zip'")
	ErrMimetypeCompressed = errors.New("mimetype must not be compressed")
	ErrMimetypeNotFound   = errors.New("mimetype file not found")
	ErrContainerNotFound  = errors.New("META-INF/container.xml not found")
	ErrOPFPathNotFound    = errors.New("OPF path not found in container.xml")
)

// Reader provides access to the contents of an EPUB archive and decodes them
// into a Book.
type Reader struct {
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	opfPath   string
}

// ociContainer is the structure of META-INF/container.xml.
type ociContainer struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// Open opens an EPUB file and validates its container structure.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open EPUB: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File),
	}
	for _, f := range zr.File {
		r.files[normalizePath(f.Name)] = f
	}

	if err := r.validateMimetype(); err != nil {
		zr.Close()
		return nil, err
	}
	if err := r.parseContainer(); err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the underlying archive.
func (r *Reader) Close() error {
	return r.zipReader.Close()
}

// OPFPath returns the archive path of the package document.
func (r *Reader) OPFPath() string {
	return r.opfPath
}

// ReadFile returns the contents of a file in the archive.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	f, ok := r.files[normalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReadBook decodes the archive into a Book: the raw entries populate a
// resource index keyed by path, the package document distributes them over
// manifest, guide, spine and cover, and the designated toc resource yields
// the table of contents.
//
// Issues with individual entries are logged and skipped; only an unreadable
// archive or an undecodable package document fail the read as a whole.
func (r *Reader) ReadBook() (*Book, error) {
	raw := NewResources()
	var opfResource *Resource
	for _, f := range r.zipReader.File {
		name := normalizePath(f.Name)
		if name == "mimetype" || strings.HasPrefix(name, "META-INF/") || f.FileInfo().IsDir() {
			continue
		}
		data, err := r.ReadFile(name)
		if err != nil {
			return nil, err
		}
		resource := newArchiveResource(name, data)
		if name == r.opfPath {
			opfResource = resource
			continue
		}
		raw.Add(resource)
	}
	if opfResource == nil {
		return nil, fmt.Errorf("package document %q not found in archive", r.opfPath)
	}

	book := &Book{OpfResource: opfResource}
	if err := ReadPackageDocument(opfResource.Data, opfResource.Href, raw, book); err != nil {
		return nil, err
	}

	// Navigation depends on the resolved spine. An unresolved toc resource
	// was already logged during the package read; the toc stays empty then.
	if book.Spine.TocResource != nil {
		book.NcxResource = book.Spine.TocResource
		toc, err := ReadTableOfContents(book)
		if err != nil {
			log.Printf("warning: failed to read the table of contents: %v", err)
		} else {
			book.TableOfContents = toc
		}
	}
	return book, nil
}

// validateMimetype checks that the mimetype entry exists, is stored
// uncompressed and declares the EPUB media type.
func (r *Reader) validateMimetype() error {
	f, ok := r.files["mimetype"]
	if !ok {
		return ErrMimetypeNotFound
	}
	if f.Method != zip.Store {
		return ErrMimetypeCompressed
	}
	content, err := r.ReadFile("mimetype")
	if err != nil {
		return fmt.Errorf("failed to read mimetype: %w", err)
	}
	if MediaType(content) != MediaTypeEPUB {
		return ErrInvalidMimetype
	}
	return nil
}

// parseContainer extracts the package document path from container.xml.
func (r *Reader) parseContainer() error {
	content, err := r.ReadFile("META-INF/container.xml")
	if err != nil {
		return ErrContainerNotFound
	}
	var c ociContainer
	if err := xml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("failed to parse container.xml: %w", err)
	}
	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			r.opfPath = normalizePath(rf.FullPath)
			return nil
		}
	}
	if len(c.Rootfiles.Rootfile) > 0 {
		r.opfPath = normalizePath(c.Rootfiles.Rootfile[0].FullPath)
		return nil
	}
	return ErrOPFPathNotFound
}

// normalizePath strips a leading "./" from archive paths.
func normalizePath(path string) string {
	return strings.TrimPrefix(path, "./")
}
