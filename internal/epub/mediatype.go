package epub

import (
	"path"
	"strings"
)

// MediaType identifies the declared content type of a resource.
type MediaType string

const (
	MediaTypeXHTML      MediaType = "application/xhtml+xml"
	MediaTypeEPUB       MediaType = "application/epub+zip"
	MediaTypeNCX        MediaType = "application/x-dtbncx+xml"
	MediaTypeJavascript MediaType = "text/javascript"
	MediaTypeCSS        MediaType = "text/css"
	MediaTypeJPG        MediaType = "image/jpeg"
	MediaTypePNG        MediaType = "image/png"
	MediaTypeGIF        MediaType = "image/gif"
	MediaTypeSVG        MediaType = "image/svg+xml"
	MediaTypeTTF        MediaType = "application/x-truetype-font"
	MediaTypeOpenType   MediaType = "application/vnd.ms-opentype"
	MediaTypeWOFF       MediaType = "application/font-woff"
	MediaTypeMP3        MediaType = "audio/mpeg"
	MediaTypeMP4        MediaType = "audio/mp4"
	MediaTypeSMIL       MediaType = "application/smil+xml"
	MediaTypePLS        MediaType = "application/pls+xml"
)

// mediaTypeExtensions maps each known media type to the filename extensions
// it is detected by when no manifest declaration is available.
var mediaTypeExtensions = map[MediaType][]string{
	MediaTypeXHTML:      {".xhtml", ".html", ".htm"},
	MediaTypeEPUB:       {".epub"},
	MediaTypeNCX:        {".ncx"},
	MediaTypeJavascript: {".js"},
	MediaTypeCSS:        {".css"},
	MediaTypeJPG:        {".jpg", ".jpeg"},
	MediaTypePNG:        {".png"},
	MediaTypeGIF:        {".gif"},
	MediaTypeSVG:        {".svg"},
	MediaTypeTTF:        {".ttf"},
	MediaTypeOpenType:   {".otf"},
	MediaTypeWOFF:       {".woff"},
	MediaTypeMP3:        {".mp3"},
	MediaTypeMP4:        {".mp4"},
	MediaTypeSMIL:       {".smil"},
	MediaTypePLS:        {".pls"},
}

// MediaTypeByName looks up a media type by its declared name, e.g. the
// media-type attribute of a manifest item.
func MediaTypeByName(name string) (MediaType, bool) {
	mt := MediaType(strings.TrimSpace(name))
	if _, ok := mediaTypeExtensions[mt]; ok {
		return mt, true
	}
	return "", false
}

// DetermineMediaType guesses the media type of a file from its extension.
// Returns the empty media type when the extension is not recognized.
func DetermineMediaType(filename string) MediaType {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		return ""
	}
	for mt, exts := range mediaTypeExtensions {
		for _, e := range exts {
			if e == ext {
				return mt
			}
		}
	}
	return ""
}

// IsBitmapImage reports whether the media type is a raster image format.
// SVG does not count.
func (m MediaType) IsBitmapImage() bool {
	return m == MediaTypeJPG || m == MediaTypePNG || m == MediaTypeGIF
}
