package epub

import "testing"

func TestMediaTypeByName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   MediaType
		wantOK bool
	}{
		{"xhtml", "application/xhtml+xml", MediaTypeXHTML, true},
		{"ncx", "application/x-dtbncx+xml", MediaTypeNCX, true},
		{"with surrounding space", " image/png ", MediaTypePNG, true},
		{"unknown", "application/x-unknown", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MediaTypeByName(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("MediaTypeByName(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDetermineMediaType(t *testing.T) {
	tests := []struct {
		filename string
		want     MediaType
	}{
		{"OEBPS/chapter1.xhtml", MediaTypeXHTML},
		{"chapter2.HTML", MediaTypeXHTML},
		{"toc.ncx", MediaTypeNCX},
		{"images/cover.JPEG", MediaTypeJPG},
		{"style.css", MediaTypeCSS},
		{"fonts/serif.otf", MediaTypeOpenType},
		{"noextension", ""},
		{"archive.unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetermineMediaType(tt.filename); got != tt.want {
				t.Errorf("DetermineMediaType(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestMediaTypeIsBitmapImage(t *testing.T) {
	bitmaps := []MediaType{MediaTypeJPG, MediaTypePNG, MediaTypeGIF}
	for _, mt := range bitmaps {
		if !mt.IsBitmapImage() {
			t.Errorf("%q must count as a bitmap image", mt)
		}
	}
	for _, mt := range []MediaType{MediaTypeSVG, MediaTypeXHTML, MediaTypeCSS, ""} {
		if mt.IsBitmapImage() {
			t.Errorf("%q must not count as a bitmap image", mt)
		}
	}
}
