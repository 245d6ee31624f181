package gallery

import (
	"strings"
	"testing"

	"nanobanana/internal/domain"
)

func TestDefaultContent(t *testing.T) {
	c := Default()
	if len(c.Examples) != 4 || len(c.Testimonials) != 3 {
		t.Fatalf("unexpected content sizes: %d examples, %d testimonials", len(c.Examples), len(c.Testimonials))
	}
	if c.DefaultStyle != domain.StyleRealistic || len(c.Styles) != 5 || len(c.Resolutions) != 3 {
		t.Fatalf("unexpected options: %+v", c)
	}
	if c.MaxUploadMB != 5 || c.HistoryLimit != 10 {
		t.Fatalf("unexpected limits: %+v", c)
	}
	if !strings.Contains(c.Disclaimer, "not affiliated") {
		t.Fatalf("missing disclaimer")
	}
}

func TestDefaultReturnsCopies(t *testing.T) {
	c := Default()
	c.Testimonials[0].Author = "changed"
	c.Styles[0] = "changed"
	if Default().Testimonials[0].Author != "@CreativeCat" || domain.Styles[0] != domain.StylePixar {
		t.Fatalf("Default leaked shared slices")
	}
}

func TestResultFilenameFor(t *testing.T) {
	cases := map[string]string{
		domain.MIMETypePNG:  "nanobanana_ai_edit.png",
		domain.MIMETypeJPEG: "nanobanana_ai_edit.jpg",
		"":                  "nanobanana_ai_edit.png",
	}
	for mime, want := range cases {
		if got := ResultFilenameFor(mime); got != want {
			t.Fatalf("ResultFilenameFor(%q) = %q, want %q", mime, got, want)
		}
	}
}
