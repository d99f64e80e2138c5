package form

import (
	"strings"
	"testing"
)

func validRaw() map[string]string {
	return map[string]string{
		"title":              "A Fresh Headline",
		"excerpt":            "Short summary of the piece.",
		"body":               "The full body of the article goes here.",
		"cover_image_url":    "/images/news_01.png",
		"cover_image_width":  "1200",
		"cover_image_height": "720",
		"cover_image_alt":    "newsroom desk",
		"published":          "true",
	}
}

func TestParseCreate_Valid(t *testing.T) {
	cp, errs := ParseCreate(validRaw())
	if len(errs) != 0 {
		t.Fatalf("errs = %v, want none", errs)
	}
	if cp.Title != "A Fresh Headline" {
		t.Errorf("Title = %q", cp.Title)
	}
	if cp.CoverImageWidth != 1200 || cp.CoverImageHeight != 720 {
		t.Errorf("dimensions = %dx%d, want 1200x720", cp.CoverImageWidth, cp.CoverImageHeight)
	}
	if !cp.Published {
		t.Error("Published = false, want true")
	}
}

func TestParseCreate_MissingTitle(t *testing.T) {
	raw := validRaw()
	delete(raw, "title")

	cp, errs := ParseCreate(raw)
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly one", errs)
	}
	if errs[0].Field != "title" {
		t.Errorf("Field = %q, want %q", errs[0].Field, "title")
	}
	if !strings.Contains(errs[0].Message, "required") {
		t.Errorf("Message = %q, want mention of required", errs[0].Message)
	}
	if cp != (CreatePost{}) {
		t.Errorf("invalid input returned non-zero CreatePost: %+v", cp)
	}
}

func TestParseCreate_ErrorsAreOrdered(t *testing.T) {
	cp, errs := ParseCreate(map[string]string{
		"cover_image_width": "not-a-number",
	})
	if cp != (CreatePost{}) {
		t.Fatalf("cp = %+v, want zero value", cp)
	}
	if len(errs) != 4 {
		t.Fatalf("errs = %v, want 4", errs)
	}
	want := []string{"title", "excerpt", "body", "cover image width"}
	for i, w := range want {
		if errs[i].Field != w {
			t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, w)
		}
	}
}

func TestParseCreate_CoercionFailures(t *testing.T) {
	raw := validRaw()
	raw["cover_image_width"] = "12.5"
	raw["cover_image_height"] = "-1"

	_, errs := ParseCreate(raw)
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want 2", errs)
	}
	if !strings.Contains(errs[0].Message, "whole number") {
		t.Errorf("errs[0] = %q, want whole-number message", errs[0].Message)
	}
	if !strings.Contains(errs[1].Message, "at least 0") {
		t.Errorf("errs[1] = %q, want range message", errs[1].Message)
	}
}

func TestParseCreate_PublishedSpellings(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"on", true},
		{"1", true},
		{"false", false},
		{"off", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		raw := validRaw()
		raw["published"] = tt.in
		cp, errs := ParseCreate(raw)
		if len(errs) != 0 {
			t.Fatalf("published=%q: errs = %v", tt.in, errs)
		}
		if cp.Published != tt.want {
			t.Errorf("published=%q: got %v, want %v", tt.in, cp.Published, tt.want)
		}
	}
}

func TestParseCreate_SanitizesMarkup(t *testing.T) {
	raw := validRaw()
	raw["body"] = `hello <script>alert("x")</script> <b>world</b>`

	cp, errs := ParseCreate(raw)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if strings.Contains(cp.Body, "<script>") {
		t.Errorf("Body still contains script tag: %q", cp.Body)
	}
	if !strings.Contains(cp.Body, "<b>world</b>") {
		t.Errorf("Body lost benign markup: %q", cp.Body)
	}
}

func TestParseCreate_NilMap(t *testing.T) {
	_, errs := ParseCreate(nil)
	if len(errs) == 0 {
		t.Fatal("nil map produced no errors")
	}
}

func TestParseCreate_UnknownKeysIgnored(t *testing.T) {
	raw := validRaw()
	raw["csrf_token"] = "abc"
	raw["utm_source"] = "mail"

	_, errs := ParseCreate(raw)
	if len(errs) != 0 {
		t.Fatalf("errs = %v, want none", errs)
	}
}
