package domain

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	bm := NewBookmark("The Go Blog", "https://go.dev/blog", []string{"golang", "blog"})

	got := bm.Render()
	want := "TITLE: The Go Blog\nLINK: https://go.dev/blog\nTAGS: [golang, blog, ...]"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderCapsTags(t *testing.T) {
	tags := []string{"one", "two", "three", "four", "five", "six", "seven"}
	bm := NewBookmark("T", "https://example.com", tags)

	got := bm.Render()
	if strings.Contains(got, "six") || strings.Contains(got, "seven") {
		t.Errorf("Render() shows more than %d tags: %q", MaxTagsPrint, got)
	}
	if !strings.Contains(got, "[one, two, three, four, five, ...]") {
		t.Errorf("Render() tag section wrong: %q", got)
	}
}

func TestResponse(t *testing.T) {
	if resp := OK("fine"); resp.IsError() || resp.Message != "fine" {
		t.Errorf("OK() = %+v", resp)
	}
	if resp := Err("broken"); !resp.IsError() || resp.Message != "broken" {
		t.Errorf("Err() = %+v", resp)
	}
}
