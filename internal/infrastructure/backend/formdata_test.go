package backend

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
	"time"
)

// parseForm decodes a built Form back into field name → values.
func parseForm(t *testing.T, f *Form) map[string][]string {
	t.Helper()
	_, params, err := mime.ParseMediaType(f.ContentType())
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	mr := multipart.NewReader(f.Reader(), params["boundary"])
	fields := make(map[string][]string)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		data, _ := io.ReadAll(part)
		fields[part.FormName()] = append(fields[part.FormName()], string(data))
	}
	return fields
}

func TestNewForm_SkipsNilValues(t *testing.T) {
	form, err := NewForm(map[string]any{"name": "Alice", "photo": nil})
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}
	fields := parseForm(t, form)
	if _, ok := fields["photo"]; ok {
		t.Fatalf("nil value must be omitted")
	}
	if got := fields["name"]; len(got) != 1 || got[0] != "Alice" {
		t.Fatalf("unexpected name field: %v", got)
	}
}

func TestNewForm_NestedObjectsAsJSON(t *testing.T) {
	form, err := NewForm(map[string]any{
		"meta": map[string]any{"tier": 2},
	})
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}
	fields := parseForm(t, form)
	if got := fields["meta"][0]; got != `{"tier":2}` {
		t.Fatalf(`expected JSON text, got %q`, got)
	}
	if strings.Contains(fields["meta"][0], "map[") {
		t.Fatalf("Go map rendering leaked into form value")
	}
}

func TestNewForm_SlicesRepeatKey(t *testing.T) {
	form, err := NewForm(map[string]any{"tags": []string{"go", "auth"}})
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}
	fields := parseForm(t, form)
	if len(fields["tags"]) != 2 {
		t.Fatalf("expected two parts for tags, got %v", fields["tags"])
	}
}

func TestNewForm_FileAndTime(t *testing.T) {
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	form, err := NewForm(map[string]any{
		"resume": &FileField{Filename: "cv.pdf", Content: strings.NewReader("%PDF")},
		"since":  when,
	})
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}
	fields := parseForm(t, form)
	if fields["resume"][0] != "%PDF" {
		t.Fatalf("file content lost: %v", fields["resume"])
	}
	if fields["since"][0] != "2026-03-01T12:00:00Z" {
		t.Fatalf("expected RFC3339 time, got %q", fields["since"][0])
	}
}

func TestQueryParams(t *testing.T) {
	got := QueryParams(map[string]any{
		"q":      "go auth",
		"page":   2,
		"skip":   nil,
		"tags":   []string{"a", "b"},
		"filter": map[string]any{"tier": 1},
	})
	want := "filter=" + "%7B%22tier%22%3A1%7D" + "&page=2&q=go+auth&tags%5B%5D=a&tags%5B%5D=b"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestQueryParams_EmptySlice(t *testing.T) {
	if got := QueryParams(map[string]any{"ids": []int{}}); got != "ids%5B%5D=" {
		t.Fatalf("unexpected encoding: %q", got)
	}
}

func TestCleanJSON(t *testing.T) {
	got := CleanJSON(map[string]any{"a": "x", "b": "", "c": nil, "d": 0})
	if _, ok := got["b"]; ok {
		t.Fatalf("empty string must be dropped")
	}
	if _, ok := got["c"]; ok {
		t.Fatalf("nil must be dropped")
	}
	if got["a"] != "x" || got["d"] != 0 {
		t.Fatalf("kept values changed: %v", got)
	}
}
