package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"
)

// FileField marks a form value as a file upload.
type FileField struct {
	Filename string
	Content  io.Reader
}

// Form is a finished multipart payload ready to be sent by the Client.
type Form struct {
	buf         bytes.Buffer
	contentType string
}

// Reader returns the encoded multipart body.
func (f *Form) Reader() io.Reader { return &f.buf }

// ContentType returns the multipart content type including its boundary.
func (f *Form) ContentType() string { return f.contentType }

// NewForm builds a multipart form from a field map. Nil values are skipped,
// slices repeat the key per element, times are RFC 3339, and maps or structs
// are serialised as JSON text rather than their Go string representation.
// Keys are written in sorted order so the payload is deterministic.
func NewForm(fields map[string]any) (*Form, error) {
	form := &Form{}
	w := multipart.NewWriter(&form.buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := appendField(w, key, fields[key]); err != nil {
			return nil, fmt.Errorf("form field %q: %w", key, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	form.contentType = w.FormDataContentType()
	return form, nil
}

func appendField(w *multipart.Writer, key string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return w.WriteField(key, v)
	case []byte:
		return w.WriteField(key, string(v))
	case *FileField:
		fw, err := w.CreateFormFile(key, v.Filename)
		if err != nil {
			return err
		}
		_, err = io.Copy(fw, v.Content)
		return err
	case time.Time:
		return w.WriteField(key, v.Format(time.RFC3339))
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return w.WriteField(key, fmt.Sprint(v))
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			item := rv.Index(i).Interface()
			if item == nil {
				continue
			}
			if err := appendField(w, key, item); err != nil {
				return err
			}
		}
		return nil
	}

	// Maps and structs become JSON text, never fmt's "map[...]" rendering.
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return w.WriteField(key, string(b))
}

// QueryParams encodes a parameter map as a query string. Nil values are
// dropped, slices use bracket notation, and keys are sorted.
func QueryParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		value := params[key]
		if value == nil {
			continue
		}

		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			if rv.Len() == 0 {
				parts = append(parts, url.QueryEscape(key)+"[]=")
				continue
			}
			for i := 0; i < rv.Len(); i++ {
				item := rv.Index(i).Interface()
				if item == nil {
					continue
				}
				parts = append(parts, url.QueryEscape(key)+"[]="+url.QueryEscape(queryValue(item)))
			}
			continue
		}

		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(queryValue(value)))
	}
	return strings.Join(parts, "&")
}

func queryValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct {
		if b, err := json.Marshal(value); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(value)
}

// CleanJSON returns a copy of data without nil or empty-string values.
func CleanJSON(data map[string]any) map[string]any {
	cleaned := make(map[string]any, len(data))
	for k, v := range data {
		if v == nil || v == "" {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
