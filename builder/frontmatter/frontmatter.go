// Package frontmatter parses the YAML metadata block that prefaces every
// content page and exposes the fields the site tooling relies on.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnterminated is returned when an opening fence has no closing fence.
	ErrUnterminated = errors.New("frontmatter: unterminated metadata block")
)

var delimiter = []byte("---")

// dateLayouts are accepted for the date field. RFC3339 carries the timezone
// offset; the bare date form is allowed for older pages.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-07:00",
	"2006-01-02",
}

// Metadata holds the typed frontmatter fields of a page.
type Metadata struct {
	Layout      string    `yaml:"layout"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Keywords    string    `yaml:"keywords"`
	Date        time.Time `yaml:"-"`
	Draft       bool      `yaml:"draft"`
}

// KeywordList splits the comma-separated keywords field into trimmed terms.
func (m *Metadata) KeywordList() []string {
	if m.Keywords == "" {
		return nil
	}
	parts := strings.Split(m.Keywords, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Split separates a document into its frontmatter block and body. A document
// without a leading fence has no frontmatter; one with an opening fence but
// no closing fence is an error.
func Split(src []byte) (fm, body []byte, err error) {
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(src, delimiter) {
		return nil, src, nil
	}

	rest := src[len(delimiter):]
	if len(rest) > 0 && rest[0] != '\n' {
		// Not a fence (e.g. "---foo"), treat as plain body.
		return nil, src, nil
	}

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, nil, ErrUnterminated
	}

	fm = rest[1 : end+1]
	body = rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\n"))
	return fm, body, nil
}

// Parse splits src and decodes the frontmatter into typed Metadata. The raw
// map is returned alongside so callers can reach unknown keys.
func Parse(src []byte) (*Metadata, map[string]interface{}, []byte, error) {
	fm, body, err := Split(src)
	if err != nil {
		return nil, nil, nil, err
	}

	meta := &Metadata{}
	raw := map[string]interface{}{}
	if len(fm) == 0 {
		return meta, raw, body, nil
	}

	if err := yaml.Unmarshal(fm, &raw); err != nil {
		return nil, nil, nil, fmt.Errorf("frontmatter: invalid YAML: %w", err)
	}
	if err := yaml.Unmarshal(fm, meta); err != nil {
		return nil, nil, nil, fmt.Errorf("frontmatter: %w", err)
	}

	// The draft gate must be a real boolean, not a truthy string.
	if v, ok := raw["draft"]; ok {
		if _, isBool := v.(bool); !isBool {
			return nil, nil, nil, fmt.Errorf("frontmatter: draft must be a boolean, got %T", v)
		}
	}

	if v, ok := raw["date"]; ok {
		meta.Date, err = parseDate(v)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return meta, raw, body, nil
}

// parseDate accepts a yaml-decoded date value in any supported layout.
func parseDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("frontmatter: unparseable date %q", d)
	default:
		return time.Time{}, fmt.Errorf("frontmatter: date must be a timestamp, got %T", v)
	}
}
