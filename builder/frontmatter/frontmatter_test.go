package frontmatter

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantFM   string
		wantBody string
		wantErr  error
	}{
		{
			name:     "standard document",
			src:      "---\ntitle: Hello\n---\n\nBody text.\n",
			wantFM:   "title: Hello\n",
			wantBody: "\nBody text.\n",
		},
		{
			name:     "no frontmatter",
			src:      "Just a body.\n",
			wantFM:   "",
			wantBody: "Just a body.\n",
		},
		{
			name:    "unterminated fence",
			src:     "---\ntitle: Hello\n\nBody without closing fence.\n",
			wantErr: ErrUnterminated,
		},
		{
			name:     "empty body",
			src:      "---\ntitle: Hello\n---\n",
			wantFM:   "title: Hello\n",
			wantBody: "",
		},
		{
			name:     "crlf input",
			src:      "---\r\ntitle: Hello\r\n---\r\nBody.\r\n",
			wantFM:   "title: Hello\n",
			wantBody: "Body.\n",
		},
		{
			name:     "dashes mid-document are not a fence",
			src:      "Intro\n---\nMore\n",
			wantFM:   "",
			wantBody: "Intro\n---\nMore\n",
		},
		{
			name:     "horizontal rule lookalike without fence",
			src:      "---not a fence\nBody.\n",
			wantFM:   "",
			wantBody: "---not a fence\nBody.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := Split([]byte(tt.src))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if string(fm) != tt.wantFM {
				t.Errorf("frontmatter = %q, want %q", fm, tt.wantFM)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestParse_Fields(t *testing.T) {
	src := `---
layout: post
title: "Hosting this site"
description: "How this site is hosted"
keywords: "golang, app engine, hosting"
date: 2014-06-21T21:27:31-06:00
draft: false
---

Body.
`
	meta, raw, body, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if meta.Layout != "post" {
		t.Errorf("Layout = %q, want %q", meta.Layout, "post")
	}
	if meta.Title != "Hosting this site" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Draft {
		t.Error("Draft should be false")
	}
	if !strings.Contains(string(body), "Body.") {
		t.Errorf("body = %q", body)
	}

	want := time.Date(2014, 6, 21, 21, 27, 31, 0, time.FixedZone("", -6*3600))
	if !meta.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", meta.Date, want)
	}
	if _, ok := raw["keywords"]; !ok {
		t.Error("raw map should expose keywords")
	}
}

func TestParse_DateLayouts(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"rfc3339 with offset", `"2014-06-21T21:27:31-06:00"`, false},
		{"bare date", `"2014-06-21"`, false},
		{"garbage", `"next tuesday"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "---\ntitle: t\ndate: " + tt.date + "\n---\nBody.\n"
			meta, _, _, err := Parse([]byte(src))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() should fail for unparseable date")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if meta.Date.IsZero() {
				t.Error("Date should be set")
			}
		})
	}
}

func TestParse_DraftMustBeBool(t *testing.T) {
	src := "---\ntitle: t\ndraft: \"false\"\n---\nBody.\n"
	if _, _, _, err := Parse([]byte(src)); err == nil {
		t.Fatal("Parse() should reject a string draft value")
	}

	src = "---\ntitle: t\ndraft: true\n---\nBody.\n"
	meta, _, _, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !meta.Draft {
		t.Error("Draft should be true")
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	meta, raw, body, err := Parse([]byte("Plain body.\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if meta.Title != "" || meta.Draft {
		t.Errorf("metadata should be zero-valued, got %+v", meta)
	}
	if len(raw) != 0 {
		t.Errorf("raw map should be empty, got %v", raw)
	}
	if string(body) != "Plain body.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestKeywordList(t *testing.T) {
	tests := []struct {
		name     string
		keywords string
		want     []string
	}{
		{"comma separated", "golang, app engine, hosting", []string{"golang", "app engine", "hosting"}},
		{"extra whitespace", " a ,, b ", []string{"a", "b"}},
		{"empty", "", nil},
		{"single", "golang", []string{"golang"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Metadata{Keywords: tt.keywords}
			got := m.KeywordList()
			if len(got) != len(tt.want) {
				t.Fatalf("KeywordList() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("KeywordList()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
