package lint

import (
	"strings"
	"testing"

	"github.com/Aagat/aagat.com/builder/testutil"
)

const validPage = `---
layout: post
title: "Hosting this site"
description: "Notes on hosting"
keywords: "golang, hosting"
date: 2014-06-21T21:27:31-06:00
draft: false
---

Some prose with a [link](https://example.com).

` + "```go\nfunc main() {}\n```" + `
`

func TestFile_ValidPage(t *testing.T) {
	issues := File("content/blog/post.md", []byte(validPage))
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestFile_MissingRequiredFields(t *testing.T) {
	src := "---\ntitle: \"Only a title\"\ndate: 2014-06-21\nlayout: post\n---\nBody.\n"
	issues := File("p.md", []byte(src))
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", issues)
	}
	if issues[0].Check != CheckRequired {
		t.Errorf("Check = %q, want %q", issues[0].Check, CheckRequired)
	}
	if !strings.Contains(issues[0].Message, "description") {
		t.Errorf("Message = %q, should name the missing field", issues[0].Message)
	}
}

func TestFile_DraftType(t *testing.T) {
	src := "---\ntitle: t\ndraft: \"yes\"\n---\nBody.\n"
	issues := File("p.md", []byte(src))
	if len(issues) != 1 || issues[0].Check != CheckDraft {
		t.Fatalf("expected a single %s issue, got %v", CheckDraft, issues)
	}
}

func TestFile_BadDate(t *testing.T) {
	src := "---\ntitle: t\ndate: \"whenever\"\n---\nBody.\n"
	issues := File("p.md", []byte(src))
	if len(issues) != 1 || issues[0].Check != CheckDate {
		t.Fatalf("expected a single %s issue, got %v", CheckDate, issues)
	}
}

func TestFile_UnterminatedFrontmatter(t *testing.T) {
	src := "---\ntitle: t\nBody without closing fence.\n"
	issues := File("p.md", []byte(src))
	if len(issues) != 1 || issues[0].Check != CheckFrontmatter {
		t.Fatalf("expected a single %s issue, got %v", CheckFrontmatter, issues)
	}
}

func TestOpenFences(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"balanced", "```go\ncode\n```\n", 0},
		{"unterminated", "```go\ncode\n", 1},
		{"tilde balanced", "~~~\ncode\n~~~\n", 0},
		{"mixed markers do not close", "```go\ncode\n~~~\n", 1},
		{"shorter run does not close", "````\ncode\n```\n", 1},
		{"backticks inside tilde fence", "~~~\n```\n~~~\n", 0},
		{"two balanced blocks", "```\na\n```\ntext\n```\nb\n```\n", 0},
		{"no fences", "plain text\n", 0},
		{"indented fence", "  ```\ncode\n  ```\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := openFences([]byte(tt.body)); got != tt.want {
				t.Errorf("openFences() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFile_EmptyLinkTarget(t *testing.T) {
	src := "---\nlayout: post\ntitle: t\ndescription: d\ndate: 2014-06-21\n---\n" +
		"A [broken link]() and a good [one](https://example.com).\n"
	issues := File("p.md", []byte(src))
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", issues)
	}
	if issues[0].Check != CheckLinks {
		t.Errorf("Check = %q, want %q", issues[0].Check, CheckLinks)
	}
	if !strings.Contains(issues[0].Message, "broken link") {
		t.Errorf("Message = %q, should quote the link text", issues[0].Message)
	}
}

func TestRun_WalksContentDir(t *testing.T) {
	fs, _ := testutil.CreateTestFilesystemWithContent(map[string]string{
		"content/index.md":      testutil.CreateTestMarkdown(),
		"content/blog/ok.md":    validPage,
		"content/blog/bad.md":   "---\ntitle: t\n---\nBody.\n",
		"content/blog/note.txt": "not markdown, ignored",
	})

	issues, err := Run(fs, "content")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, issue := range issues {
		if issue.Path != "content/blog/bad.md" {
			t.Errorf("unexpected issue for %s: %v", issue.Path, issue)
		}
	}
	if len(issues) == 0 {
		t.Fatal("expected issues for the page missing required fields")
	}
}
