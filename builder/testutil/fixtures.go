// Package testutil provides testing utilities and fixtures
package testutil

import (
	"time"

	"github.com/Aagat/aagat.com/builder/config"
)

// CreateSampleConfig creates a valid Config for testing
func CreateSampleConfig() *config.Config {
	cfg := config.Default()
	cfg.Title = "Test Site"
	cfg.Description = "A test site"
	cfg.BaseURL = "https://example.com"
	cfg.Author = config.AuthorConfig{Name: "Test Author", URL: "https://author.example.com"}
	return cfg
}

// CreateTestMarkdown creates sample markdown content for testing
func CreateTestMarkdown() string {
	return `---
layout: post
title: Test Page
description: A test page for testing purposes
keywords: test, go, tutorial
date: 2026-01-15T10:00:00-06:00
draft: false
---

# Test Page

This is a test page for testing purposes.

## Section 1

Some content here.

## Section 2

More content here with **bold** and *italic* text.

- List item 1
- List item 2
- List item 3

[Link to example](https://example.com)
`
}

// CreateTestMarkdownWithFrontmatter creates markdown with specific frontmatter
func CreateTestMarkdownWithFrontmatter(title string, date time.Time, draft bool) string {
	draftStr := "false"
	if draft {
		draftStr = "true"
	}
	return `---
layout: post
title: ` + title + `
description: Test content for ` + title + `
date: ` + date.Format("2006-01-02T15:04:05-07:00") + `
draft: ` + draftStr + `
---

# ` + title + `

Test content for ` + title + `.
`
}
