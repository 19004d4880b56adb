// Package new scaffolds a fresh blog post with valid frontmatter.
package new

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Aagat/aagat.com/builder/config"
)

// slugRegex matches characters that are unsafe for filenames/URLs
var slugRegex = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// sanitizeSlug converts a title to a safe filename slug
func sanitizeSlug(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugRegex.ReplaceAllString(slug, "")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if len(slug) > 100 {
		slug = slug[:100]
	}
	return slug
}

// scaffold renders the frontmatter template for a new post.
func scaffold(title string, now time.Time) string {
	return fmt.Sprintf(`---
layout: post
title: %s
description: Enter a short description here
keywords:
date: %s
draft: true
---

## Introduction

Start writing here...
`, title, now.Format("2006-01-02T15:04:05-07:00"))
}

// Run creates a new blog post file under the content directory.
func Run(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: site new \"My New Post Title\"")
	}

	title := args[0]
	slug := sanitizeSlug(title)
	if slug == "" {
		return fmt.Errorf("title produces empty slug after sanitization")
	}

	blogDir := filepath.Join(cfg.ContentDir, strings.Trim(cfg.BlogPrefix, "/"))
	filename := filepath.Join(blogDir, slug+".md")

	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file already exists: %s", filename)
	}

	if err := os.MkdirAll(blogDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(scaffold(title, time.Now())), 0644); err != nil {
		return err
	}

	fmt.Printf("✅ Created: %s\n", filename)
	return nil
}
