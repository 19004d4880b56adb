// Package lint runs document-level checks over the content directory:
// frontmatter well-formedness, required fields, fence balance, and link
// targets. The build refuses nothing; lint is the gate that does.
package lint

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/Aagat/aagat.com/builder/frontmatter"
	"github.com/Aagat/aagat.com/builder/utils"
)

// Check names, one per document property.
const (
	CheckFrontmatter = "frontmatter"
	CheckRequired    = "required-fields"
	CheckDraft       = "draft-bool"
	CheckDate        = "date"
	CheckFences      = "code-fences"
	CheckLinks       = "link-targets"
)

// requiredFields must be present and non-empty in every page.
var requiredFields = []string{"layout", "title", "description", "date"}

// Issue describes a single lint finding.
type Issue struct {
	Path    string
	Check   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: [%s] %s", i.Path, i.Check, i.Message)
}

// md is a bare GFM parser used only to walk link/image nodes.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// File lints a single document.
func File(path string, src []byte) []Issue {
	var issues []Issue

	meta, raw, body, err := frontmatter.Parse(src)
	if err != nil {
		// Parsing already distinguishes the draft type error and bad dates;
		// attribute them to the right check so output stays actionable.
		check := CheckFrontmatter
		msg := err.Error()
		switch {
		case strings.Contains(msg, "draft"):
			check = CheckDraft
		case strings.Contains(msg, "date"):
			check = CheckDate
		}
		return append(issues, Issue{Path: path, Check: check, Message: msg})
	}

	for _, field := range requiredFields {
		if utils.GetString(raw, field) == "" {
			issues = append(issues, Issue{
				Path:    path,
				Check:   CheckRequired,
				Message: fmt.Sprintf("missing required field %q", field),
			})
		}
	}

	if _, ok := raw["date"]; ok && meta.Date.IsZero() {
		issues = append(issues, Issue{Path: path, Check: CheckDate, Message: "date does not parse"})
	}

	if n := openFences(body); n > 0 {
		issues = append(issues, Issue{
			Path:    path,
			Check:   CheckFences,
			Message: fmt.Sprintf("%d unterminated code fence(s)", n),
		})
	}

	issues = append(issues, emptyLinkTargets(path, body)...)
	return issues
}

// Run walks every markdown file under contentDir and collects issues.
func Run(fsys afero.Fs, contentDir string) ([]Issue, error) {
	var issues []Issue
	err := afero.Walk(fsys, contentDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".md") {
			return err
		}
		src, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("lint: read %s: %w", path, err)
		}
		issues = append(issues, File(filepath.ToSlash(path), src)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Check < issues[j].Check
	})
	return issues, nil
}

// openFences counts fence openings left unclosed in the raw body. Goldmark
// silently auto-closes fences at EOF, so the raw scan is authoritative here.
func openFences(body []byte) int {
	open := 0
	var openMarker byte
	var openLen int

	for _, line := range strings.Split(string(body), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if len(trimmed) < 3 {
			continue
		}
		marker := trimmed[0]
		if marker != '`' && marker != '~' {
			continue
		}
		runLen := 0
		for runLen < len(trimmed) && trimmed[runLen] == marker {
			runLen++
		}
		if runLen < 3 {
			continue
		}

		if open == 0 {
			open = 1
			openMarker = marker
			openLen = runLen
			continue
		}
		// A closing fence must use the same marker and be at least as long,
		// with nothing but the marker run on the line.
		if marker == openMarker && runLen >= openLen && strings.TrimRight(trimmed[runLen:], " \t") == "" {
			open = 0
		}
	}
	return open
}

// emptyLinkTargets walks the goldmark AST and flags links and images whose
// destination is empty.
func emptyLinkTargets(path string, body []byte) []Issue {
	var issues []Issue

	doc := md.Parser().Parse(text.NewReader(body))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var dest []byte
		var kind string
		switch target := n.(type) {
		case *ast.Link:
			dest, kind = target.Destination, "link"
		case *ast.Image:
			dest, kind = target.Destination, "image"
		default:
			return ast.WalkContinue, nil
		}
		if len(strings.TrimSpace(string(dest))) == 0 {
			issues = append(issues, Issue{
				Path:    path,
				Check:   CheckLinks,
				Message: fmt.Sprintf("%s %q has an empty target", kind, nodeText(n, body)),
			})
		}
		return ast.WalkContinue, nil
	})
	return issues
}

// nodeText extracts the visible text of a link node for error messages.
func nodeText(n ast.Node, source []byte) string {
	var out strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && child.Kind() == ast.KindText {
			out.Write(child.(*ast.Text).Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return out.String()
}
