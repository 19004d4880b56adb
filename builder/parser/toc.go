package parser

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/Aagat/aagat.com/builder/models"
)

var tocKey = parser.NewContextKey()

// GetTOC returns the table of contents collected during conversion,
// or nil if the document had no eligible headings.
func GetTOC(pc parser.Context) []models.TOCEntry {
	if v := pc.Get(tocKey); v != nil {
		return v.([]models.TOCEntry)
	}
	return nil
}

// TOCTransformer records H2-H6 headings into the parser context.
// H1 is the page title and stays out of the TOC.
type TOCTransformer struct{}

func (t *TOCTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	var toc []models.TOCEntry

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		heading := n.(*ast.Heading)
		if heading.Level < 2 {
			return ast.WalkContinue, nil
		}

		// Auto heading IDs are enabled on the pipeline, so every
		// heading should carry one; skip any that somehow don't.
		id, ok := heading.AttributeString("id")
		if !ok {
			return ast.WalkContinue, nil
		}
		toc = append(toc, models.TOCEntry{
			ID:    string(id.([]byte)),
			Text:  headingText(heading, reader.Source()),
			Level: heading.Level,
		})
		return ast.WalkContinue, nil
	})

	pc.Set(tocKey, toc)
}

func headingText(heading *ast.Heading, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
