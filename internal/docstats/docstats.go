// Package docstats derives structural statistics from a research document's
// markdown. The counts ride along with the score as extra evidence of how
// substantial the document is.
package docstats

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Stats summarizes a markdown document's structure.
type Stats struct {
	Headings   int `json:"headings"`
	Links      int `json:"links"`
	CodeBlocks int `json:"code_blocks"`
	Words      int `json:"words"`
}

// Analyze parses source as markdown and counts structural elements. Word
// count is a whitespace split of the raw source, fences included.
func Analyze(source []byte) Stats {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var stats Stats
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Heading:
			stats.Headings++
		case *ast.Link, *ast.Image, *ast.AutoLink:
			stats.Links++
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			stats.CodeBlocks++
		}
		return ast.WalkContinue, nil
	})

	stats.Words = len(strings.Fields(string(source)))
	return stats
}
