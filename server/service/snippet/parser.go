package snippet

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// tagPattern matches "#tag" tokens. A tag runs until whitespace, another
// hash or the pair-key separator.
var tagPattern = regexp.MustCompile(`#([^\s#|]+)`)

// rawURLPattern is the fallback for URLs goldmark does not pick up.
var rawURLPattern = regexp.MustCompile(`https?://[^\s<>()\[\]"']+`)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// ExtractTags returns the distinct "#tag" tokens from snippet text, in
// first-seen order with case preserved.
func ExtractTags(content string) []string {
	matches := tagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, match := range matches {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags
}

// ExtractDomain returns the hostname of the first URL found in snippet
// text, or "" when there is none or it cannot be parsed. Markdown links
// and autolinks are found via the goldmark AST; bare URLs outside any
// markdown construct are caught by a raw scan.
func ExtractDomain(content string) string {
	source := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var firstURL string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || firstURL != "" {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			firstURL = string(node.Destination)
			return ast.WalkStop, nil
		case *ast.AutoLink:
			firstURL = string(node.URL(source))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if firstURL == "" {
		firstURL = rawURLPattern.FindString(content)
	}
	if firstURL == "" {
		return ""
	}
	if !strings.Contains(firstURL, "://") {
		firstURL = "https://" + firstURL
	}

	parsed, err := url.Parse(firstURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
