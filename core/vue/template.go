package vue

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/tristendillon/weexscan/core/models"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// rawTagName recovers the tag name with its original casing, which the
// tokenizer lowercases.
func rawTagName(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte("<"))
	end := bytes.IndexAny(raw, " \t\n\r\f/>")
	if end < 0 {
		end = len(raw)
	}
	return string(raw[:end])
}

// WalkTemplate visits every element of a template in document order and
// runs each compiler module on it. It returns the number of elements.
func WalkTemplate(template string, mods []models.CompilerModule) (int, error) {
	z := html.NewTokenizer(strings.NewReader(template))
	depth := 0
	visited := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return visited, fmt.Errorf("failed to tokenize template: %w", err)
			}
			return visited, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tag := rawTagName(z.Raw())
			_, hasAttr := z.TagName()
			el := &models.Element{
				Tag:   tag,
				Attrs: tagAttrs(z, hasAttr),
				Depth: depth,
			}
			for _, m := range mods {
				m.PostTransformNode(el)
			}
			visited++
			if tt == html.StartTagToken && !voidElements[strings.ToLower(tag)] {
				depth++
			}
		case html.EndTagToken:
			if depth > 0 {
				depth--
			}
		}
	}
}
