// Package vue splits single-file components and walks their templates.
package vue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

type Block struct {
	Content string
	Attrs   map[string]string
}

func (b *Block) Lang() string {
	if b == nil {
		return ""
	}
	return b.Attrs["lang"]
}

// SFC is a parsed single-file component.
type SFC struct {
	Template *Block
	Script   *Block
	Styles   []Block
}

func tagAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := map[string]string{}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}

// ParseSFC extracts the top-level template, script and style blocks.
func ParseSFC(src []byte) (*SFC, error) {
	sfc := &SFC{}
	z := html.NewTokenizer(bytes.NewReader(src))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("failed to tokenize component: %w", err)
			}
			return sfc, nil
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			attrs := tagAttrs(z, hasAttr)
			switch tag {
			case "template":
				if sfc.Template != nil {
					return nil, fmt.Errorf("component has more than one <template> block")
				}
				content, err := captureUntilEnd(z, tag)
				if err != nil {
					return nil, err
				}
				sfc.Template = &Block{Content: content, Attrs: attrs}
			case "script", "style":
				content, err := captureUntilEnd(z, tag)
				if err != nil {
					return nil, err
				}
				block := Block{Content: content, Attrs: attrs}
				if tag == "style" {
					sfc.Styles = append(sfc.Styles, block)
				} else if sfc.Script == nil {
					sfc.Script = &block
				} else {
					return nil, fmt.Errorf("component has more than one <script> block")
				}
			default:
				// custom blocks are skipped
				if _, err := captureUntilEnd(z, tag); err != nil {
					return nil, err
				}
			}
		}
	}
}

// captureUntilEnd returns the raw source between the current start tag of
// name and its matching end tag.
func captureUntilEnd(z *html.Tokenizer, name string) (string, error) {
	var buf bytes.Buffer
	depth := 0
	for {
		tt := z.Next()
		// TagName lowercases the token bytes in place, so keep the raw
		// source before looking at the name.
		raw := append([]byte(nil), z.Raw()...)
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return "", fmt.Errorf("unterminated <%s> block", name)
			}
			return "", fmt.Errorf("failed to tokenize <%s> block: %w", name, z.Err())
		case html.StartTagToken:
			if tn, _ := z.TagName(); string(tn) == name {
				depth++
			}
		case html.EndTagToken:
			if tn, _ := z.TagName(); string(tn) == name {
				if depth == 0 {
					return buf.String(), nil
				}
				depth--
			}
		}
		buf.Write(raw)
	}
}

// Module renders the component as a JavaScript module for the host
// bundler. The template travels as a string on the component options.
func (s *SFC) Module() (string, error) {
	script := "export default {}"
	if s.Script != nil && strings.TrimSpace(s.Script.Content) != "" {
		script = s.Script.Content
	}

	const binding = "__weexscan_component__"
	idx := strings.Index(script, "export default")
	if idx < 0 {
		script += "\nconst " + binding + " = {};\n"
	} else {
		script = script[:idx] + "const " + binding + " =" + script[idx+len("export default"):]
	}

	var b strings.Builder
	b.WriteString(script)
	b.WriteString("\n")
	if s.Template != nil {
		var tmpl bytes.Buffer
		enc := json.NewEncoder(&tmpl)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(strings.TrimSpace(s.Template.Content)); err != nil {
			return "", fmt.Errorf("failed to encode template: %w", err)
		}
		fmt.Fprintf(&b, "%s.template = %s;\n", binding, bytes.TrimSpace(tmpl.Bytes()))
	}
	fmt.Fprintf(&b, "export default %s;\n", binding)
	return b.String(), nil
}
