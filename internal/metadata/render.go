package metadata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the document grammar.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultIndent is the number of spaces added per nesting level.
const DefaultIndent = 4

// YAML output supports only this indentation range.
const (
	MinYAMLIndent = 2
	MaxYAMLIndent = 9
)

// Renderer turns a Database into a document.
type Renderer struct {
	format Format
	indent int
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithFormat selects the output grammar. Unknown formats fail at Render time.
func WithFormat(f Format) RenderOption {
	return func(r *Renderer) { r.format = f }
}

// WithIndent sets the indentation step. Values below 1 are ignored. YAML
// accepts steps from 2 to 9 only; other values fail at Render time.
func WithIndent(n int) RenderOption {
	return func(r *Renderer) {
		if n > 0 {
			r.indent = n
		}
	}
}

// NewRenderer creates a renderer. The default is JSON with a four space step.
func NewRenderer(opts ...RenderOption) *Renderer {
	r := &Renderer{format: FormatJSON, indent: DefaultIndent}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes db to w with a default renderer configured by opts.
func Render(w io.Writer, db *Database, opts ...RenderOption) error {
	return NewRenderer(opts...).Render(w, db)
}

// Render writes the whole database to w in a single pass.
func (r *Renderer) Render(w io.Writer, db *Database) error {
	switch r.format {
	case FormatJSON, "":
		return r.renderJSON(w, db)
	case FormatYAML:
		return r.renderYAML(w, db)
	default:
		return fmt.Errorf("unsupported document format %q", r.format)
	}
}

type nodeKind int

const (
	stringNode nodeKind = iota
	arrayNode
	objectNode
)

// node is one value of the document tree. Objects keep their keys in the
// order they must be written.
type node struct {
	kind  nodeKind
	str   string
	keys  []string
	items []node
}

func stringValue(s string) node { return node{kind: stringNode, str: s} }

func documentNode(db *Database) node {
	doc := node{kind: arrayNode, items: make([]node, 0, db.Len())}
	for t := range db.Types() {
		fields := node{kind: arrayNode, items: make([]node, 0, t.Len())}
		for f := range t.Fields() {
			fields.items = append(fields.items, node{
				kind:  objectNode,
				keys:  []string{"type", "variable"},
				items: []node{stringValue(f.Type()), stringValue(f.Variable())},
			})
		}
		doc.items = append(doc.items, node{
			kind:  objectNode,
			keys:  []string{"name", "fields"},
			items: []node{stringValue(t.Name()), fields},
		})
	}
	return doc
}

type jsonWriter struct {
	w      *bufio.Writer
	step   string
	buf    bytes.Buffer
	encode *json.Encoder
}

func (r *Renderer) renderJSON(w io.Writer, db *Database) error {
	jw := &jsonWriter{
		w:    bufio.NewWriter(w),
		step: strings.Repeat(" ", r.indent),
	}
	jw.encode = json.NewEncoder(&jw.buf)
	jw.encode.SetEscapeHTML(false)

	if err := jw.write(documentNode(db), 0); err != nil {
		return err
	}
	jw.w.WriteByte('\n')
	return jw.w.Flush()
}

// write renders n at the given depth. Containers place their children one
// level deeper and close at their own depth; an empty container below the
// top level collapses to "[]" or "{}".
func (jw *jsonWriter) write(n node, depth int) error {
	if n.kind == stringNode {
		return jw.quote(n.str)
	}

	open, closing := byte('['), byte(']')
	if n.kind == objectNode {
		open, closing = '{', '}'
	}

	jw.w.WriteByte(open)
	if len(n.items) == 0 && depth > 0 {
		jw.w.WriteByte(closing)
		return nil
	}
	jw.w.WriteByte('\n')

	for i, item := range n.items {
		jw.pad(depth + 1)
		if n.kind == objectNode {
			if err := jw.quote(n.keys[i]); err != nil {
				return err
			}
			jw.w.WriteString(": ")
		}
		if err := jw.write(item, depth+1); err != nil {
			return err
		}
		if i < len(n.items)-1 {
			jw.w.WriteByte(',')
		}
		jw.w.WriteByte('\n')
	}

	jw.pad(depth)
	jw.w.WriteByte(closing)
	return nil
}

func (jw *jsonWriter) pad(depth int) {
	for range depth {
		jw.w.WriteString(jw.step)
	}
}

func (jw *jsonWriter) quote(s string) error {
	jw.buf.Reset()
	if err := jw.encode.Encode(s); err != nil {
		return fmt.Errorf("failed to encode string: %w", err)
	}
	// Encode terminates every value with a newline.
	jw.w.Write(bytes.TrimSuffix(jw.buf.Bytes(), []byte{'\n'}))
	return nil
}

type yamlType struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Type     string `yaml:"type"`
	Variable string `yaml:"variable"`
}

func (r *Renderer) renderYAML(w io.Writer, db *Database) error {
	doc := make([]yamlType, 0, db.Len())
	for t := range db.Types() {
		yt := yamlType{Name: t.Name(), Fields: make([]yamlField, 0, t.Len())}
		for f := range t.Fields() {
			yt.Fields = append(yt.Fields, yamlField{Type: f.Type(), Variable: f.Variable()})
		}
		doc = append(doc, yt)
	}

	if r.indent < MinYAMLIndent || r.indent > MaxYAMLIndent {
		return fmt.Errorf("yaml indent must be between %d and %d, got %d", MinYAMLIndent, MaxYAMLIndent, r.indent)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(r.indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml document: %w", err)
	}
	return enc.Close()
}
