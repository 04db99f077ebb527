package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/karupanerura/arith-expression/internal/expression"
)

// Document is a decoded JSON value whose ${...} strings were parsed as expressions.
type Document struct {
	root any
}

type config struct {
	debug bool
}

type Option func(*config)

// WithDebugOutput traces the parser for every expression in the document.
func WithDebugOutput() Option {
	return func(c *config) {
		c.debug = true
	}
}

func ParseYAML(r io.Reader, opts ...Option) (*Document, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseJSON(bytes.NewReader(jsonBytes), opts...)
}

func ParseJSON(r io.Reader, opts ...Option) (*Document, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return newDocument(raw, &c)
}

func newDocument(raw any, c *config) (*Document, error) {
	decoded, err := walk("", raw, decodeJSONNumberLeaf)
	if err != nil {
		return nil, fmt.Errorf("decodeJSONNumber: %w", err)
	}

	expandExprRecursive := expression.ExpandExprRecursive
	if c.debug {
		expandExprRecursive = expression.ExpandExprRecursiveWithDebugOutput
	}

	root, err := expandExprRecursive(decoded)
	if err != nil {
		return nil, err
	}

	return &Document{root: root}, nil
}

// Expressions returns every expression in the document keyed by its JSON pointer.
func (d *Document) Expressions() map[string]*expression.Expr {
	exprs := map[string]*expression.Expr{}
	_, _ = walk("", d.root, func(pointer string, leaf any) (any, error) {
		if expr, ok := leaf.(*expression.Expr); ok {
			exprs[pointer] = expr
		}
		return leaf, nil
	})
	return exprs
}

// Evaluate returns a copy of the document with every expression replaced by its value.
func (d *Document) Evaluate() any {
	return expression.EvaluateRecursive(d.root)
}
