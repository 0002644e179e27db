// Package scanner counts native module requests in emitted bundle assets.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tristendillon/weexscan/core/ast"
	"github.com/tristendillon/weexscan/core/logger"
	"github.com/tristendillon/weexscan/core/models"
)

var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".web.js", ".weex.js"}

type Scanner struct {
	// Namespace restricts matches to calls on this object, e.g. "weex".
	// Empty matches any object.
	Namespace  string
	Extensions []string
}

type Option func(*Scanner)

func WithNamespace(ns string) Option {
	return func(s *Scanner) { s.Namespace = ns }
}

func WithExtensions(exts ...string) Option {
	return func(s *Scanner) { s.Extensions = exts }
}

func New(opts ...Option) *Scanner {
	s := &Scanner{Extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) isScript(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range s.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Scan reads every script asset under basePath, one after another, and
// returns the aggregated requireModule counts.
func (s *Scanner) Scan(assets []models.Asset, basePath string) (models.Counter, error) {
	counts := models.NewCounter()

	parser, err := ast.NewParser()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	for _, asset := range assets {
		if !s.isScript(asset.Name) {
			logger.Debug("Skipping non-script asset %s", asset.Name)
			continue
		}
		p := filepath.Join(basePath, asset.Name)
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", p, err)
		}

		prog, err := parser.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse asset %s: %w", p, err)
		}
		if prog.HasErrors {
			logger.Debug("Asset %s has syntax errors, scanning recovered tree", asset.Name)
		}

		v := &requireModuleVisitor{namespace: s.Namespace, counts: counts}
		ast.Walk(v, prog)
		if v.skipped > 0 {
			logger.Debug("Asset %s has %d requireModule call(s) without a literal name", asset.Name, v.skipped)
		}
		logger.Debug("Scanned %s", asset.Name)
	}

	return counts, nil
}

// Scan runs an unrestricted scanner.
func Scan(assets []models.Asset, basePath string) (models.Counter, error) {
	return New().Scan(assets, basePath)
}
