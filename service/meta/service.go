// Package meta loads configuration documents through afs, expanding
// ${env.KEY} expressions before YAML decoding. JSON documents decode too,
// since JSON is a subset of YAML.
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service resolves and decodes documents relative to baseURL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// URL returns the absolute location of URL.
func (s *Service) URL(URL string) string {
	if s.baseURL == "" || !url.IsRelative(URL) {
		return url.Normalize(URL, file.Scheme)
	}
	return url.Join(s.baseURL, URL)
}

// Exists reports whether the document exists.
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(URL), s.options...)
}

// Download returns the raw document with ${env.KEY} expressions expanded.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	location := s.URL(URL)
	data, err := s.fs.DownloadWithURL(ctx, location, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", location, err)
	}
	return []byte(expandEnvExpr(string(data))), nil
}

// Load decodes the document at URL into target.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("empty document: %s", s.URL(URL))
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", s.URL(URL), err)
	}
	return nil
}

// New creates a meta service
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	if baseURL != "" {
		baseURL = url.Normalize(baseURL, file.Scheme)
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
