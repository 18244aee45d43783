package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/procsim/runtime/process"
	"github.com/viant/procsim/service/dao"
	"github.com/viant/procsim/service/dao/criteria"
	"go.uber.org/zap"
)

const ext = ".json"

// Service stores run reports as JSON documents under basePath.
type Service struct {
	basePath string
	fs       afs.Service
	logger   *zap.Logger
	mu       sync.RWMutex
}

var _ dao.Service[string, process.RunReport] = (*Service)(nil)

// Option customises the service
type Option func(s *Service)

// WithLogger sets the logger reporting unreadable documents
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Save persists a report
func (s *Service) Save(ctx context.Context, report *process.RunReport) error {
	if report == nil {
		return dao.ErrNilEntity
	}
	if report.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report %s: %w", report.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.reportPath(report.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save report to %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a report
func (s *Service) Load(ctx context.Context, id string) (*process.RunReport, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filePath := s.reportPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check report %s: %w", id, err)
	}
	if !exists {
		return nil, fmt.Errorf("report %s: %w", id, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", id, err)
	}
	report := &process.RunReport{}
	if err = json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return report, nil
}

// Delete removes a report
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.reportPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check report %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("report %s: %w", id, dao.ErrNotFound)
	}
	if err = s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	return nil
}

// List returns reports ordered by start time
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*process.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	var reports []*process.RunReport
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ext) {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("failed to read report", zap.String("url", object.URL()), zap.Error(err))
			continue
		}
		report := &process.RunReport{}
		if err := json.Unmarshal(data, report); err != nil {
			s.logger.Warn("failed to unmarshal report", zap.String("url", object.URL()), zap.Error(err))
			continue
		}
		if !criteria.FilterByState(report.State, parameters) {
			continue
		}
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartedAt.Before(reports[j].StartedAt)
	})
	return reports, nil
}

func (s *Service) reportPath(id string) string {
	return url.Join(s.basePath, id+ext)
}

// New creates a filesystem report store rooted at basePath, creating it when missing.
func New(basePath string, options ...Option) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	ret := &Service{
		basePath: url.Normalize(basePath, file.Scheme),
		fs:       fs,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}
