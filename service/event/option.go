package event

import (
	"github.com/viant/procsim/service/messaging/memory"
	"go.uber.org/zap"
)

type Option func(s *Service)

// WithQueueConfig sets the memory queue configuration
func WithQueueConfig(config memory.Config) Option {
	return func(s *Service) {
		s.queueConfig = config
	}
}

// WithLogger sets the logger used by the listener
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
