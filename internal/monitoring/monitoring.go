package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	LogLevel string
}

// Service records operational events (ingest volume, retention sweeps) as
// in-process counters and structured log lines.
type Service struct {
	config Config

	mu       sync.Mutex
	counters map[string]int64
}

// NewService creates a new monitoring service
func NewService(config Config) *Service {
	return &Service{
		config:   config,
		counters: make(map[string]int64),
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.mu.Lock()
	s.counters[eventName]++
	s.mu.Unlock()

	nuts.L.Infof("[Monitoring] Event %s recorded at %v with labels: %v", eventName, time.Now(), labels)
}

// AddCount adds to a counter without per-event logging, for bulk paths
// like retention sweeps.
func (s *Service) AddCount(eventName string, count int64) {
	s.mu.Lock()
	s.counters[eventName] += count
	s.mu.Unlock()
}

// Counters returns a copy of the current counter values, served on the
// metrics endpoint.
func (s *Service) Counters() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64, len(s.counters))
	for name, count := range s.counters {
		out[name] = count
	}
	return out
}
