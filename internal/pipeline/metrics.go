package pipeline

import (
	"encoding/json"
	"time"
)

// Metrics holds pipeline run counters served on /metrics.
type Metrics struct {
	TotalRuns       int       `json:"total_runs"`
	FailedRuns      int       `json:"failed_runs"`
	PacksGenerated  int       `json:"packs_generated"`
	FallbackResults int       `json:"fallback_results"`
	LastRun         time.Time `json:"last_run"`
	LastRunDuration string    `json:"last_run_duration"`
}

func (s *Service) recordRun(duration time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalRuns++
	if failed {
		s.metrics.FailedRuns++
	}
	s.metrics.LastRun = time.Now().UTC()
	s.metrics.LastRunDuration = duration.String()
}

func (s *Service) recordPacks(count int, fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.PacksGenerated += count
	if fallback {
		s.metrics.FallbackResults++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
