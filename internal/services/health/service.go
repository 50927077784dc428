package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobsearch-backend/internal/shared/telemetry"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Report is the readiness payload returned by /health.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service runs registered dependency checks.
type Service struct {
	timeout time.Duration
	names   []string
	checks  map[string]Check
}

// NewService constructs a health service with no checks; Status reports ok until checks are added.
func NewService() *Service {
	return &Service{timeout: 2 * time.Second, checks: map[string]Check{}}
}

// Add registers a named check. A nil check is ignored so optional backends can be passed directly.
func (s *Service) Add(name string, check Check) *Service {
	if check == nil {
		return s
	}
	if _, exists := s.checks[name]; !exists {
		s.names = append(s.names, name)
		sort.Strings(s.names)
	}
	s.checks[name] = check
	return s
}

// Status runs all checks concurrently, each bounded by the service timeout.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{OK: true}
	if len(s.names) == 0 {
		return report
	}
	report.Checks = make(map[string]string, len(s.names))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, name := range s.names {
		wg.Add(1)
		go func(name string, check Check) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			err := check(cctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.OK = false
				report.Checks[name] = "down"
				telemetry.Warn("health.check_failed", map[string]any{"check": name, "error": err})
				return
			}
			report.Checks[name] = "up"
		}(name, s.checks[name])
	}
	wg.Wait()
	return report
}
