package health

import (
	"context"
	"sort"
	"time"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: map[string]Check{}, timeout: 2 * time.Second}
}

// Register adds a named dependency check.
func (s *Service) Register(name string, check Check) {
	if check == nil {
		return
	}
	s.checks[name] = check
}

// Status runs every check and returns the payload and whether all passed.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	payload := map[string]any{"ok": true}
	if len(s.checks) == 0 {
		return payload, true
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ok := true
	results := make(map[string]string, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.checks[name](checkCtx)
		cancel()
		if err != nil {
			ok = false
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	payload["ok"] = ok
	payload["checks"] = results
	return payload, ok
}
