// Package sandbox executes tool calls under a fixed whitelist with
// per-tool argument schemas. The fixture store is the only data source a
// call may reach; anything that looks like an attempt at live network
// access is a fatal SandboxViolation.
package sandbox

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/agentbeats/veritrail/internal/fixtures"
	"github.com/agentbeats/veritrail/internal/ledger"
	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/validation"
)

// ViolationError is a fatal sandbox breach: a disallowed tool, malformed
// arguments, or an attempt to reach outside the fixture store. The run is
// aborted and scored zero.
type ViolationError struct {
	Tool   string
	Reason string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("sandbox violation in %q: %s", e.Tool, e.Reason)
}

// networkPattern flags argument values that smuggle in live endpoints.
var networkPattern = regexp.MustCompile(`(?i)\b(?:https?|ftp|ws{1,2})://|\blocalhost\b|\b(?:\d{1,3}\.){3}\d{1,3}(?::\d+)?\b`)

// Runner validates and executes tool calls for one run. Each run owns its
// own Runner; nothing here is shared across runs.
type Runner struct {
	store     *fixtures.Store
	ledger    *ledger.Ledger
	toolSeeds func(tool string) int64
	clock     func() time.Time
}

// NewRunner wires a runner to its run-private fixture store and ledger.
// toolSeeds is the seed manager's per-tool derivation.
func NewRunner(store *fixtures.Store, led *ledger.Ledger, toolSeeds func(string) int64) *Runner {
	return &Runner{
		store:     store,
		ledger:    led,
		toolSeeds: toolSeeds,
		clock:     time.Now,
	}
}

// WithClock overrides the record timestamp source. Deterministic exports
// use a fixed clock so repeated runs serialize identically.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// Call validates one tool call, resolves its fixture, and appends exactly
// one ledger record on success. Any returned error is fatal to the run;
// no ledger append happens on failure.
func (r *Runner) Call(tool string, args map[string]any) (models.ToolCallRecord, error) {
	if err := checkNetworkAttempt(tool, args); err != nil {
		return models.ToolCallRecord{}, err
	}

	issues, known := validation.ValidateToolArgs(tool, args)
	if !known {
		return models.ToolCallRecord{}, &fixtures.UnknownToolError{Tool: tool}
	}
	if len(issues) > 0 {
		return models.ToolCallRecord{}, &ViolationError{
			Tool:   tool,
			Reason: fmt.Sprintf("invalid arguments at %s: %s", issues[0].Path, issues[0].Message),
		}
	}

	subSeed := r.toolSeeds(tool)
	result, err := r.store.Resolve(tool, args, subSeed)
	if err != nil {
		return models.ToolCallRecord{}, err
	}

	hash, err := ledger.ContentHash(result)
	if err != nil {
		return models.ToolCallRecord{}, fmt.Errorf("hashing %s result: %w", tool, err)
	}

	rec := models.ToolCallRecord{
		Tool:       tool,
		Arguments:  args,
		Result:     result,
		ResultHash: hash,
		Timestamp:  r.clock().UTC(),
		SubSeed:    subSeed,
	}
	return r.ledger.Append(rec)
}

// checkNetworkAttempt scans string arguments for URLs, raw addresses, or
// port-qualified hosts. The fixture store never needs any of these.
func checkNetworkAttempt(tool string, args map[string]any) error {
	var scan func(v any) string
	scan = func(v any) string {
		switch val := v.(type) {
		case string:
			if networkPattern.MatchString(val) {
				return val
			}
		case map[string]any:
			for _, nested := range val {
				if hit := scan(nested); hit != "" {
					return hit
				}
			}
		case []any:
			for _, nested := range val {
				if hit := scan(nested); hit != "" {
					return hit
				}
			}
		}
		return ""
	}

	for key, v := range args {
		if hit := scan(v); hit != "" {
			return &ViolationError{
				Tool:   tool,
				Reason: fmt.Sprintf("network endpoint in argument %q: %s", key, strings.TrimSpace(hit)),
			}
		}
	}
	return nil
}
