package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ScriptedStream replays a fixed sequence of events. It backs replay
// evaluation of recorded agent transcripts and every engine test; the
// engine cannot tell it apart from a live agent.
type ScriptedStream struct {
	mu     sync.Mutex
	events []Event
	pos    int
}

// NewScriptedStream builds a stream over the given events.
func NewScriptedStream(events ...Event) *ScriptedStream {
	return &ScriptedStream{events: events}
}

// Clone returns a fresh stream over the same events, positioned at the
// start. Stability reruns consume one clone each.
func (s *ScriptedStream) Clone() *ScriptedStream {
	return &ScriptedStream{events: s.events}
}

// Next returns the next scripted event, or EventDone once exhausted.
func (s *ScriptedStream) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.events) {
		return Event{Kind: EventDone}, nil
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// transcriptStep is one entry of an on-disk transcript file.
type transcriptStep struct {
	Tool       string          `yaml:"tool,omitempty" json:"tool,omitempty"`
	Args       map[string]any  `yaml:"args,omitempty" json:"args,omitempty"`
	Submission json.RawMessage `yaml:"-" json:"submission,omitempty"`
	// YAML transcripts carry the submission as a nested mapping.
	SubmissionDoc map[string]any `yaml:"submission,omitempty" json:"-"`
}

// LoadTranscript reads a recorded agent transcript (YAML or JSON, by
// extension) into a scripted stream. Each step is either a tool call or
// the final submission.
func LoadTranscript(path string) (*ScriptedStream, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	var steps []transcriptStep
	if json.Valid(raw) {
		err = json.Unmarshal(raw, &steps)
	} else {
		err = yaml.Unmarshal(raw, &steps)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing transcript %s: %w", path, err)
	}

	events := make([]Event, 0, len(steps))
	for i, step := range steps {
		switch {
		case step.Tool != "":
			events = append(events, Event{Kind: EventToolCall, Tool: step.Tool, Args: step.Args})
		case step.Submission != nil:
			events = append(events, Event{Kind: EventSubmission, Submission: step.Submission})
		case step.SubmissionDoc != nil:
			sub, err := json.Marshal(step.SubmissionDoc)
			if err != nil {
				return nil, fmt.Errorf("transcript step %d: encoding submission: %w", i, err)
			}
			events = append(events, Event{Kind: EventSubmission, Submission: sub})
		default:
			return nil, fmt.Errorf("transcript step %d: neither tool call nor submission", i)
		}
	}
	return NewScriptedStream(events...), nil
}
