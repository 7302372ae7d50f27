package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbeats/veritrail/internal/fixtures"
	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/scenario"
)

func testScenario(t *testing.T) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Parse([]byte(`
id: paris-spring-trip
root_seed: 42
brief:
  destination: Paris
  start_date: "2026-05-10"
  end_date: "2026-05-15"
  budget_ceiling: 3000
`))
	require.NoError(t, err)
	return sc
}

func testEngine() *Engine {
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return New(WithClock(func() time.Time { return fixed }))
}

func toolCall(tool string, args map[string]any) Event {
	return Event{Kind: EventToolCall, Tool: tool, Args: args}
}

func submissionEvent(raw string) Event {
	return Event{Kind: EventSubmission, Submission: []byte(raw)}
}

const emptySubmission = `{"flights": [], "lodging": [], "dining": [], "itinerary": [], "total_cost": 0}`

func TestRun_HappyPath(t *testing.T) {
	stream := NewScriptedStream(
		toolCall("flight_search", map[string]any{"from": "JFK", "to": "CDG", "depart_date": "2026-05-10"}),
		toolCall("weather", map[string]any{"location": "Paris", "start_date": "2026-05-10", "end_date": "2026-05-15"}),
		submissionEvent(emptySubmission),
	)

	out, err := testEngine().Run(context.Background(), testScenario(t), stream)
	require.NoError(t, err)

	assert.NotEmpty(t, out.RunID)
	require.Len(t, out.Records, 2)
	assert.Equal(t, 1, out.Records[0].Seq)
	assert.Equal(t, 2, out.Records[1].Seq)
	assert.Nil(t, out.Report.Failure)
	assert.True(t, out.Report.SchemaValid)
	assert.Equal(t, "paris-spring-trip", out.Report.ScenarioID)
}

func TestRun_Deterministic(t *testing.T) {
	events := []Event{
		toolCall("flight_search", map[string]any{"from": "JFK", "to": "CDG", "depart_date": "2026-05-10"}),
		submissionEvent(emptySubmission),
	}

	a, err := testEngine().Run(context.Background(), testScenario(t), NewScriptedStream(events...))
	require.NoError(t, err)
	b, err := testEngine().Run(context.Background(), testScenario(t), NewScriptedStream(events...))
	require.NoError(t, err)

	require.Len(t, a.Records, 1)
	require.Len(t, b.Records, 1)
	assert.Equal(t, a.Records[0].ResultHash, b.Records[0].ResultHash)
	assert.Equal(t, a.Records[0].SubSeed, b.Records[0].SubSeed)
	assert.Equal(t, a.Report.Total, b.Report.Total)
	assert.Equal(t, a.RunID, b.RunID, "run IDs derive from the run's inputs")
}

func TestDeriveRunID(t *testing.T) {
	sc := testScenario(t)

	t.Run("stable for identical inputs", func(t *testing.T) {
		assert.Equal(t, DeriveRunID(sc, nil), DeriveRunID(sc, nil))
	})

	t.Run("perturbed reruns get distinct IDs", func(t *testing.T) {
		plain := DeriveRunID(sc, nil)
		p0 := DeriveRunID(sc, fixtures.NewPerturbation(7, 0))
		p1 := DeriveRunID(sc, fixtures.NewPerturbation(7, 1))
		assert.NotEqual(t, plain, p0)
		assert.NotEqual(t, p0, p1)
	})

	t.Run("seed changes the ID", func(t *testing.T) {
		other := *sc
		other.RootSeed = sc.RootSeed + 1
		assert.NotEqual(t, DeriveRunID(sc, nil), DeriveRunID(&other, nil))
	})
}

func TestRun_SandboxViolationIsFatal(t *testing.T) {
	stream := NewScriptedStream(
		toolCall("flight_search", map[string]any{"from": "JFK", "to": "CDG", "depart_date": "https://api.example.com/flights"}),
		submissionEvent(emptySubmission),
	)

	out, err := testEngine().Run(context.Background(), testScenario(t), stream)
	require.NoError(t, err)

	require.NotNil(t, out.Report.Failure)
	assert.Equal(t, models.FailureSandboxViolation, out.Report.Failure.Kind)
	assert.True(t, out.Report.Failure.Fatal)
	assert.Zero(t, out.Report.Total)
	assert.Empty(t, out.Records, "violating call must not reach the ledger")
}

func TestRun_UnknownToolIsFatal(t *testing.T) {
	stream := NewScriptedStream(
		toolCall("book_flight", map[string]any{"flight_number": "AB123"}),
	)

	out, err := testEngine().Run(context.Background(), testScenario(t), stream)
	require.NoError(t, err)

	require.NotNil(t, out.Report.Failure)
	assert.Equal(t, models.FailureUnknownTool, out.Report.Failure.Kind)
	assert.True(t, out.Report.Failure.Fatal)
	assert.Zero(t, out.Report.Total)
}

func TestRun_IterationBudget(t *testing.T) {
	sc := testScenario(t)
	sc.Budgets.MaxToolCalls = 2

	events := make([]Event, 0, 4)
	for i := 0; i < 3; i++ {
		events = append(events, toolCall("restaurant_search", map[string]any{"city": "Paris"}))
	}
	events = append(events, submissionEvent(emptySubmission))

	out, err := testEngine().Run(context.Background(), sc, NewScriptedStream(events...))
	require.NoError(t, err)

	require.NotNil(t, out.Report.Failure)
	assert.Equal(t, models.FailureIterationBudget, out.Report.Failure.Kind)
	assert.False(t, out.Report.Failure.Fatal, "budget exhaustion scores the partial ledger")
	assert.Len(t, out.Records, 2, "calls within budget stay in the sealed ledger")
}

func TestRun_NoSubmission(t *testing.T) {
	stream := NewScriptedStream(
		toolCall("weather", map[string]any{"location": "Paris", "start_date": "2026-05-10", "end_date": "2026-05-15"}),
	)

	out, err := testEngine().Run(context.Background(), testScenario(t), stream)
	require.NoError(t, err)

	assert.Nil(t, out.Report.Failure)
	assert.False(t, out.Report.SchemaValid, "missing submission fails schema validation")
	assert.Len(t, out.Records, 1)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stream := NewScriptedStream(submissionEvent(emptySubmission))
	out, err := testEngine().Run(ctx, testScenario(t), stream)
	require.NoError(t, err)

	require.NotNil(t, out.Report.Failure)
	assert.Equal(t, models.FailureTimeout, out.Report.Failure.Kind)
	assert.False(t, out.Report.Failure.Fatal)
}

func TestRunBatch(t *testing.T) {
	jobs := []BatchJob{
		{
			Scenario: testScenario(t),
			NewStream: func() ToolCallStream {
				return NewScriptedStream(submissionEvent(emptySubmission))
			},
		},
		{
			Scenario: testScenario(t),
			NewStream: func() ToolCallStream {
				return NewScriptedStream(toolCall("book_flight", nil))
			},
		},
	}

	outcomes, err := testEngine().RunBatch(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Nil(t, outcomes[0].Report.Failure)
	require.NotNil(t, outcomes[1].Report.Failure)
	assert.Equal(t, models.FailureUnknownTool, outcomes[1].Report.Failure.Kind)
}
