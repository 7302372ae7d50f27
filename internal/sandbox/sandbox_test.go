package sandbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbeats/veritrail/internal/fixtures"
	"github.com/agentbeats/veritrail/internal/ledger"
	"github.com/agentbeats/veritrail/internal/seed"
)

func newTestRunner(t *testing.T) (*Runner, *ledger.Ledger) {
	t.Helper()
	seeds, err := seed.NewManager(42, "paris-spring-trip")
	require.NoError(t, err)

	store := fixtures.NewStore("paris-spring-trip", "v1")
	led := ledger.New("run-test")
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRunner(store, led, seeds.ToolSeed).WithClock(func() time.Time { return fixed })
	return r, led
}

func TestCall_AppendsExactlyOneRecord(t *testing.T) {
	r, led := newTestRunner(t)

	rec, err := r.Call("flight_search", map[string]any{
		"from": "JFK", "to": "CDG", "depart_date": "2026-05-10",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Seq)
	assert.Equal(t, "flight_search", rec.Tool)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, rec.ResultHash)
	assert.NotNil(t, rec.Result)
	assert.Equal(t, 1, led.Len())
}

func TestCall_Deterministic(t *testing.T) {
	args := map[string]any{"from": "JFK", "to": "CDG", "depart_date": "2026-05-10"}

	r1, _ := newTestRunner(t)
	r2, _ := newTestRunner(t)

	rec1, err := r1.Call("flight_search", args)
	require.NoError(t, err)
	rec2, err := r2.Call("flight_search", args)
	require.NoError(t, err)

	assert.Equal(t, rec1.ResultHash, rec2.ResultHash)
	assert.Equal(t, rec1.SubSeed, rec2.SubSeed)
}

func TestCall_UnknownTool(t *testing.T) {
	r, led := newTestRunner(t)

	_, err := r.Call("book_flight", map[string]any{})
	var unknown *fixtures.UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 0, led.Len(), "failed calls must not append")
}

func TestCall_InvalidArguments(t *testing.T) {
	r, led := newTestRunner(t)

	_, err := r.Call("flight_search", map[string]any{
		"from": "JFK", "to": "CDG", "depart_date": "2026-05-10", "extra": true,
	})
	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "flight_search", violation.Tool)
	assert.Equal(t, 0, led.Len())
}

func TestCall_NetworkAttempts(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"url in string", map[string]any{"from": "JFK", "to": "CDG", "depart_date": "https://api.flights.example/search"}},
		{"localhost", map[string]any{"city": "localhost", "check_in": "2026-05-10", "check_out": "2026-05-15"}},
		{"raw ip with port", map[string]any{"city": "10.0.0.1:8080", "check_in": "2026-05-10", "check_out": "2026-05-15"}},
		{"nested value", map[string]any{"city": "Paris", "check_in": "2026-05-10", "check_out": "ws://upstream"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, led := newTestRunner(t)

			tool := "hotel_search"
			if _, ok := tt.args["from"]; ok {
				tool = "flight_search"
			}
			_, err := r.Call(tool, tt.args)
			var violation *ViolationError
			require.ErrorAs(t, err, &violation)
			assert.Contains(t, violation.Reason, "network endpoint")
			assert.Equal(t, 0, led.Len())
		})
	}
}

func TestCall_SequenceAcrossTools(t *testing.T) {
	r, led := newTestRunner(t)

	_, err := r.Call("flight_search", map[string]any{"from": "JFK", "to": "CDG", "depart_date": "2026-05-10"})
	require.NoError(t, err)
	_, err = r.Call("weather", map[string]any{"location": "Paris", "start_date": "2026-05-10", "end_date": "2026-05-15"})
	require.NoError(t, err)
	rec, err := r.Call("restaurant_search", map[string]any{"city": "Paris"})
	require.NoError(t, err)

	assert.Equal(t, 3, rec.Seq)
	require.NoError(t, led.Verify())
}
