package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dmdv/ants-simulation/internal/config"
	"github.com/Dmdv/ants-simulation/internal/runner"
	"github.com/Dmdv/ants-simulation/internal/sim"
)

const swapMap = "Fizz north=Buzz\nBuzz south=Fizz\n"

func newRunner(t *testing.T) *runner.Runner {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := runner.New(ctx, config.Default())
	t.Cleanup(func() {
		cancel()
		r.Shutdown()
	})
	return r
}

func TestRunner_RunSync(t *testing.T) {
	r := newRunner(t)
	seed := uint64(1)
	res, err := r.RunSync(context.Background(), &runner.Request{
		ID:      "run-1",
		MapText: swapMap,
		Ants:    2,
		Seed:    &seed,
		Starts:  []string{"Fizz", "Buzz"},
	})
	require.NoError(t, err)
	require.Empty(t, res.Error)
	require.NotNil(t, res.Summary)
	assert.Equal(t, sim.OutcomeTerminated, res.Summary.Outcome)
	assert.Len(t, res.Events, 1)
	assert.Equal(t, seed, res.Seed)
	assert.NotEmpty(t, res.FinalMap)

	stored, ok := r.Result("run-1")
	require.True(t, ok)
	assert.Equal(t, res, stored)
}

func TestRunner_BadMapReported(t *testing.T) {
	r := newRunner(t)
	res, err := r.RunSync(context.Background(), &runner.Request{
		ID:      "run-bad",
		MapText: "Fizz north\n",
		Ants:    1,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Error, "malformed tunnel")
	assert.Nil(t, res.Summary)
}

func TestRunner_BadParamsReported(t *testing.T) {
	r := newRunner(t)
	res, err := r.RunSync(context.Background(), &runner.Request{
		MapText: swapMap,
		Ants:    0,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Error, "invalid configuration")
}

func TestRunner_UnknownResult(t *testing.T) {
	r := newRunner(t)
	_, ok := r.Result("ghost")
	assert.False(t, ok)
}

func TestRunner_DefaultsHotSwap(t *testing.T) {
	r := newRunner(t)
	r.UpdateDefaults(config.SimConf{MaxTicks: 7, MaxMoves: sim.DefaultMaxMoves})

	seed := uint64(3)
	res, err := r.RunSync(context.Background(), &runner.Request{
		MapText: "Aa east=Bb\nBb east=Cc\nCc east=Aa\n",
		Ants:    3,
		Seed:    &seed,
		Starts:  []string{"Aa", "Bb", "Cc"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
	assert.Equal(t, sim.OutcomeBounded, res.Summary.Outcome)
	assert.Equal(t, 7, res.Summary.Ticks)
}
