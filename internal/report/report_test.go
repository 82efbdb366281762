package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dmdv/ants-simulation/internal/mapfile"
	"github.com/Dmdv/ants-simulation/internal/report"
)

func TestPrinter_TwoAnts(t *testing.T) {
	var b strings.Builder
	p := &report.Printer{W: &b}
	p.ColonyDestroyed(report.DestructionEvent{Tick: 3, Colony: "Buzz", Ants: []int{0, 1}})
	assert.Equal(t, "Buzz has been destroyed by ant 0 and ant 1!\n", b.String())
}

func TestPrinter_Pileup(t *testing.T) {
	var b strings.Builder
	p := &report.Printer{W: &b}
	p.ColonyDestroyed(report.DestructionEvent{Tick: 1, Colony: "Center", Ants: []int{2, 5, 9}})
	assert.Equal(t, "Center has been destroyed by ant 2, ant 5 and ant 9!\n", b.String())
}

func TestCollector_CopiesAntSlice(t *testing.T) {
	var c report.Collector
	ants := []int{0, 1}
	c.ColonyDestroyed(report.DestructionEvent{Tick: 1, Colony: "Fizz", Ants: ants})
	ants[0] = 99
	require.Len(t, c.Events(), 1)
	assert.Equal(t, []int{0, 1}, c.Events()[0].Ants)
}

func TestRenderMap_RoundTrips(t *testing.T) {
	in := "Fizz north=Buzz east=Bang\nBuzz south=Fizz\nBang west=Fizz\n"
	g, err := mapfile.Parse(strings.NewReader(in))
	require.NoError(t, err)

	out := report.RenderMap(g)
	assert.Equal(t, in, out)

	// Rendered output must itself be a parseable map.
	g2, err := mapfile.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, g.Count(), g2.Count())
}

func TestRenderMap_AfterDestruction(t *testing.T) {
	in := "Fizz north=Buzz east=Bang\nBuzz south=Fizz\nBang west=Fizz\n"
	g, err := mapfile.Parse(strings.NewReader(in))
	require.NoError(t, err)
	g.Destroy("Buzz")
	assert.Equal(t, "Fizz east=Bang\nBang west=Fizz\n", report.RenderMap(g))
}
