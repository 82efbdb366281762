package mapfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dmdv/ants-simulation/internal/colony"
	"github.com/Dmdv/ants-simulation/internal/mapfile"
)

func TestParse_BasicMap(t *testing.T) {
	in := strings.TrimSpace(`
Fizz north=Buzz east=Bang
Buzz south=Fizz
Bang west=Fizz
`)
	g, err := mapfile.Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Count())
	assert.Equal(t, []colony.Edge{
		{Direction: "north", Target: "Buzz"},
		{Direction: "east", Target: "Bang"},
	}, g.Neighbors("Fizz"))
}

func TestParse_ImplicitTargetColony(t *testing.T) {
	g, err := mapfile.Parse(strings.NewReader("Fizz north=Hidden\n"))
	require.NoError(t, err)
	assert.True(t, g.Exists("Hidden"))
	assert.Empty(t, g.Neighbors("Hidden"))
	assert.Equal(t, 2, g.Count())
}

func TestParse_SkipsBlankAndCommentLines(t *testing.T) {
	in := "\n# the northern cluster\nFizz north=Buzz\n\nBuzz south=Fizz\n"
	g, err := mapfile.Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Count())
}

func TestParse_DuplicateDefinition(t *testing.T) {
	in := "Fizz north=Buzz\nFizz south=Buzz\n"
	_, err := mapfile.Parse(strings.NewReader(in))
	require.Error(t, err)
	var perr *mapfile.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Reason, "duplicate definition")
}

func TestParse_MalformedTunnel(t *testing.T) {
	for _, tok := range []string{"north", "=Buzz", "north="} {
		_, err := mapfile.Parse(strings.NewReader("Fizz " + tok + "\n"))
		var perr *mapfile.ParseError
		require.ErrorAs(t, err, &perr, "token %q", tok)
		assert.Contains(t, perr.Reason, "malformed tunnel")
	}
}

func TestParse_DirectionListedTwice(t *testing.T) {
	_, err := mapfile.Parse(strings.NewReader("Fizz north=Buzz north=Bang\n"))
	var perr *mapfile.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Reason, "listed twice")
}

func TestParse_CollectsAllErrors(t *testing.T) {
	in := "Fizz north\nFizz south=Buzz\n"
	_, err := mapfile.Parse(strings.NewReader(in))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "malformed tunnel")
	assert.Contains(t, msg, "duplicate definition")
}

func TestParse_EmptyMap(t *testing.T) {
	_, err := mapfile.Parse(strings.NewReader("\n  \n"))
	var perr *mapfile.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Reason, "no colonies")
}
