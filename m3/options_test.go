package m3

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineOptionsFlags(t *testing.T) {
	var opts LineOptions
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.CreateFlags(f)

	assert.Equal(t, DefaultStartMarker, opts.StartMarker)
	assert.Equal(t, DefaultMidMarker, opts.MidMarker)
	assert.Equal(t, DefaultEndMarker, opts.EndMarker)

	require.NoError(t, f.Parse([]string{
		"--name-a=mine", "--name-b", "theirs", "--end-marker=>>", "--reprocess",
	}))
	assert.Equal(t, LineOptions{
		NameA:       "mine",
		NameB:       "theirs",
		StartMarker: DefaultStartMarker,
		MidMarker:   DefaultMidMarker,
		EndMarker:   ">>",
		Reprocess:   true,
	}, opts)
	assert.NoError(t, opts.Validate())

	require.NoError(t, f.Parse([]string{"--base-marker=|||||||"}))
	assert.ErrorIs(t, opts.Validate(), ErrIncompatibleOptions)
}

func TestMarkers(t *testing.T) {
	m := LineOptions{}.markers()
	assert.Equal(t, markerLines{
		start: DefaultStartMarker,
		mid:   DefaultMidMarker,
		end:   DefaultEndMarker,
	}, m)

	m = LineOptions{
		NameA:      "A",
		NameB:      "B",
		NameBase:   "BASE",
		MidMarker:  "==",
		BaseMarker: "||",
	}.markers()
	assert.Equal(t, markerLines{
		start:    DefaultStartMarker + " A",
		mid:      "==",
		end:      DefaultEndMarker + " B",
		base:     "|| BASE",
		showBase: true,
	}, m)

	// The base name is only used with a base marker.
	m = LineOptions{NameBase: "BASE"}.markers()
	assert.Empty(t, m.base)
	assert.False(t, m.showBase)
}
