package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreLineScenario(t *testing.T) {
	require.Equal(t, 8, ScoreLine("if (x) { for (y) { list.map(z); } }"))
}

// The legacy base rule adds 1 to every line, including blank and
// single-character lines.
func TestScoreLineBaseIsAlwaysOne(t *testing.T) {
	for _, line := range []string{"", "   ", "\t", "}", " ; ", "int x = 1;"} {
		require.Equal(t, 1, ScoreLine(line), "line %q", line)
	}
}

func TestScoreLineWeights(t *testing.T) {
	cases := map[string]int{
		"if ":                      2,
		"for ":                     4,
		"xs.map(f)":                4,
		"xs.stream()":              4,
		"xs.flatMap(f)":            4,
		"xs.flatMapIterable(f)":    7,
		"xs.expand(f)":             4,
		"if (a) if (b) if (c)":     4,
		"iff(x)":                   1,
		"if(x)":                    1,
		"forEach(x)":               1,
		"// if this for that":      5,
		`log("for each .map")`:     7,
		"list.stream().map(f)":     7,
		"list.stream().mapToInt()": 7,
	}
	for line, want := range cases {
		require.Equal(t, want, ScoreLine(line), "line %q", line)
	}
}

func TestScoreLineCountsNonOverlapping(t *testing.T) {
	require.Equal(t, 1+3*2, ScoreLine("a.map.map"))
	require.Equal(t, 1+1*2, ScoreLine("if if "))
}
