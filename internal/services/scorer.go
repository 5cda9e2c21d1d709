package services

import "strings"

type scorePattern struct {
	literal string
	weight  int
}

// Counted independently: ".flatMapIterable" also matches ".flatMap".
var scorePatterns = []scorePattern{
	{literal: "if ", weight: 1},
	{literal: "for ", weight: 3},
	{literal: ".map", weight: 3},
	{literal: ".stream", weight: 3},
	{literal: ".flatMap", weight: 3},
	{literal: ".flatMapIterable", weight: 3},
	{literal: ".expand", weight: 3},
}

// ScoreLine returns the complexity weight of a single line. Patterns are
// counted as non-overlapping literal substrings of the raw line, so matches
// inside comments and string literals score too.
func ScoreLine(line string) int {
	score := scoreBase(line)
	for _, pattern := range scorePatterns {
		score += pattern.weight * strings.Count(line, pattern.literal)
	}
	return score
}

// scoreBase keeps the legacy condition as written. An empty trimmed line has
// length 0, so the condition holds for every line and each one adds 1,
// blank lines included.
func scoreBase(line string) int {
	trimmed := strings.TrimSpace(line)
	if trimmed != "" || len(trimmed) != 1 {
		return 1
	}
	return 0
}
