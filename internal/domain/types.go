package domain

type SortMode string

const (
	SortByScore SortMode = "score"
	SortByName  SortMode = "name"
	SortByLines SortMode = "lines"
)

// RecognizedExtension is the only file extension the scorer reads.
const RecognizedExtension = "java"
