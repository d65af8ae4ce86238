package domain

// ParseOutcome tags the result of parsing model output into clauses.
type ParseOutcome int

// Parse outcomes.
const (
	// ParseEmpty means no clause could be recovered.
	ParseEmpty ParseOutcome = iota

	// ParseSuccess means every parsed object became a clause.
	ParseSuccess

	// ParsePartial means some clauses were recovered and some objects were dropped.
	ParsePartial
)

// String returns the string representation.
func (o ParseOutcome) String() string {
	switch o {
	case ParseSuccess:
		return "success"
	case ParsePartial:
		return "partial"
	case ParseEmpty:
		return "empty"
	default:
		return unknownDescription
	}
}

// ParseStrategy names the parsing step that produced a result.
type ParseStrategy string

// Parse strategies, in the order they are attempted.
const (
	StrategyStrict  ParseStrategy = "strict"
	StrategyBracket ParseStrategy = "bracket"
	StrategyLines   ParseStrategy = "lines"
	StrategyNone    ParseStrategy = "none"
)

// ParseResult is the tagged outcome of ClauseParser.Parse.
type ParseResult struct {
	Outcome  ParseOutcome
	Strategy ParseStrategy

	// Clauses is never nil.
	Clauses []Clause

	// Skipped counts objects that lacked both title and summary.
	Skipped int
}

// EmptyParse returns the result for input that yielded nothing.
func EmptyParse() ParseResult {
	return ParseResult{
		Outcome:  ParseEmpty,
		Strategy: StrategyNone,
		Clauses:  []Clause{},
	}
}
