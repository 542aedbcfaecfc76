package core

// Classifier combines script detection and keyword matching into one
// keep/exclude verdict per row. It never mutates rows and never fails.
type Classifier struct {
	detector *ScriptDetector
	matcher  *KeywordMatcher

	// column is the only cell index inspected when >= 0.
	column int
}

// NewClassifier returns a classifier that inspects every cell of a row.
// A nil detector falls back to DefaultScriptDetector. With an empty keyword
// list only the script check applies.
func NewClassifier(detector *ScriptDetector, keywords []string) *Classifier {
	if detector == nil {
		detector = DefaultScriptDetector()
	}
	return &Classifier{
		detector: detector,
		matcher:  NewKeywordMatcher(keywords),
		column:   -1,
	}
}

// WithColumn returns a copy of the classifier that only inspects the cell at
// index col. A negative col inspects every cell.
func (c *Classifier) WithColumn(col int) *Classifier {
	cp := *c
	if col < 0 {
		col = -1
	}
	cp.column = col
	return &cp
}

// Classify returns the verdict for row. Both checks run on every inspected
// cell so the reason reflects all evidence, not just the first hit.
func (c *Classifier) Classify(row Row) Verdict {
	var foreign, keyword bool

	check := func(cell Cell) {
		if cell.IsEmpty() {
			return
		}
		if !foreign && c.detector.IsForeign(cell.Value) {
			foreign = true
		}
		if !keyword && c.matcher.Match(cell.Value) {
			keyword = true
		}
	}

	if c.column >= 0 {
		if c.column < len(row) {
			check(row[c.column])
		}
	} else {
		for _, cell := range row {
			check(cell)
			if foreign && keyword {
				break
			}
		}
	}

	switch {
	case foreign && keyword:
		return Verdict{Decision: Exclude, Reason: ReasonBoth}
	case foreign:
		return Verdict{Decision: Exclude, Reason: ReasonForeignScript}
	case keyword:
		return Verdict{Decision: Exclude, Reason: ReasonKeywordMatch}
	default:
		return Verdict{Decision: Keep}
	}
}

// Classify is the one-shot form using the default detector.
func Classify(row Row, keywords []string) Verdict {
	return NewClassifier(nil, keywords).Classify(row)
}
