package core

// CellKind identifies what a spreadsheet cell held when it was read.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
)

// Cell is a single spreadsheet value. Value is the text shown to a user;
// for CellNumber it is the raw numeric literal.
type Cell struct {
	Value string
	Kind  CellKind
}

// TextCell returns a Cell holding s, or an empty Cell when s is "".
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Value: s, Kind: CellText}
}

// IsEmpty reports whether the cell carries no content.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || c.Value == ""
}

// Row is an ordered sequence of cells aligned to a sheet header.
type Row []Cell

// Strings returns the display values of the row.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Value
	}
	return out
}

// IsBlank reports whether every cell in the row is empty.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// TextRow builds a Row of text cells. Handy for tests and fixtures.
func TextRow(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = TextCell(v)
	}
	return row
}

// Decision is the keep/exclude outcome for a row.
type Decision int

const (
	Keep Decision = iota
	Exclude
)

func (d Decision) String() string {
	if d == Exclude {
		return "exclude"
	}
	return "keep"
}

// Reason records why a row was excluded.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonForeignScript
	ReasonKeywordMatch
	ReasonBoth
)

func (r Reason) String() string {
	switch r {
	case ReasonForeignScript:
		return "foreign_script"
	case ReasonKeywordMatch:
		return "keyword_match"
	case ReasonBoth:
		return "both"
	default:
		return "none"
	}
}

// Verdict is the classification of a single row.
type Verdict struct {
	Decision Decision
	Reason   Reason
}

// PartitionResult holds the rows of one sheet split by verdict.
// Every data row appears in exactly one of Kept or Excluded, in source order.
type PartitionResult struct {
	Header   Row
	Kept     []Row
	Excluded []Row

	// ExcludedReasons is aligned with Excluded.
	ExcludedReasons []Reason
}

// Summary counts rows per outcome.
type Summary struct {
	TotalRows     int `json:"total_rows"`
	KeptRows      int `json:"kept_rows"`
	ExcludedRows  int `json:"excluded_rows"`
	ForeignScript int `json:"foreign_script"`
	KeywordMatch  int `json:"keyword_match"`
	Both          int `json:"both"`
}

// Summary tallies the partition.
func (p *PartitionResult) Summary() Summary {
	s := Summary{
		TotalRows:    len(p.Kept) + len(p.Excluded),
		KeptRows:     len(p.Kept),
		ExcludedRows: len(p.Excluded),
	}
	for _, r := range p.ExcludedReasons {
		switch r {
		case ReasonForeignScript:
			s.ForeignScript++
		case ReasonKeywordMatch:
			s.KeywordMatch++
		case ReasonBoth:
			s.Both++
		}
	}
	return s
}
