package core

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		row      Row
		keywords []string
		want     Verdict
	}{
		{"keyword hit", TextRow("harga promo"), []string{"promo"}, Verdict{Exclude, ReasonKeywordMatch}},
		{"clean text", TextRow("info umum"), []string{"promo"}, Verdict{Keep, ReasonNone}},
		{"foreign script", TextRow("日本語テキスト"), []string{"promo"}, Verdict{Exclude, ReasonForeignScript}},
		{"foreign only mode keeps keyword text", TextRow("harga promo"), nil, Verdict{Keep, ReasonNone}},
		{"foreign only mode excludes foreign", TextRow("日本語テキスト"), nil, Verdict{Exclude, ReasonForeignScript}},
		{"both across cells", TextRow("harga promo", "中文"), []string{"promo"}, Verdict{Exclude, ReasonBoth}},
		{"both in one cell", TextRow("promo 中文"), []string{"promo"}, Verdict{Exclude, ReasonBoth}},
		{"keyword in later cell", TextRow("info", "umum", "PROMO"), []string{"promo"}, Verdict{Exclude, ReasonKeywordMatch}},
		{"blank row", Row{{}, {}, {}}, []string{"promo"}, Verdict{Keep, ReasonNone}},
		{"empty row", Row{}, []string{"promo"}, Verdict{Keep, ReasonNone}},
		{"numbers and emoji", Row{{Value: "42", Kind: CellNumber}, TextCell("🔥🔥")}, nil, Verdict{Keep, ReasonNone}},
		{"keyword matches number", Row{{Value: "2024", Kind: CellNumber}}, []string{"2024"}, Verdict{Exclude, ReasonKeywordMatch}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.row, tt.keywords); got != tt.want {
				t.Errorf("Classify(%v, %q) = %+v, want %+v", tt.row.Strings(), tt.keywords, got, tt.want)
			}
		})
	}
}

func TestClassifier_WithColumn(t *testing.T) {
	c := NewClassifier(nil, []string{"promo"})
	row := TextRow("日本語", "info umum", "promo")

	tests := []struct {
		col  int
		want Verdict
	}{
		{-1, Verdict{Exclude, ReasonBoth}},
		{0, Verdict{Exclude, ReasonForeignScript}},
		{1, Verdict{Keep, ReasonNone}},
		{2, Verdict{Exclude, ReasonKeywordMatch}},
		{7, Verdict{Keep, ReasonNone}},
	}
	for _, tt := range tests {
		if got := c.WithColumn(tt.col).Classify(row); got != tt.want {
			t.Errorf("column %d: got %+v, want %+v", tt.col, got, tt.want)
		}
	}

	// WithColumn returns a copy
	if got := c.Classify(row); got.Reason != ReasonBoth {
		t.Errorf("original classifier changed: %+v", got)
	}
}

func TestClassify_DoesNotMutateRow(t *testing.T) {
	row := TextRow("  Harga   PROMO ", "日本")
	before := append(Row(nil), row...)

	Classify(row, []string{"promo"})

	if !reflect.DeepEqual(row, before) {
		t.Errorf("row mutated: got %v, want %v", row.Strings(), before.Strings())
	}
}
