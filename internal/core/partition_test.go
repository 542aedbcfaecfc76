package core

import (
	"fmt"
	"reflect"
	"testing"
)

func rowStrings(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Strings()
	}
	return out
}

func TestPartition(t *testing.T) {
	header := TextRow("Text")
	rows := []Row{
		TextRow("harga promo"),
		TextRow("info umum"),
		TextRow("日本語テキスト"),
	}

	tests := []struct {
		name         string
		keywords     []string
		wantKept     [][]string
		wantExcluded [][]string
		wantReasons  []Reason
	}{
		{
			name:         "keywords and foreign script",
			keywords:     []string{"promo"},
			wantKept:     [][]string{{"info umum"}},
			wantExcluded: [][]string{{"harga promo"}, {"日本語テキスト"}},
			wantReasons:  []Reason{ReasonKeywordMatch, ReasonForeignScript},
		},
		{
			name:         "foreign script only",
			keywords:     nil,
			wantKept:     [][]string{{"harga promo"}, {"info umum"}},
			wantExcluded: [][]string{{"日本語テキスト"}},
			wantReasons:  []Reason{ReasonForeignScript},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(header, rows, NewClassifier(nil, tt.keywords))

			if !reflect.DeepEqual(got.Header, header) {
				t.Errorf("Header = %q, want %q", got.Header.Strings(), header.Strings())
			}
			if k := rowStrings(got.Kept); !reflect.DeepEqual(k, tt.wantKept) {
				t.Errorf("Kept = %q, want %q", k, tt.wantKept)
			}
			if e := rowStrings(got.Excluded); !reflect.DeepEqual(e, tt.wantExcluded) {
				t.Errorf("Excluded = %q, want %q", e, tt.wantExcluded)
			}
			if !reflect.DeepEqual(got.ExcludedReasons, tt.wantReasons) {
				t.Errorf("ExcludedReasons = %v, want %v", got.ExcludedReasons, tt.wantReasons)
			}
		})
	}
}

func TestPartition_Empty(t *testing.T) {
	got := Partition(TextRow("Text"), nil, NewClassifier(nil, []string{"promo"}))
	if len(got.Kept) != 0 || len(got.Excluded) != 0 {
		t.Errorf("empty input produced rows: %+v", got)
	}
	if s := got.Summary(); s != (Summary{}) {
		t.Errorf("Summary = %+v, want zero", s)
	}
}

func TestPartitionChunked_MatchesSequential(t *testing.T) {
	texts := []string{"info umum", "harga promo", "日本語", "promo 中文", "", "Café 🔥"}
	rows := make([]Row, 1003)
	for i := range rows {
		rows[i] = TextRow(fmt.Sprintf("row-%04d", i), texts[i%len(texts)])
	}
	c := NewClassifier(nil, []string{"promo"})

	seq := PartitionChunked(nil, rows, c, len(rows))
	par := PartitionChunked(nil, rows, c, 7)

	if !reflect.DeepEqual(seq, par) {
		t.Fatal("chunked partition differs from sequential partition")
	}

	// Every row lands on exactly one side, in source order.
	if len(par.Kept)+len(par.Excluded) != len(rows) {
		t.Fatalf("kept %d + excluded %d != %d", len(par.Kept), len(par.Excluded), len(rows))
	}
	seen := make(map[string]bool, len(rows))
	for _, side := range [][]Row{par.Kept, par.Excluded} {
		prev := ""
		for _, r := range side {
			id := r[0].Value
			if seen[id] {
				t.Fatalf("%s appears twice", id)
			}
			seen[id] = true
			if id <= prev {
				t.Fatalf("order broken: %s after %s", id, prev)
			}
			prev = id
		}
	}

	s := par.Summary()
	if s.TotalRows != len(rows) || s.ExcludedRows != len(par.Excluded) {
		t.Errorf("Summary = %+v", s)
	}
	if s.ForeignScript+s.KeywordMatch+s.Both != s.ExcludedRows {
		t.Errorf("reason counts do not add up: %+v", s)
	}
	if s.Both == 0 || s.ForeignScript == 0 || s.KeywordMatch == 0 {
		t.Errorf("expected every reason to occur: %+v", s)
	}
}

func TestPartition_RowsAreShared(t *testing.T) {
	rows := []Row{TextRow("info umum", "42")}
	got := Partition(TextRow("A", "B"), rows, NewClassifier(nil, nil))

	if !reflect.DeepEqual(got.Kept[0], rows[0]) {
		t.Errorf("kept row changed: %q", got.Kept[0].Strings())
	}
}
