// Package core classifies spreadsheet rows and splits a worksheet into a
// cleaned workbook and an excluded-items workbook.
//
// # Classification
//
// A row is excluded when any inspected cell is written in a foreign script
// ([ScriptDetector]) or contains one of the request's keywords
// ([KeywordMatcher]). With no keywords only the script check applies.
// Classification is pure: it never fails and never touches the row.
//
//	c := core.NewClassifier(nil, []string{"promo"})
//	c.Classify(core.TextRow("harga promo"))  // Exclude, keyword_match
//	c.Classify(core.TextRow("日本語テキスト")) // Exclude, foreign_script
//	c.Classify(core.TextRow("info umum"))    // Keep
//
// # Partitioning
//
//  1. [ReadSheet] loads the requested sheet (exact, case-sensitive name)
//  2. [PartitionChunked] classifies rows, concurrently for large sheets
//  3. [EncodeWorkbook] writes kept and excluded rows under the same header
//  4. [Service.Process] stores both workbooks as short-lived artifacts
//
// # Error Handling
//
// Only sheet resolution and file parsing can fail, and they fail before any
// rows are classified. [MapError] turns errors into user messages with a
// support code (SHEET001, FILE002, ART001, ...).
package core
