package util

import (
	"strings"
	"testing"
)

func TestWriteCSV_LineCount(t *testing.T) {
	header := []string{"id", "name"}
	rows := [][]string{
		{"1", "Alice"},
		{"2", "Bob"},
		{"3", "Carol"},
	}
	out := string(WriteCSV(header, rows))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(rows)+1 {
		t.Fatalf("expected %d lines, got %d", len(rows)+1, len(lines))
	}
	if lines[0] != `"id","name"` {
		t.Errorf("unexpected header: %s", lines[0])
	}
}

func TestWriteCSV_AllFieldsQuoted(t *testing.T) {
	out := string(WriteCSV([]string{"a"}, [][]string{{"plain"}, {""}}))
	want := "\"a\"\n\"plain\"\n\"\"\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestWriteCSV_EmbeddedQuotesDoubled(t *testing.T) {
	out := string(WriteCSV([]string{"name"}, [][]string{{`Alice "Ace" Smith`}}))
	if !strings.Contains(out, `"Alice ""Ace"" Smith"`) {
		t.Fatalf("embedded quotes not doubled: %s", out)
	}
}

func TestWriteCSV_CommasStayInsideQuotes(t *testing.T) {
	out := string(WriteCSV([]string{"name", "dept"}, [][]string{{"Smith, Alice", "CSE"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[1] != `"Smith, Alice","CSE"` {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}
