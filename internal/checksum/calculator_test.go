package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCalculateRaw_DiffersOnAnyChange(t *testing.T) {
	calculator := New()
	a := calculator.CalculateRaw([]byte("Date,Revenue\n2025-01-01,100\n"))
	b := calculator.CalculateRaw([]byte("Date,Revenue\r\n2025-01-01,100\r\n"))
	if a == b {
		t.Error("raw checksum should differ when line endings differ")
	}
}

func TestCalculateNormalized_IgnoresLineEndings(t *testing.T) {
	calculator := New()
	lf := calculator.CalculateNormalized([]byte("Date,Revenue\n2025-01-01,100\n"))
	crlf := calculator.CalculateNormalized([]byte("Date,Revenue\r\n2025-01-01,100\r\n"))
	cr := calculator.CalculateNormalized([]byte("Date,Revenue\r2025-01-01,100\r"))
	if lf != crlf || lf != cr {
		t.Error("normalized checksum should be line-ending independent")
	}
}

func TestCalculateNormalized_IgnoresTrailingWhitespaceAndBlankLines(t *testing.T) {
	calculator := New()
	clean := calculator.CalculateNormalized([]byte("Date,Revenue\n2025-01-01,100\n"))
	messy := calculator.CalculateNormalized([]byte("Date,Revenue  \t\n\n2025-01-01,100\n\n\n"))
	if clean != messy {
		t.Error("normalized checksum should ignore trailing whitespace and blank lines")
	}
}

func TestCalculateNormalized_DetectsDataChanges(t *testing.T) {
	calculator := New()
	a := calculator.CalculateNormalized([]byte("Date,Revenue\n2025-01-01,100\n"))
	b := calculator.CalculateNormalized([]byte("Date,Revenue\n2025-01-01,200\n"))
	if a == b {
		t.Error("normalized checksum must change when a value changes")
	}
}

func TestFileNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("Date,Revenue\n2025-01-01,100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	calculator := New()
	got, err := calculator.FileNormalized(path)
	if err != nil {
		t.Fatalf("FileNormalized() error: %v", err)
	}
	want := calculator.CalculateNormalized([]byte("Date,Revenue\n2025-01-01,100\n"))
	if got != want {
		t.Errorf("FileNormalized() = %s, want %s", got, want)
	}
}

func TestFileNormalized_MissingFile(t *testing.T) {
	calculator := New()
	if _, err := calculator.FileNormalized(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
