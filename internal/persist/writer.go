// Package persist writes pipeline results to JSON files.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
)

// traceStampLayout renders as YYYYMMDD_HHMMSS.
const traceStampLayout = "20060102_150405"

// ErrEmptyTrace is returned by SaveTrace when there is nothing to write.
var ErrEmptyTrace = errors.New("empty trace body")

// Writer saves files under Dir. Existing files are overwritten.
type Writer struct {
	Dir string
	Now func() time.Time
}

// NewWriter returns a Writer rooted at dir using the wall clock.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Now: time.Now}
}

// RecordsFileName is the file name used for an address's transaction list.
func RecordsFileName(address string) string {
	return "transactions_" + safeName(address) + ".json"
}

// TraceFileName is the file name used for a trace. With stamp set the
// local time at is appended.
func TraceFileName(traceID string, at time.Time, stamp bool) string {
	name := safeName(traceID)
	if stamp {
		name += "_" + at.Format(traceStampLayout)
	}
	return name + ".json"
}

var nameReplacer = strings.NewReplacer("/", "_", "+", "-", "\\", "_", ":", "_")

// safeName maps characters found in base64 ids and raw addresses to ones
// that are valid in file names on every platform.
func safeName(s string) string {
	return nameReplacer.Replace(strings.TrimSpace(s))
}

// SaveRecords writes records as a 2-space indented JSON array and returns
// the file path.
func (w *Writer) SaveRecords(address string, records []ton.TransactionRecord) (string, error) {
	if records == nil {
		records = []ton.TransactionRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encoding records: %w", err)
	}
	return w.write(RecordsFileName(address), buf.Bytes())
}

// SaveTrace re-indents raw with 4 spaces and writes it. Non-ASCII text is
// kept as-is.
func (w *Writer) SaveTrace(traceID string, raw []byte, stamp bool) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", ErrEmptyTrace
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return "", fmt.Errorf("formatting trace: %w", err)
	}
	buf.WriteByte('\n')
	return w.write(TraceFileName(traceID, w.now(), stamp), buf.Bytes())
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

func (w *Writer) write(name string, data []byte) (string, error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// LoadRecords reads a file written by SaveRecords.
func LoadRecords(path string) ([]ton.TransactionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []ton.TransactionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
