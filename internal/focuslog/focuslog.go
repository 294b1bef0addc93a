// Package focuslog records the monitor's serial event lines into a CSV file
// on the host.
package focuslog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// TimeLayout is the Timestamp column format.
const TimeLayout = "2006-01-02 15:04:05"

// RawLabel marks lines that do not start with a known event name.
const RawLabel = "Raw_Log"

var header = []string{"Timestamp", "Event", "Raw"}

var knownEvents = map[string]bool{
	"SIT":    true,
	"AWAY":   true,
	"ALARM":  true,
	"RESET":  true,
	"VIEW":   true,
	"SENSOR": true,
}

// Row is one logged line.
type Row struct {
	Time  time.Time
	Event string
	Raw   string
}

// Label returns the event name of line, or RawLabel.
func Label(line string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	if knownEvents[first] {
		return first
	}
	return RawLabel
}

// IsBanner reports whether line is the monitor's start-up banner.
func IsBanner(line string) bool {
	return strings.HasPrefix(line, "Monitor Active")
}

// Sink appends rows to a CSV file.
type Sink struct {
	f *os.File
	w *csv.Writer
}

// OpenCSV opens path for appending. The header row is written only when the
// file is new or empty.
func OpenCSV(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat csv: %w", err)
	}

	s := &Sink{f: f, w: csv.NewWriter(f)}
	if st.Size() == 0 {
		if err := s.writeRecord(header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

// Write appends r and flushes it to disk.
func (s *Sink) Write(r Row) error {
	return s.writeRecord([]string{r.Time.Format(TimeLayout), r.Event, r.Raw})
}

func (s *Sink) writeRecord(rec []string) error {
	if err := s.w.Write(rec); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	s.w.Flush()
	return errors.Join(s.w.Error(), s.f.Close())
}

// RowWriter receives rows from Run.
type RowWriter interface {
	Write(Row) error
}

// Run reads newline-terminated lines from r until EOF or ctx is done and
// writes one row per line. Blank lines and the banner are dropped. Reads
// block; to stop early the caller closes r after cancelling ctx.
func Run(ctx context.Context, r io.Reader, w RowWriter, now func() time.Time, log *slog.Logger) error {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || IsBanner(line) {
			continue
		}

		row := Row{Time: now(), Event: Label(line), Raw: line}
		log.Info("monitor event", "event", row.Event, "raw", row.Raw)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read serial: %w", err)
	}
	return nil
}
