// Package timing extracts task durations from syft's verbose log output.
package timing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spboyer/syftviz/internal/models"
)

// maxLineSize bounds a single log line; syft lines with long package lists
// overflow bufio's 64KiB default.
const maxLineSize = 1024 * 1024

var linePattern = regexp.MustCompile(
	`task completed\s+elapsed=(\d+(?:\.\d*)?(?:m\d+(?:\.\d*)?)?(?:ms|µs|μs|s))\s+(?:from-lib=(\S+)\s+)?task=(\S+)`,
)

// ParseLine extracts a timing record from a single log line. ok is false
// when the line does not report a completed task. A malformed elapsed token
// still yields a record, with zero duration, alongside a *DurationError.
func ParseLine(line string) (rec models.TimingRecord, ok bool, err error) {
	if strings.Contains(line, "\x1b") {
		line = ansi.Strip(line)
	}
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return models.TimingRecord{}, false, nil
	}
	seconds, err := ParseDuration(m[1])
	return models.NewTimingRecord(m[3], m[2], seconds), true, err
}

// Parser reads log streams and collects the timing records they contain.
type Parser struct {
	logger *slog.Logger
}

// NewParser returns a Parser that reports unreadable durations to logger.
// A nil logger means slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse consumes r line by line. Lines without timing data are ignored; the
// returned error is only ever a read failure.
func (p *Parser) Parse(r io.Reader) ([]models.TimingRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []models.TimingRecord
	lineNo := 0
	for sc.Scan() {
		lineNo++
		rec, ok, err := ParseLine(sc.Text())
		if !ok {
			continue
		}
		if err != nil {
			attrs := []any{"line", lineNo, "task", rec.Name, "error", err}
			var de *DurationError
			if errors.As(err, &de) {
				attrs = append(attrs, "token", de.Token)
			}
			p.logger.Warn("Unreadable elapsed time, counting as zero", attrs...)
		}
		p.logger.Debug("Timing record", "task", rec.Name, "library", rec.Library, "seconds", rec.Duration)
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return records, nil
}
