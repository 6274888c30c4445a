// Package chart ranks timing records and renders them as a proportional bar
// chart.
package chart

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"strings"

	"github.com/spboyer/syftviz/internal/metrics"
	"github.com/spboyer/syftviz/internal/models"
)

// ErrNoTimingData is returned when there is nothing to chart: no records, or
// records whose durations add up to zero.
var ErrNoTimingData = errors.New("No timing data found in input")

const (
	DefaultWidth     = 40
	DefaultThreshold = 0.01 // percent

	// Fill is the bar character.
	Fill = "█"

	// barTolerance keeps float noise (29.999999999999996) from pushing a bar
	// one cell past its true ceiling, or exact multiples one cell over.
	barTolerance = 1e-9
)

// Options controls how records are turned into rows.
type Options struct {
	// Width is the bar length, in cells, of a task taking 100% of the time.
	Width int
	// Threshold hides rows whose share, in percent, is below it.
	Threshold float64
}

// DefaultOptions returns the 40-cell, 0.01% configuration.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Threshold: DefaultThreshold}
}

// Row is one rendered task.
type Row struct {
	Name      string  `json:"name"`
	Library   string  `json:"library,omitempty"`
	Duration  float64 `json:"seconds"`
	Percent   float64 `json:"percent"`
	BarLength int     `json:"bar_length"`
}

// Bar returns the row's bar as BarLength fill characters.
func (r Row) Bar() string {
	return strings.Repeat(Fill, r.BarLength)
}

// Chart is the ranked, share-annotated view of a set of records.
type Chart struct {
	Rows      []Row
	Total     float64
	Tasks     int
	Omitted   int
	Mean      float64
	Median    float64
	Width     int
	Threshold float64
}

// Build sorts records by duration, longest first, keeping input order for
// ties, and computes each one's share of the total.
func Build(records []models.TimingRecord, opts Options) (*Chart, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Threshold < 0 {
		opts.Threshold = 0
	}

	durations := make([]float64, len(records))
	for i, r := range records {
		durations[i] = r.Duration
	}
	total := metrics.Sum(durations)
	if len(records) == 0 || total <= 0 {
		return nil, ErrNoTimingData
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.TimingRecord) int {
		return cmp.Compare(b.Duration, a.Duration)
	})

	c := &Chart{
		Total:     total,
		Tasks:     len(records),
		Mean:      metrics.Mean(durations),
		Median:    metrics.Median(durations),
		Width:     opts.Width,
		Threshold: opts.Threshold,
	}
	for _, r := range sorted {
		pct := r.Duration / total * 100
		if pct < opts.Threshold {
			c.Omitted++
			continue
		}
		c.Rows = append(c.Rows, Row{
			Name:      r.Name,
			Library:   r.Library,
			Duration:  r.Duration,
			Percent:   pct,
			BarLength: BarLength(pct, opts.Width),
		})
	}
	return c, nil
}

// BarLength is ceil(percent/100 * width), clamped to [0, width].
func BarLength(percent float64, width int) int {
	n := int(math.Ceil(percent/100*float64(width) - barTolerance))
	return max(0, min(n, width))
}
