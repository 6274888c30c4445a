package chart

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spboyer/syftviz/internal/timing"
)

// Renderer writes a Chart as a terminal table.
type Renderer struct {
	// Color enables ANSI styling of the columns.
	Color bool
	// MaxNameWidth truncates task names wider than this many cells; 0 disables.
	MaxNameWidth int
	// ShowTotal appends a summary line below the table.
	ShowTotal bool
}

func (r *Renderer) style(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if r.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Render writes the Task / Time / Bar / % table to w.
func (r *Renderer) Render(w io.Writer, c *Chart) error {
	name := r.style(color.FgCyan)
	elapsed := r.style(color.FgGreen)
	bar := r.style(color.FgBlue)
	pct := r.style(color.FgYellow)

	table := tablewriter.NewWriter(w)
	table.Header("Task", "Time", "Bar", "%")
	for _, row := range c.Rows {
		err := table.Append(
			name.Sprint(r.displayName(row.Name)),
			elapsed.Sprint(timing.FormatDuration(row.Duration)),
			bar.Sprint(row.Bar()),
			pct.Sprintf("%.1f%%", row.Percent),
		)
		if err != nil {
			return fmt.Errorf("adding row %q: %w", row.Name, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	if r.ShowTotal {
		fmt.Fprintf(w, "\nTotal %s across %d task(s) (mean %s, median %s)\n", //nolint:errcheck
			timing.FormatDuration(c.Total), c.Tasks,
			timing.FormatDuration(c.Mean), timing.FormatDuration(c.Median))
		if c.Omitted > 0 {
			fmt.Fprintf(w, "%d task(s) under %.2f%% not shown\n", c.Omitted, c.Threshold) //nolint:errcheck
		}
	}
	return nil
}

func (r *Renderer) displayName(name string) string {
	if r.MaxNameWidth <= 0 {
		return name
	}
	return runewidth.Truncate(name, r.MaxNameWidth, "…")
}

type jsonRow struct {
	Row
	Display string `json:"display"`
}

type jsonOutput struct {
	TotalSeconds  float64   `json:"total_seconds"`
	Tasks         int       `json:"tasks"`
	MeanSeconds   float64   `json:"mean_seconds"`
	MedianSeconds float64   `json:"median_seconds"`
	Omitted       int       `json:"omitted"`
	Rows          []jsonRow `json:"rows"`
}

// WriteJSON writes the chart rows and summary as indented JSON.
func WriteJSON(w io.Writer, c *Chart) error {
	out := jsonOutput{
		TotalSeconds:  c.Total,
		Tasks:         c.Tasks,
		MeanSeconds:   c.Mean,
		MedianSeconds: c.Median,
		Omitted:       c.Omitted,
		Rows:          make([]jsonRow, 0, len(c.Rows)),
	}
	for _, row := range c.Rows {
		out.Rows = append(out.Rows, jsonRow{Row: row, Display: timing.FormatDuration(row.Duration)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
