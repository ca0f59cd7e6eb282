// Package report renders a dashboard view as plain text for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/guttosm/nfsindex/internal/domain/models"
)

// placeholder stands in for missing values.
const placeholder = "-"

// Options configures a Renderer.
type Options struct {
	Colors      bool
	MaxListings int // 0 prints every listing
}

// Renderer writes dashboards to an io.Writer.
type Renderer struct {
	out  io.Writer
	opts Options
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	return &Renderer{out: out, opts: opts}
}

// Render writes the header, summary statistics, monthly trend and listing table of d.
func (r *Renderer) Render(d *models.Dashboard) error {
	if d == nil {
		return fmt.Errorf("render: no dashboard")
	}

	title := d.Model.DisplayName()
	if d.Trim != "" {
		title += " / " + d.Trim
	}
	r.section(title)
	r.line("Analytics: %s", d.AnalyticsSource)
	if len(d.Trims) > 0 {
		r.line("Trims:     %s", strings.Join(d.Trims, ", "))
	}

	r.section("Summary")
	if err := r.stats(d.Stats); err != nil {
		return err
	}

	r.section("Monthly price trend")
	if len(d.Trends) == 0 {
		r.line("no priced sales")
	} else if err := r.trends(d.Trends); err != nil {
		return err
	}

	r.section(fmt.Sprintf("Listings (%d)", len(d.Listings)))
	if len(d.Listings) == 0 {
		r.line("no listings")
		return nil
	}
	return r.listings(d.Listings)
}

func (r *Renderer) stats(s models.StatsSummary) error {
	t := newTable(r.out)
	t.Header([]string{"Metric", "Value"})
	rows := [][]string{
		{"Total sales", strconv.Itoa(s.TotalSales)},
		{"Average price", price(s.AvgPrice)},
		{"Lowest price", price(s.MinPrice)},
		{"Highest price", price(s.MaxPrice)},
		{"Average mileage", mileage(s.AvgMileage)},
		{"Average bids", decimal(s.AvgBids)},
	}
	if err := t.Bulk(rows); err != nil {
		return fmt.Errorf("render stats: %w", err)
	}
	return t.Render()
}

func (r *Renderer) trends(points []models.TrendPoint) error {
	t := newTable(r.out)
	t.Header([]string{"Month", "Sales", "Average", "Low", "High"})
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			strings.TrimSuffix(p.Period, "-01"),
			strconv.Itoa(p.Count),
			price(&p.AvgPrice),
			price(&p.MinPrice),
			price(&p.MaxPrice),
		})
	}
	if err := t.Bulk(rows); err != nil {
		return fmt.Errorf("render trends: %w", err)
	}
	return t.Render()
}

func (r *Renderer) listings(listings []models.Listing) error {
	shown := listings
	if r.opts.MaxListings > 0 && len(shown) > r.opts.MaxListings {
		shown = shown[:r.opts.MaxListings]
	}

	t := newTable(r.out)
	t.Header([]string{"Sold", "Year", "Trim", "Price", "Mileage", "Bids", "Source"})
	rows := make([][]string, 0, len(shown))
	for _, l := range shown {
		sold := placeholder
		if l.SaleDate != nil {
			sold = l.SaleDate.String()
		}
		rows = append(rows, []string{
			sold,
			strconv.Itoa(l.Year),
			orPlaceholder(l.TrimName()),
			price(l.SalePrice),
			count(l.Mileage),
			count(l.NumberOfBids),
			l.Source.Label(),
		})
	}
	if err := t.Bulk(rows); err != nil {
		return fmt.Errorf("render listings: %w", err)
	}
	if err := t.Render(); err != nil {
		return err
	}
	if hidden := len(listings) - len(shown); hidden > 0 {
		r.line("... %d more", hidden)
	}
	return nil
}

func (r *Renderer) section(title string) {
	if r.opts.Colors {
		color.New(color.FgWhite, color.Bold).Fprintf(r.out, "\n%s\n", title)
		color.New(color.FgWhite).Fprintf(r.out, "%s\n", strings.Repeat("─", len([]rune(title))))
		return
	}
	fmt.Fprintf(r.out, "\n%s\n%s\n", title, strings.Repeat("─", len([]rune(title))))
}

func (r *Renderer) line(format string, args ...any) {
	if r.opts.Colors {
		color.New(color.FgCyan).Fprintf(r.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

// price formats currency units rounded to whole dollars, e.g. $325,000.
func price(v *float64) string {
	if v == nil {
		return placeholder
	}
	return "$" + humanize.Comma(int64(math.Round(*v)))
}

func mileage(v *float64) string {
	if v == nil {
		return placeholder
	}
	return humanize.Comma(int64(math.Round(*v))) + " mi"
}

func decimal(v *float64) string {
	if v == nil {
		return placeholder
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func count(v *int64) string {
	if v == nil {
		return placeholder
	}
	return humanize.Comma(*v)
}

func orPlaceholder(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}
