package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/gradebook/internal/domain"
	"github.com/aussiebroadwan/gradebook/internal/service"
	"github.com/aussiebroadwan/gradebook/pkg/httpx"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartTitle  = "Total Marks of Students"
	chartXLabel = "Name"
	chartYLabel = "Total Marks"
)

var barColor = drawing.ColorFromHex("4B9CD3")

// Plot renders the chart page, or bounces back to the table with an info
// modal when there is nothing to plot.
func (h *RecordsHandler) Plot(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Records.Totals(r.Context())
	if errors.Is(err, service.ErrNoData) {
		f, _, _ := feedbackFor(err)
		SetFlash(w, *f)
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("load totals", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.views.render(w, r, "plot", http.StatusOK, plotData{
		pageData: pageData{Title: chartTitle, Version: h.Version},
		XLabel:   chartXLabel,
		YLabel:   chartYLabel,
		Totals:   totals,
	})
}

// PlotPNG streams the bar chart of per-student totals.
func (h *RecordsHandler) PlotPNG(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Records.Totals(r.Context())
	if errors.Is(err, service.ErrNoData) {
		httpx.WriteText(w, http.StatusNotFound, service.MsgNoData+"\n")
		return
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("load totals", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := renderTotalsChart(&buf, totals); err != nil {
		slogx.FromContext(r.Context()).Error("render chart", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// renderTotalsChart draws one bar per student, in roll order. totals must
// not be empty.
func renderTotalsChart(w io.Writer, totals []domain.StudentTotal) error {
	bars := make([]chart.Value, 0, len(totals))
	lo, hi := 0.0, 0.0
	for _, t := range totals {
		v := float64(t.Total)
		lo, hi = min(lo, v), max(hi, v)
		bars = append(bars, chart.Value{
			Label: t.Name,
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}
	if hi == lo {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:      chartTitle,
		Width:      max(640, 90*len(bars)),
		Height:     480,
		BarWidth:   50,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  chartYLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.1},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}
