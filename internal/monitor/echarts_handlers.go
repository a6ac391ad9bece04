package monitor

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleDebugTimeline renders a quick scatter plot (HTML) of the shot
// timeline for one report using go-echarts. Debugging-only endpoint for
// visually checking a run without the full UI.
// Query params:
//
//	report_id (required)
func (ws *WebServer) handleDebugTimeline(w http.ResponseWriter, r *http.Request) {
	stored := ws.loadReport(w, r)
	if stored == nil {
		return
	}
	report := stored.Report

	bySeries := map[string][]opts.ScatterData{}
	matched := 0
	for _, entry := range report.ShotTimeline {
		point := opts.ScatterData{Value: []interface{}{entry.Time, entry.Confidence}}
		bySeries[string(entry.Shot)] = append(bySeries[string(entry.Shot)], point)
		if entry.ShuttleHitMatched != nil && *entry.ShuttleHitMatched {
			matched++
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Shot Timeline", Theme: "dark", Width: "1200px", Height: "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Shot Timeline",
			Subtitle: fmt.Sprintf("report=%s shots=%d hit-matched=%d",
				stored.ReportID, len(report.ShotTimeline), matched),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Confidence", Min: 0, Max: 1}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	for shot, data := range bySeries {
		scatter.AddSeries(shot, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}

	ws.renderChart(w, scatter)
}

// handleDebugRallies renders a bar chart (HTML) of rally durations and shot
// counts for one report.
// Query params:
//
//	report_id (required)
func (ws *WebServer) handleDebugRallies(w http.ResponseWriter, r *http.Request) {
	stored := ws.loadReport(w, r)
	if stored == nil {
		return
	}
	report := stored.Report

	labels := make([]string, 0, len(report.Rallies))
	durations := make([]opts.BarData, 0, len(report.Rallies))
	shotCounts := make([]opts.BarData, 0, len(report.Rallies))
	for i, rally := range report.Rallies {
		labels = append(labels, fmt.Sprintf("rally %d", i+1))
		durations = append(durations, opts.BarData{Value: rally.Duration})
		shotCounts = append(shotCounts, opts.BarData{Value: rally.ShotCount})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Rallies", Theme: "dark", Width: "1200px", Height: "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Rallies",
			Subtitle: fmt.Sprintf("report=%s rallies=%d gap-zones=%d",
				stored.ReportID, len(report.Rallies), len(report.GapZones)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("duration (s)", durations).
		AddSeries("shots", shotCounts)

	ws.renderChart(w, bar)
}

// renderer is the common surface of go-echarts chart types.
type renderer interface {
	Render(w io.Writer) error
}

func (ws *WebServer) renderChart(w http.ResponseWriter, chart renderer) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
