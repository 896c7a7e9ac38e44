// Package chart renders the heart-rate series as a standalone ECharts page.
package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"example.com/heartmonitor/internal/domain"
)

// LabelLayout formats x-axis labels, e.g. "Mar 01 2024, 8:00 am".
const LabelLayout = "Jan 02 2006, 3:04 pm"

// Options tune the rendered page.
type Options struct {
	Title string
	Theme string
}

// DefaultOptions returns the look used by the /chart endpoint.
func DefaultOptions() Options {
	return Options{Title: "Health Monitor", Theme: "macarons"}
}

// Summary returns the alert banner for n abnormal readings, or "" when n is 0.
func Summary(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d instance(s) of abnormal heart rates were found.", n)
}

// Render writes an HTML page plotting series with the threshold band and a
// marker on every abnormal reading.
func Render(w io.Writer, series domain.Series, detector *domain.Detector, o Options) error {
	return NewLineChart(series, detector, o).Render(w)
}

// NewLineChart builds the chart without rendering it. Labels may repeat within
// a minute, so abnormal markers are placed by category index.
func NewLineChart(series domain.Series, detector *domain.Detector, o Options) *charts.Line {
	annotated := detector.Annotate(series)
	band := detector.Thresholds()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Theme: o.Theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    o.Title,
			Subtitle: Summary(detector.CountAbnormal(series)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "Heart rate (bpm)",
			Scale: opts.Bool(true),
		}),
	)

	labels := make([]string, 0, len(annotated))
	items := make([]opts.LineData, 0, len(annotated))
	var marks []opts.MarkPointNameCoordItem
	for i, point := range annotated {
		label := point.Timestamp.In(time.UTC).Format(LabelLayout)
		labels = append(labels, label)
		items = append(items, opts.LineData{Value: point.HeartRate})
		if point.Status == domain.Abnormal {
			marks = append(marks, opts.MarkPointNameCoordItem{
				Name:       "abnormal",
				Coordinate: []interface{}{i, point.HeartRate},
			})
		}
	}

	line.SetXAxis(labels)
	line.AddSeries("Heart Rate", items,
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "Low", YAxis: band.Low},
			opts.MarkLineNameYAxisItem{Name: "High", YAxis: band.High},
		),
		charts.WithMarkPointNameCoordItemOpts(marks...),
	)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line
}
