package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"dubboard/internal/logging"
	"dubboard/internal/trade"
)

// handleDashboard renders the Uruguay trade dashboard as a single HTML page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	dataset := s.trade.All()

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Uruguay Trade Dashboard (%d)", dataset.Summary.LatestYear)
	page.AddCharts(
		exportBarChart(dataset),
		trendLineChart(dataset.Trends),
		partnerBarChart(dataset.Partners),
		complexityScatter(dataset.Complexity),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		s.logger.Error("dashboard render failed", logging.Error(err))
	}
}

// exportBarChart shows the latest year's top export products.
func exportBarChart(dataset trade.Dataset) *charts.Bar {
	latest := make([]trade.ProductExport, 0, 18)
	for _, row := range dataset.Exports {
		if row.Year == dataset.Summary.LatestYear {
			latest = append(latest, row)
		}
	}
	sort.Slice(latest, func(i, j int) bool { return latest[i].ValueUSDM > latest[j].ValueUSDM })

	products := make([]string, len(latest))
	values := make([]opts.BarData, len(latest))
	for i, row := range latest {
		products[i] = row.Product
		values[i] = opts.BarData{Value: row.ValueUSDM}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Export Products %d", dataset.Summary.LatestYear),
			Subtitle: "USD millions",
		}),
	)
	bar.SetXAxis(products).AddSeries("Exports", values)
	return bar
}

// trendLineChart shows one line per export category over the full range.
func trendLineChart(trends []trade.Trend) *charts.Line {
	byCategory := map[string][]opts.LineData{}
	var years []string
	seenYears := map[int]bool{}
	var categories []string
	seenCategories := map[string]bool{}

	for _, row := range trends {
		if !seenYears[row.Year] {
			seenYears[row.Year] = true
			years = append(years, fmt.Sprintf("%d", row.Year))
		}
		if !seenCategories[row.Category] {
			seenCategories[row.Category] = true
			categories = append(categories, row.Category)
		}
		byCategory[row.Category] = append(byCategory[row.Category], opts.LineData{Value: row.ValueUSDM})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Export Trends by Category",
			Subtitle: "USD millions per year",
		}),
	)
	line.SetXAxis(years)
	for _, category := range categories {
		line.AddSeries(category, byCategory[category])
	}
	return line
}

// partnerBarChart compares exports and imports per trade partner.
func partnerBarChart(partners []trade.Partner) *charts.Bar {
	countries := make([]string, len(partners))
	exports := make([]opts.BarData, len(partners))
	imports := make([]opts.BarData, len(partners))
	for i, partner := range partners {
		countries[i] = partner.Country
		exports[i] = opts.BarData{Value: partner.ExportsUSDM}
		imports[i] = opts.BarData{Value: partner.ImportsUSDM}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Trade Partners",
			Subtitle: "Exports vs imports, USD millions",
		}),
	)
	bar.SetXAxis(countries).
		AddSeries("Exports", exports).
		AddSeries("Imports", imports)
	return bar
}

// complexityScatter places each product in complexity/opportunity space.
func complexityScatter(rows []trade.Complexity) *charts.Scatter {
	points := make([]opts.ScatterData, len(rows))
	for i, row := range rows {
		points[i] = opts.ScatterData{
			Name:  row.Name,
			Value: []any{row.Complexity, row.Opportunity},
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Product Complexity vs Opportunity",
			Subtitle: "Complexity index against growth opportunity",
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Complexity"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Opportunity"}),
	)
	scatter.AddSeries("Products", points)
	return scatter
}
