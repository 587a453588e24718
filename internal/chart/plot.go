package chart

import (
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"agrozoom/internal/config"
	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

var _ Renderer = (*PlotRenderer)(nil)

// PlotRenderer renders PNG figures with gonum/plot.
type PlotRenderer struct {
	logger *slog.Logger
	cfg    config.VizConfig
}

// NewPlotRenderer creates a PNG renderer with the given figure settings.
func NewPlotRenderer(logger *slog.Logger, cfg config.VizConfig) *PlotRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlotRenderer{logger: logger, cfg: cfg}
}

// TimeSeries draws yColumn against xColumn. The x column may be temporal or
// numeric; rows where either cell is missing are skipped.
func (r *PlotRenderer) TimeSeries(ds *dataset.Dataset, xColumn, yColumn, title, outPath string) error {
	xCol, ok := ds.Column(xColumn)
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("column %q", xColumn))
	}
	yCol, ok := ds.Column(yColumn)
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("column %q", yColumn))
	}
	if !ds.IsNumeric(yColumn) {
		return errors.NewInvalidColumnTypeError(yColumn)
	}

	var pts plotter.XYs
	temporal := false
	for i := 0; i < ds.NumRows(); i++ {
		y, ok := yCol.Values[i].Float64()
		if !ok {
			continue
		}
		switch xCol.Values[i].Kind() {
		case dataset.KindTime:
			t, _ := xCol.Values[i].Date()
			pts = append(pts, plotter.XY{X: float64(t.Unix()), Y: y})
			temporal = true
		case dataset.KindFloat:
			x, _ := xCol.Values[i].Float64()
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
	}
	if len(pts) == 0 {
		return errors.NewInsufficientDataError(yColumn)
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(r.cfg.FontSize + 4)
	p.X.Label.Text = labelize(xColumn)
	p.Y.Label.Text = labelize(yColumn)
	if temporal {
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build line plot: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	return r.save(p, title, outPath)
}

// RegionalBar draws one bar per region.
func (r *PlotRenderer) RegionalBar(ds *dataset.Dataset, regionColumn, valueColumn, title, outPath string) error {
	if _, ok := ds.Column(regionColumn); !ok {
		return errors.NewNotFoundError(fmt.Sprintf("column %q", regionColumn))
	}
	if _, ok := ds.Column(valueColumn); !ok {
		return errors.NewNotFoundError(fmt.Sprintf("column %q", valueColumn))
	}
	if !ds.IsNumeric(valueColumn) {
		return errors.NewInvalidColumnTypeError(valueColumn)
	}

	labels, values := regionSeries(ds, regionColumn, valueColumn)
	if len(values) == 0 {
		return errors.NewInsufficientDataError(valueColumn)
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(r.cfg.FontSize + 4)
	p.X.Label.Text = labelize(regionColumn)
	p.Y.Label.Text = labelize(valueColumn)
	p.X.Tick.Label.Rotation = -0.785
	p.X.Tick.Label.XAlign = draw.XLeft

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	return r.save(p, title, outPath)
}

// corrGrid adapts a symmetric correlation matrix to the heatmap grid
// contract with one unit cell per column pair.
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationMatrix draws the pairwise correlations of the selected numeric
// columns as a heatmap on a fixed [-1, 1] scale.
func (r *PlotRenderer) CorrelationMatrix(ds *dataset.Dataset, columns []string, title, outPath string) error {
	names, corr, err := correlationMatrix(ds, columns)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(r.cfg.FontSize + 4)

	heat := plotter.NewHeatMap(corrGrid{m: corr}, palette.Heat(12, 1))
	heat.Min, heat.Max = -1, 1
	p.Add(heat)

	labels := make([]string, len(names))
	for i, name := range names {
		labels[i] = labelize(name)
	}
	p.NominalX(labels...)
	p.NominalY(labels...)
	p.X.Tick.Label.Rotation = -0.785
	p.X.Tick.Label.XAlign = draw.XLeft

	return r.save(p, title, outPath)
}

// save writes the plot as a PNG at the configured size and DPI.
func (r *PlotRenderer) save(p *plot.Plot, title, outPath string) error {
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(r.cfg.WidthInches)*vg.Inch, vg.Length(r.cfg.HeightInches)*vg.Inch),
		vgimg.UseDPI(r.cfg.DPI),
	)
	p.Draw(draw.New(img))

	f, err := os.Create(outPath)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create figure %s", outPath), err)
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write figure %s", outPath), err)
	}

	r.logger.Info("rendered figure",
		slog.String("title", title),
		slog.String("path", outPath))
	return nil
}
