package export

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/armsim/internal/sim"
)

var ErrEmptyTrajectory = errors.New("export: trajectory has no snapshots")

const pngDPI = 150

// SavePNG charts every joint angle against time and writes the chart to filename.
func SavePNG(filename, title string, traj sim.Trajectory) error {
	if len(traj) == 0 {
		return ErrEmptyTrajectory
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "angle (rad)"
	p.Add(plotter.NewGrid())

	times := traj.Times()
	for j := 0; j < len(traj[0].Angles); j++ {
		series := traj.JointSeries(j)
		pts := make(plotter.XYs, len(series))
		for i := range series {
			pts[i].X = times[i]
			pts[i].Y = series[i]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("joint %d: %w", j+1, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(j)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("theta%d", j+1), line)
	}
	p.Legend.Top = true

	return savePlotPNG(p, 8, 5, filename)
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(pngDPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
