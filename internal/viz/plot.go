// Package viz renders wavefunction diagnostics as terminal plots.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/qwave/internal/quantum"
)

const (
	plotWidth  = 80
	plotHeight = 12
)

// DensityPlot renders |psi|^2 over the grid.
func DensityPlot(grid quantum.Grid, psi quantum.WaveState, caption string) string {
	return Series(psi.Density(), fmt.Sprintf("%s   x in [%.2f, %.2f]", caption, grid.Nodes[0], grid.Nodes[len(grid.Nodes)-1]))
}

// RealImagPlot renders the real and imaginary parts as two stacked graphs.
func RealImagPlot(psi quantum.WaveState) string {
	re := make([]float64, len(psi))
	im := make([]float64, len(psi))
	for j, a := range psi {
		re[j] = real(a)
		im[j] = imag(a)
	}

	var sb strings.Builder
	sb.WriteString(Series(re, "Re(psi)"))
	sb.WriteString("\n\n")
	sb.WriteString(Series(im, "Im(psi)"))
	return sb.String()
}

// Series renders a single data series with the standard plot geometry.
func Series(data []float64, caption string) string {
	return asciigraph.Plot(downsample(data, plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

// downsample thins a series to at most w points so a fine grid still fits
// the terminal.
func downsample(data []float64, w int) []float64 {
	if len(data) <= w {
		return data
	}
	out := make([]float64, w)
	for i := 0; i < w; i++ {
		out[i] = data[i*len(data)/w]
	}
	return out
}
