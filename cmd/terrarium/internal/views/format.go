// Package views renders the dashboard pages. Every function is pure: it
// takes a snapshot of page data and returns a string, so the root model
// stays the only owner of UI state.
package views

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Pad truncates s to w cells and pads it with spaces to exactly w.
func Pad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// Temp formats a temperature in degrees Celsius.
func Temp(v float64) string {
	return fmt.Sprintf("%.1f°C", v)
}

// Humidity formats a relative humidity.
func Humidity(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// OnOff renders a relay state word.
func OnOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// Clock formats t in local time, or "--:--:--" for the zero time.
func Clock(t time.Time) string {
	if t.IsZero() {
		return "--:--:--"
	}
	return t.Local().Format("15:04:05")
}

// Sparkline draws values as a row of block characters at most width cells
// wide. Longer series are downsampled by averaging buckets.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	if len(values) > width {
		values = downsample(values, width)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var sb strings.Builder
	last := len(sparkTicks) - 1
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(last)))
		}
		sb.WriteRune(sparkTicks[idx])
	}
	return sb.String()
}

func downsample(values []float64, n int) []float64 {
	out := make([]float64, n)
	size := float64(len(values)) / float64(n)
	for i := range out {
		start := int(float64(i) * size)
		end := max(int(float64(i+1)*size), start+1)
		end = min(end, len(values))

		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// MinMax returns the smallest and largest value. Both are zero for an empty
// slice.
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
