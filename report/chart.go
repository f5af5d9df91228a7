package report

import (
	"fmt"
	"math"

	"github.com/scipunch/newspulse/pipeline"
	"github.com/scipunch/newspulse/sentiment"
)

var labelColors = map[sentiment.Label]string{
	sentiment.Positive: "#2e7d32",
	sentiment.Negative: "#c62828",
	sentiment.Neutral:  "#9e9e9e",
}

// Slice is one label's share of the distribution
type Slice struct {
	Label   sentiment.Label
	Count   int
	Percent float64
	Color   string
	Path    string // SVG path of the pie wedge
}

// Distribution counts items per sentiment label
type Distribution struct {
	Total  int
	Slices []Slice // in sentiment.Labels order, zero counts omitted
}

// Count returns the number of items with label
func (d Distribution) Count(label sentiment.Label) int {
	for _, s := range d.Slices {
		if s.Label == label {
			return s.Count
		}
	}
	return 0
}

// Distribute computes the pie chart of items
func Distribute(items []pipeline.ClassifiedItem) (Distribution, error) {
	if len(items) == 0 {
		return Distribution{}, ErrNoChartData
	}

	counts := make(map[sentiment.Label]int, len(sentiment.Labels))
	for _, item := range items {
		counts[item.Sentiment]++
	}

	d := Distribution{Total: len(items)}
	start := 0.0
	for _, label := range sentiment.Labels {
		n := counts[label]
		if n == 0 {
			continue
		}
		share := float64(n) / float64(d.Total)
		d.Slices = append(d.Slices, Slice{
			Label:   label,
			Count:   n,
			Percent: share * 100,
			Color:   labelColors[label],
			Path:    wedge(pieCX, pieCY, pieR, start, start+share),
		})
		start += share
	}
	return d, nil
}

const (
	pieCX = 120.0
	pieCY = 120.0
	pieR  = 100.0
)

// wedge draws the arc between two fractions of a full turn, starting at 12 o'clock
func wedge(cx, cy, r, from, to float64) string {
	if to-from >= 1 {
		// a single arc cannot describe a full circle
		return fmt.Sprintf("M %.2f %.2f m -%.2f 0 a %.2f %.2f 0 1 0 %.2f 0 a %.2f %.2f 0 1 0 -%.2f 0 Z",
			cx, cy, r, r, r, 2*r, r, r, 2*r)
	}
	x1, y1 := point(cx, cy, r, from)
	x2, y2 := point(cx, cy, r, to)
	large := 0
	if to-from > 0.5 {
		large = 1
	}
	return fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
		cx, cy, x1, y1, r, r, large, x2, y2)
}

func point(cx, cy, r, fraction float64) (float64, float64) {
	angle := 2*math.Pi*fraction - math.Pi/2
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}
