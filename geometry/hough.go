package geometry

import (
	"math"
	"sort"

	"github.com/wudi/ocrkit/raster"
)

const (
	// Sobel gradient magnitudes above this value are treated as edges.
	edgeThreshold = 150
	// Lines need this many accumulator votes; weak or noisy lines fall below.
	houghVoteThreshold = 200
	// Detections within this radius in (rho, theta) space of a stronger line
	// are suppressed as duplicates.
	houghSuppressionRadius = 8
)

// polarLine is a detected line in Hough (rho, theta) form, theta in degrees.
type polarLine struct {
	rho   int
	theta int
	votes int
}

// DeskewLines estimates the dominant text angle from straight lines detected
// over an edge map and rotates the buffer back. Each line angle is normalized
// into (-45, 45] degrees; normalized angles of magnitude 45 or more are
// discarded as outliers. The buffer is returned unchanged when no lines
// survive or the average angle magnitude is below 0.5 degrees.
func DeskewLines(b *raster.Buffer) *raster.Buffer {
	edges := sobelEdges(b.GrayPlane())
	lines := detectLines(edges)
	if len(lines) == 0 {
		return b
	}

	var angles []float64
	for _, line := range lines {
		theta := float64(line.theta)
		normalized := theta
		switch {
		case theta > 45 && theta < 135:
			normalized = theta - 90
		case theta >= 135:
			normalized = theta - 180
		}
		if math.Abs(normalized) < 45 {
			angles = append(angles, normalized)
		}
	}
	if len(angles) == 0 {
		return b
	}

	sum := 0.0
	for _, a := range angles {
		sum += a
	}
	avg := sum / float64(len(angles))
	if math.Abs(avg) < minLineAngle {
		return b
	}
	return raster.Rotate(b, -avg*math.Pi/180, raster.White)
}

// sobelEdges marks pixels whose Sobel gradient magnitude exceeds the edge
// threshold. The one-pixel border is left unmarked.
func sobelEdges(p *raster.Plane) *raster.Plane {
	out := raster.NewPlane(p.W, p.H)
	for y := 1; y < p.H-1; y++ {
		for x := 1; x < p.W-1; x++ {
			gx := -int(p.At(x-1, y-1)) + int(p.At(x+1, y-1)) +
				-2*int(p.At(x-1, y)) + 2*int(p.At(x+1, y)) +
				-int(p.At(x-1, y+1)) + int(p.At(x+1, y+1))
			gy := -int(p.At(x-1, y-1)) - 2*int(p.At(x, y-1)) - int(p.At(x+1, y-1)) +
				int(p.At(x-1, y+1)) + 2*int(p.At(x, y+1)) + int(p.At(x+1, y+1))
			if math.Hypot(float64(gx), float64(gy)) > edgeThreshold {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}

// detectLines runs a standard Hough transform over the edge map with 1 degree
// theta resolution and 1 pixel rho resolution, then applies non-maximum
// suppression so near-identical lines collapse into the strongest detection.
func detectLines(edges *raster.Plane) []polarLine {
	rhoMax := int(math.Ceil(math.Hypot(float64(edges.W), float64(edges.H))))
	acc := make([][]int, 180)
	for t := range acc {
		acc[t] = make([]int, 2*rhoMax+1)
	}

	sinTable := make([]float64, 180)
	cosTable := make([]float64, 180)
	for t := 0; t < 180; t++ {
		sinTable[t], cosTable[t] = math.Sincos(float64(t) * math.Pi / 180)
	}

	for y := 0; y < edges.H; y++ {
		for x := 0; x < edges.W; x++ {
			if edges.At(x, y) == 0 {
				continue
			}
			for t := 0; t < 180; t++ {
				rho := float64(x)*cosTable[t] + float64(y)*sinTable[t]
				acc[t][int(math.Round(rho))+rhoMax]++
			}
		}
	}

	var candidates []polarLine
	for t := 0; t < 180; t++ {
		for r, votes := range acc[t] {
			if votes >= houghVoteThreshold {
				candidates = append(candidates, polarLine{rho: r - rhoMax, theta: t, votes: votes})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].votes > candidates[j].votes })

	var kept []polarLine
	for _, c := range candidates {
		suppressed := false
		for _, k := range kept {
			dr := float64(c.rho - k.rho)
			dt := float64(c.theta - k.theta)
			if dr*dr+dt*dt <= houghSuppressionRadius*houghSuppressionRadius {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}
