package mjcf

import (
	"math"
	"strconv"
	"strings"
)

// epsilon is the magnitude below which vector components print as zero.
const epsilon = 1e-12

// formatFloat prints the shortest decimal that round-trips v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatList joins values with single spaces.
func formatList(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, " ")
}

// formatVec is formatList with rotation noise and negative zero cleared.
func formatVec(vs ...float64) string {
	clean := make([]float64, len(vs))
	for i, v := range vs {
		if math.Abs(v) < epsilon {
			v = 0
		}
		clean[i] = v
	}
	return formatList(clean...)
}
