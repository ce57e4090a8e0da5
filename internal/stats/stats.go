// Package stats holds the descriptive statistics behind the dashboard's
// summary and comparison views.
package stats

import (
	"math"

	"github.com/plantstack/plantwatch/internal/models"
)

// Mean returns the arithmetic mean, or zero for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation, or zero with fewer than two
// values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}

// Pearson computes the correlation coefficient of two equal-length series.
// Degenerate inputs (mismatched length, short series, zero variance) yield
// zero rather than NaN.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// Summaries aggregates each selected metric over the windowed series.
func Summaries(series models.Series, selected []string) []models.MetricSummary {
	out := make([]models.MetricSummary, 0, len(selected))
	for _, d := range models.Descriptors() {
		if !contains(selected, d.Key) {
			continue
		}
		values := series.Values(d)
		out = append(out, models.MetricSummary{
			Key:     d.Key,
			Name:    d.Name,
			Mean:    Mean(values),
			StdDev:  StdDev(values),
			Samples: len(values),
		})
	}
	return out
}

// CorrelationMatrix builds a symmetric Pearson matrix over the selected
// metrics in canonical descriptor order.
func CorrelationMatrix(series models.Series, selected []string) models.CorrelationMatrix {
	var picked []models.MetricDescriptor
	for _, d := range models.Descriptors() {
		if contains(selected, d.Key) {
			picked = append(picked, d)
		}
	}

	matrix := models.CorrelationMatrix{
		Keys:   make([]string, len(picked)),
		Names:  make([]string, len(picked)),
		Values: make([][]float64, len(picked)),
	}
	columns := make([][]float64, len(picked))
	for i, d := range picked {
		matrix.Keys[i] = d.Key
		matrix.Names[i] = d.Name
		columns[i] = series.Values(d)
	}
	for i := range picked {
		matrix.Values[i] = make([]float64, len(picked))
		for j := range picked {
			if i == j {
				matrix.Values[i][j] = 1
				continue
			}
			matrix.Values[i][j] = Pearson(columns[i], columns[j])
		}
	}
	return matrix
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
