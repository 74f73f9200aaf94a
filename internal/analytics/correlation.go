package analytics

import (
	"math"

	"github.com/yungbote/wellbeing-backend/internal/domain/student"
)

// Matrix is a symmetric Pearson correlation matrix keyed by factor name.
type Matrix struct {
	Fields []string                      `json:"fields"`
	Matrix map[string]map[string]float64 `json:"matrix"`
}

// Correlations computes the factor correlation matrix. Cells are 0 when there
// are no students or when either factor has zero variance.
func Correlations(students []*student.Student) Matrix {
	fields := append([]string(nil), student.FactorNames...)
	columns := make([][]float64, len(fields))
	for i, name := range fields {
		col := make([]float64, 0, len(students))
		for _, s := range students {
			if s == nil {
				continue
			}
			col = append(col, float64(s.Factors().Value(name)))
		}
		columns[i] = col
	}

	m := make(map[string]map[string]float64, len(fields))
	for _, name := range fields {
		m[name] = make(map[string]float64, len(fields))
	}
	for i := range fields {
		for j := i; j < len(fields); j++ {
			r := Pearson(columns[i], columns[j])
			m[fields[i]][fields[j]] = r
			m[fields[j]][fields[i]] = r
		}
	}
	return Matrix{Fields: fields, Matrix: m}
}

// Pearson returns the correlation coefficient of xs and ys, or 0 when it is
// undefined (empty input, mismatched lengths, zero variance).
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}
	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/float64(n), sy/float64(n)

	var num, dx, dy float64
	for i := 0; i < n; i++ {
		vx, vy := xs[i]-mx, ys[i]-my
		num += float64(vx * vy)
		dx += float64(vx * vx)
		dy += float64(vy * vy)
	}
	if dx == 0 || dy == 0 {
		return 0
	}
	r := num / math.Sqrt(dx*dy)
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
