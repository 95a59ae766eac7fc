package collinearity

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"sdmcli/internal/errors"
)

// ComputeVIF returns the variance inflation factor of each column of x:
// VIF_j = 1/(1-R²_j), where R²_j comes from regressing column j on the
// remaining columns with an intercept. A lone predictor has VIF 1.
func ComputeVIF(x *mat.Dense, names []string) (map[string]float64, error) {
	n, p := x.Dims()
	if p != len(names) {
		return nil, errors.NewComputeError("column count does not match name count", nil)
	}

	vifs := make(map[string]float64, p)
	if p == 1 {
		vifs[names[0]] = 1
		return vifs, nil
	}

	for j := 0; j < p; j++ {
		others := mat.NewDense(n, p-1, nil)
		otherNames := make([]string, 0, p-1)
		col := 0
		for k := 0; k < p; k++ {
			if k == j {
				continue
			}
			for i := 0; i < n; i++ {
				others.Set(i, col, x.At(i, k))
			}
			otherNames = append(otherNames, names[k])
			col++
		}

		target := mat.Col(nil, j, x)
		fit, err := FitOLS(others, otherNames, target)
		if err != nil {
			return nil, errors.NewComputeError("VIF auxiliary regression for "+names[j], err)
		}

		if fit.RSquared >= 1 {
			vifs[names[j]] = math.Inf(1)
		} else {
			vifs[names[j]] = 1 / (1 - fit.RSquared)
		}
	}
	return vifs, nil
}

// MaxVIF returns the largest VIF and the predictor carrying it.
func MaxVIF(vifs map[string]float64) (string, float64) {
	name, max := "", math.Inf(-1)
	for n, v := range vifs {
		if v > max || (v == max && n < name) {
			name, max = n, v
		}
	}
	return name, max
}
