package collinearity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"sdmcli/internal/errors"
)

// OLSResult holds an ordinary-least-squares fit of a response on a set of
// predictors with an intercept term.
type OLSResult struct {
	Names        []string
	Intercept    float64
	Coefficients []float64
	StdErrors    []float64
	TValues      []float64
	PValues      []float64
	RSquared     float64
	DegreesFree  int
}

// FitOLS fits response = b0 + X*b by QR decomposition and derives
// per-coefficient standard errors, t statistics and two-sided p-values
// from the Student-t distribution with n-p-1 degrees of freedom.
func FitOLS(x *mat.Dense, names []string, response []float64) (*OLSResult, error) {
	n, p := x.Dims()
	if p != len(names) {
		return nil, errors.NewComputeError(fmt.Sprintf("matrix has %d columns, got %d names", p, len(names)), nil)
	}
	if n != len(response) {
		return nil, errors.NewComputeError(fmt.Sprintf("matrix has %d rows, response has %d", n, len(response)), nil)
	}
	df := n - p - 1
	if df < 1 {
		return nil, errors.NewComputeError(fmt.Sprintf("not enough observations: n=%d predictors=%d", n, p), nil)
	}

	// Design matrix with intercept column.
	design := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			design.Set(i, j+1, x.At(i, j))
		}
	}
	y := mat.NewVecDense(n, response)

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		return nil, errors.NewComputeError("design matrix is rank deficient", err)
	}

	// Residual and total sums of squares.
	var fitted mat.VecDense
	fitted.MulVec(design, &beta)
	meanY := 0.0
	for _, v := range response {
		meanY += v
	}
	meanY /= float64(n)

	rss, tss := 0.0, 0.0
	for i := 0; i < n; i++ {
		r := response[i] - fitted.AtVec(i)
		rss += r * r
		d := response[i] - meanY
		tss += d * d
	}

	r2 := 0.0
	if tss > 0 {
		r2 = 1 - rss/tss
	}

	// Coefficient covariance: sigma^2 * (X'X)^-1.
	sigma2 := rss / float64(df)
	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, errors.NewComputeError("X'X is singular", err)
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}

	result := &OLSResult{
		Names:        append([]string(nil), names...),
		Intercept:    beta.AtVec(0),
		Coefficients: make([]float64, p),
		StdErrors:    make([]float64, p),
		TValues:      make([]float64, p),
		PValues:      make([]float64, p),
		RSquared:     r2,
		DegreesFree:  df,
	}
	for j := 0; j < p; j++ {
		coef := beta.AtVec(j + 1)
		se := math.Sqrt(sigma2 * xtxInv.At(j+1, j+1))
		result.Coefficients[j] = coef
		result.StdErrors[j] = se
		if se > 0 {
			t := coef / se
			result.TValues[j] = t
			result.PValues[j] = 2 * tDist.CDF(-math.Abs(t))
		} else {
			result.TValues[j] = math.Inf(1)
			result.PValues[j] = 0
		}
	}
	return result, nil
}

// PValueOf returns the p-value of the named predictor.
func (r *OLSResult) PValueOf(name string) (float64, error) {
	for j, n := range r.Names {
		if n == name {
			return r.PValues[j], nil
		}
	}
	return 0, fmt.Errorf("predictor %q not in fit", name)
}
