package ensemble

import (
	"fmt"
	"strings"
)

// Algorithm identifies one of the four fitted SDM algorithms.
type Algorithm string

const (
	GAM          Algorithm = "GAM"
	Maxent       Algorithm = "Maxent"
	RandomForest Algorithm = "RandomForest"
	BRT          Algorithm = "BRT"
)

// Algorithms lists the supported algorithms in report order.
func Algorithms() []Algorithm {
	return []Algorithm{GAM, Maxent, RandomForest, BRT}
}

// ParseAlgorithm maps the spellings found in the evaluation files onto an
// Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gam":
		return GAM, nil
	case "maxent", "max_ent":
		return Maxent, nil
	case "randomforest", "random_forest", "rf":
		return RandomForest, nil
	case "brt", "boosted_regression_trees", "gbm":
		return BRT, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q", s)
	}
}

// Evaluation holds the held-out performance of one (algorithm,
// training-environment-source) pair plus its derived normalized weights.
type Evaluation struct {
	Algorithm      Algorithm
	TrainingSource string
	AUCROC         float64
	AUCPRG         float64
	PearsonCor     float64

	// Derived within the training-source group.
	WeightAUCPRGNorm  float64
	WeightPearsonNorm float64
}

// Metrics bundles the discrimination metrics of one algorithm computed
// against held-out observations.
type Metrics struct {
	Algorithm  Algorithm
	AUCROC     float64
	AUCPRG     float64
	PearsonCor float64
	RMSE       float64
}
