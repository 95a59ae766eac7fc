package collinearity

import (
	"fmt"
	"strconv"
)

// RoundRecords renders the per-round reduction log as CSV header and rows.
func (r *Result) RoundRecords() ([]string, [][]string) {
	header := []string{"round", "max_vif", "dropped", "reason"}
	records := make([][]string, len(r.Rounds))
	for i, round := range r.Rounds {
		records[i] = []string{
			strconv.Itoa(round.Number),
			fmt.Sprintf("%.4f", round.MaxVIF),
			round.Dropped,
			round.Reason,
		}
	}
	return header, records
}

// CandidateRecords renders every round's per-predictor diagnostics.
func (r *Result) CandidateRecords() ([]string, [][]string) {
	header := []string{"round", "predictor", "p_value", "vif", "high_corr_pairs", "separation"}
	var records [][]string
	for _, round := range r.Rounds {
		for _, c := range round.Candidates {
			records = append(records, []string{
				strconv.Itoa(round.Number),
				c.Name,
				fmt.Sprintf("%.6f", c.PValue),
				fmt.Sprintf("%.4f", c.VIF),
				strconv.Itoa(c.HighCorrPairs),
				fmt.Sprintf("%.4f", c.Separation),
			})
		}
	}
	return header, records
}

// VIFRecords renders the final VIF of every kept predictor.
func (r *Result) VIFRecords() ([]string, [][]string) {
	header := []string{"predictor", "vif"}
	records := make([][]string, 0, len(r.Kept))
	for _, name := range r.Kept {
		records = append(records, []string{name, fmt.Sprintf("%.6f", r.FinalVIF[name])})
	}
	return header, records
}
