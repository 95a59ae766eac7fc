// Package collinearity implements the predictor screening step of the
// habitat analysis.
//
// Screening combines three diagnostics over the numeric predictors of an
// observation table: the pairwise Spearman rank correlation matrix, an OLS
// fit of the binary presence response on all predictors (coefficient
// p-values), and per-predictor variance inflation factors. An iterative
// greedy elimination drops one predictor per round, preferring predictors
// that are statistically non-significant, implicated in many
// high-correlation pairs, and weak at separating presence from background
// densities, until every VIF falls below the configured limit.
//
// The elimination is analyst-guided in the source study, so the procedure
// accepts an ordered manual drop list that overrides the automatic ranking,
// and every round's diagnostics are recorded for the reduction report.
package collinearity
