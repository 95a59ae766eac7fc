// Package ensemble combines the predictions of the four fitted SDM
// algorithms (GAM, Maxent, Random Forest, Boosted Regression Trees) into a
// weighted ensemble mean.
//
// Candidate weight vectors come from the held-out performance metrics of
// each algorithm: the raw and min-max-normalized AUC-PRG and Pearson
// correlation, plus the unweighted mean. Normalized weights within a
// training-source group always sum to 1. Each candidate scheme's ensemble
// is scored by RMSE against the observed presences and the minimum-RMSE
// scheme is selected; because the unweighted mean is itself a candidate,
// the selection can never be worse than it.
package ensemble
