// Package figures renders the analysis figures as PNG files.
//
// Three figure families are produced: composite variable-importance bar
// charts (one panel per SDM algorithm arranged in a grid), the Spearman
// correlation heatmap with presence/background density panels from the
// collinearity screening, and the RMSE comparison of the candidate
// ensemble weighting schemes. Panels are built concurrently and then
// composed onto a single canvas.
package figures
