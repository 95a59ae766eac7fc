// Package dataset loads observation and prediction CSV files into typed
// column-oriented tables.
//
// An observation table joins numeric environmental predictors with a binary
// presence indicator (1 = sighting, 0 = background) and categorical sector
// and life-stage columns used for filtering. Tables are immutable: dropping
// a column, removing NA rows, or filtering by a categorical value returns a
// new Table.
package dataset
