// Package exporter writes analysis outputs to disk.
//
// CSVWriter handles the CSV tables (filtered observations, correlation
// matrices, normalized weights, ensemble predictions) with optional UTF-8
// BOM for Excel compatibility. WorkbookWriter collects a run's summary
// tables into a single xlsx workbook so the analyst can review the
// screening rounds and scheme comparison side by side.
package exporter
