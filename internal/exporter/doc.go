// Package exporter writes dashboard tables as downloadable files.
//
// CSVWriter streams records with an optional UTF-8 BOM so spreadsheet
// programs detect the encoding. SummaryExporter lays out summary
// statistics the way the Data Overview shows them (one row per statistic,
// one column per numeric field) as CSV or as an XLSX workbook.
//
//	exp := exporter.NewSummaryExporter(logger)
//	err := exp.Export(w, exporter.FormatXLSX, summaries)
package exporter
