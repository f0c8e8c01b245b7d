// Package dataprocessing turns fixed-layout price workbooks into
// normalized, asset-class-ready panels. It covers the full data
// lifecycle from Excel ingestion to the data dictionary.
//
// # Architecture
//
// The package is organized around five components:
//
//  1. Reader: ingests the workbook and resolves headers against the taxonomy
//  2. Preprocessor: coerces dates, reindexes to business days, forward-fills
//  3. Partitioner: splits the panel into per-asset-class sub-panels
//  4. DictionaryBuilder: produces the per-column audit record
//  5. Returns: daily and monthly return series derived from a panel
//
// # Usage
//
// Ingest and normalize:
//
//	reader := dataprocessing.NewReader(nil, logger)
//	raw, report, err := reader.Read("prices.xlsx", "")
//	if err != nil {
//	    // StructuralError and EmptyPanelError are repair candidates
//	}
//
//	pre := dataprocessing.NewPreprocessor(logger)
//	panel, missing, err := pre.Preprocess(raw)
//
// Partition and document:
//
//	partitioner := dataprocessing.NewPartitioner(classifier, logger)
//	partition := partitioner.Partition(panel)
//
//	builder := dataprocessing.NewDictionaryBuilder(classifier, logger)
//	dict := builder.Build(panel, dataprocessing.DailyReturns(panel), "prices.xlsx")
//
// # Data Flow
//
// The typical flow through this package:
//
//	Workbook → Reader → RawPanel → Preprocessor → Panel → Partitioner → sub-panels
//	                                              Panel → DictionaryBuilder → DataDictionary
//
// # Error Handling
//
// Failures are typed so the orchestrator can tell repairable from
// fatal: StructuralError and EmptyPanelError trigger the workbook
// repair path, DateCoercionError terminates the run. Classification
// gaps and residual missingness are reports, never errors.
package dataprocessing
