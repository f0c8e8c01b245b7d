// Package exporter writes the pipeline's artifacts: panel and
// dictionary files, per-class sub-panels, and the run manifest.
//
// The main components are:
//
// CSVWriter: core CSV writing with headers, streaming for large panels,
// and UTF-8 BOM for Excel compatibility.
//
// PanelWriter: renders a normalized panel as CSV (interchange) and XLSX
// (human viewing). Missing cells stay empty, never zero.
//
// DictionaryWriter: renders the data dictionary as a flat CSV and a
// three-sheet workbook (entries, provenance metadata, asset-class
// summary).
//
// ClassPanelExporter: fans a classified partition out into one msgpack
// artifact per asset class.
//
// WritePanelMsgpack/ReadPanelMsgpack: binary panel serialization for
// fast reloads; a written panel reads back with identical dates,
// columns, and cells.
//
// WriteManifest/ReadManifest: the run provenance record, written for
// failed runs as well as successful ones.
//
// Example usage:
//
//	panels := exporter.NewPanelWriter(paths, logger)
//	if err := panels.WriteCSV(paths.AllAssetsCSV, panel); err != nil {
//		return err
//	}
//	if err := exporter.WritePanelMsgpack(paths.AllAssetsMsgpack, panel); err != nil {
//		return err
//	}
//
//	dict := exporter.NewDictionaryWriter(paths, logger)
//	err := dict.WriteXLSX(paths.DataDictionaryXLSX, dictionary)
package exporter
