// Package operations orchestrates the panel pipeline as a sequence of
// steps sharing one typed run state.
//
// A run moves a workbook through ingestion, normalization, the
// transform hook, return derivation, asset-class partitioning, the
// data dictionary, and artifact emission, strictly in that order. Each
// step reads its inputs from the RunState and writes its outputs back;
// there is no untyped context bag, so a miswired step fails at compile
// time.
//
// Core components:
//
// Runner: executes the full step sequence. A primary attempt that
// fails with a repairable error (structural ingestion failure or empty
// panel) triggers exactly one repair and re-run; the repaired
// attempt's failure is terminal. The run manifest is written for every
// outcome.
//
// Step: one unit of work with Validate and Execute phases. A step can
// additionally implement Skippable to opt out of a run, which the
// manifest records as a skipped stage.
//
// Repairer: rebuilds a structurally damaged workbook into the
// canonical layout, discarding its header cells and synthesizing
// replacements from taxonomy registry order.
//
// PipelineError: classifies failures by kind. The Repairable predicate
// on kinds is the runner's entire retry policy.
//
// Example usage:
//
//	runner := operations.NewRunner(paths, taxonomy.Default(), logger)
//	result, err := runner.Run(ctx, operations.RunRequest{
//		SourcePath: "data/AMQ_Data_August.xlsx",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Manifest.Status, len(result.Manifest.Artifacts))
package operations
