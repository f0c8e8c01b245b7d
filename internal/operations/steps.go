package operations

import (
	"context"
	"log/slog"
	"path/filepath"

	"amqcli/internal/config"
	"amqcli/internal/dataprocessing"
	"amqcli/internal/exporter"
	"amqcli/internal/files"
	"amqcli/internal/reports"
	"amqcli/internal/taxonomy"

	"amqcli/pkg/contracts/domain"
)

// Step IDs in execution order
const (
	StepIDIngest     = "ingest"
	StepIDPreprocess = "preprocess"
	StepIDTransform  = "transform"
	StepIDReturns    = "returns"
	StepIDPartition  = "partition"
	StepIDDictionary = "dictionary"
	StepIDExport     = "export"
)

// IngestStep reads the source workbook and resolves its headers. Its
// failures drive the repair decision: structural and empty-panel errors
// are the repairable ones.
type IngestStep struct {
	baseStep
	reader *dataprocessing.Reader
	logger *slog.Logger
}

// NewIngestStep creates the ingestion step
func NewIngestStep(reader *dataprocessing.Reader, logger *slog.Logger) *IngestStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestStep{
		baseStep: baseStep{id: StepIDIngest, name: "Workbook Ingestion"},
		reader:   reader,
		logger:   logger,
	}
}

func (s *IngestStep) Validate(state *RunState) error {
	if state.SourcePath == "" {
		return NewValidationError(s.ID(), "no source workbook configured")
	}
	if !config.FileExists(state.SourcePath) {
		return NewValidationError(s.ID(), "source workbook does not exist: "+state.SourcePath)
	}
	return nil
}

func (s *IngestStep) Execute(ctx context.Context, state *RunState) error {
	raw, report, err := s.reader.Read(state.SourcePath, state.Sheet)
	if report != nil {
		// Kept even on failure so the manifest can explain what the
		// reader saw before giving up.
		state.IngestReport = report
	}
	if err != nil {
		return WrapStepError(s.ID(), err, ErrorKindStructural)
	}
	state.Raw = raw

	s.logger.InfoContext(ctx, "workbook ingestion finished",
		slog.String("source", state.SourcePath),
		slog.Int("rows", report.DataRows),
		slog.Int("columns", report.DataColumns))
	return nil
}

// PreprocessStep coerces the raw index to dates and normalizes the
// panel onto the business-day calendar with forward-fill.
type PreprocessStep struct {
	baseStep
	pre    *dataprocessing.Preprocessor
	logger *slog.Logger
}

// NewPreprocessStep creates the preprocessing step
func NewPreprocessStep(pre *dataprocessing.Preprocessor, logger *slog.Logger) *PreprocessStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreprocessStep{
		baseStep: baseStep{id: StepIDPreprocess, name: "Panel Normalization"},
		pre:      pre,
		logger:   logger,
	}
}

func (s *PreprocessStep) Validate(state *RunState) error {
	if state.Raw.IsEmpty() {
		return NewValidationError(s.ID(), "no raw panel to normalize")
	}
	return nil
}

func (s *PreprocessStep) Execute(ctx context.Context, state *RunState) error {
	panel, missing, err := s.pre.Preprocess(state.Raw)
	if err != nil {
		return WrapStepError(s.ID(), err, ErrorKindExecution)
	}
	state.Panel = panel
	state.Missingness = missing

	s.logger.InfoContext(ctx, "panel normalized",
		slog.Int("business_days", panel.NumRows()),
		slog.Int("columns", panel.NumColumns()),
		slog.Int("residual_missing_cells", missing.MissingCells))
	return nil
}

// TransformStep applies the configured panel transforms in order. The
// default transform set is empty, in which case the step is skipped.
type TransformStep struct {
	baseStep
	transforms []dataprocessing.Transform
	logger     *slog.Logger
}

// NewTransformStep creates the transform step
func NewTransformStep(transforms []dataprocessing.Transform, logger *slog.Logger) *TransformStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransformStep{
		baseStep:   baseStep{id: StepIDTransform, name: "Panel Transforms"},
		transforms: transforms,
		logger:     logger,
	}
}

// SkipReason reports the step as skippable when no transforms are
// configured, so the manifest shows the hook was deliberately unused.
func (s *TransformStep) SkipReason(state *RunState) string {
	if len(s.transforms) == 0 {
		return "no transforms configured"
	}
	return ""
}

func (s *TransformStep) Validate(state *RunState) error {
	if state.Panel.IsEmpty() {
		return NewValidationError(s.ID(), "no normalized panel to transform")
	}
	return nil
}

func (s *TransformStep) Execute(ctx context.Context, state *RunState) error {
	panel, err := dataprocessing.ApplyTransforms(state.Panel, s.transforms, s.logger)
	if err != nil {
		return WrapStepError(s.ID(), err, ErrorKindTransform)
	}
	state.Panel = panel
	return nil
}

// ReturnsStep derives the daily and month-end return series from the
// normalized panel.
type ReturnsStep struct {
	baseStep
	logger *slog.Logger
}

// NewReturnsStep creates the return derivation step
func NewReturnsStep(logger *slog.Logger) *ReturnsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReturnsStep{
		baseStep: baseStep{id: StepIDReturns, name: "Return Series Derivation"},
		logger:   logger,
	}
}

func (s *ReturnsStep) Validate(state *RunState) error {
	if state.Panel.IsEmpty() {
		return NewValidationError(s.ID(), "no normalized panel to derive returns from")
	}
	return nil
}

func (s *ReturnsStep) Execute(ctx context.Context, state *RunState) error {
	state.DailyReturns = dataprocessing.DailyReturns(state.Panel)
	state.MonthlyReturns = dataprocessing.MonthlyReturns(state.Panel)

	s.logger.InfoContext(ctx, "return series derived",
		slog.Int("daily_rows", state.DailyReturns.NumRows()),
		slog.Int("monthly_rows", state.MonthlyReturns.NumRows()))
	return nil
}

// PartitionStep splits the panel's columns by asset class. Columns the
// taxonomy does not know stay out of every class panel and surface in
// the run diagnostics instead.
type PartitionStep struct {
	baseStep
	partitioner *dataprocessing.Partitioner
	logger      *slog.Logger
}

// NewPartitionStep creates the partition step
func NewPartitionStep(partitioner *dataprocessing.Partitioner, logger *slog.Logger) *PartitionStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PartitionStep{
		baseStep:    baseStep{id: StepIDPartition, name: "Asset Class Partition"},
		partitioner: partitioner,
		logger:      logger,
	}
}

func (s *PartitionStep) Validate(state *RunState) error {
	if state.Panel.IsEmpty() {
		return NewValidationError(s.ID(), "no normalized panel to partition")
	}
	return nil
}

func (s *PartitionStep) Execute(ctx context.Context, state *RunState) error {
	state.Partition = s.partitioner.Partition(state.Panel)

	if n := len(state.Partition.Unclassified); n > 0 {
		s.logger.WarnContext(ctx, "columns left unclassified",
			slog.Int("count", n),
			slog.Any("columns", state.Partition.Unclassified))
	}
	return nil
}

// DictionaryStep builds the data dictionary from the normalized panel
// and the daily return series.
type DictionaryStep struct {
	baseStep
	builder *dataprocessing.DictionaryBuilder
	logger  *slog.Logger
}

// NewDictionaryStep creates the dictionary step
func NewDictionaryStep(builder *dataprocessing.DictionaryBuilder, logger *slog.Logger) *DictionaryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DictionaryStep{
		baseStep: baseStep{id: StepIDDictionary, name: "Data Dictionary"},
		builder:  builder,
		logger:   logger,
	}
}

func (s *DictionaryStep) Validate(state *RunState) error {
	if state.Panel.IsEmpty() {
		return NewValidationError(s.ID(), "no normalized panel to describe")
	}
	if state.DailyReturns == nil {
		return NewValidationError(s.ID(), "no daily return series for dictionary statistics")
	}
	return nil
}

func (s *DictionaryStep) Execute(ctx context.Context, state *RunState) error {
	state.Dictionary = s.builder.Build(state.Panel, state.DailyReturns, filepath.Base(state.SourcePath))

	s.logger.InfoContext(ctx, "data dictionary built",
		slog.Int("entries", len(state.Dictionary.Entries)))
	return nil
}

// ExportStep emits every run artifact: the raw workbook snapshot, the
// combined panel in three formats, the data dictionary, the return
// series, the per-class panels, and the taxonomy reports. The first
// failed write aborts the step.
type ExportStep struct {
	baseStep
	paths   *config.Paths
	files   *files.Manager
	panels  *exporter.PanelWriter
	dict    *exporter.DictionaryWriter
	classes *exporter.ClassPanelExporter
	reports *reports.Generator
	logger  *slog.Logger
}

// NewExportStep creates the artifact emission step
func NewExportStep(paths *config.Paths, tax *taxonomy.Taxonomy, logger *slog.Logger) *ExportStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStep{
		baseStep: baseStep{id: StepIDExport, name: "Artifact Emission"},
		paths:    paths,
		files:    files.NewManager(paths),
		panels:   exporter.NewPanelWriter(paths, logger),
		dict:     exporter.NewDictionaryWriter(paths, logger),
		classes:  exporter.NewClassPanelExporter(paths, logger),
		reports:  reports.NewGenerator(tax, logger),
		logger:   logger,
	}
}

func (s *ExportStep) Validate(state *RunState) error {
	if state.Panel.IsEmpty() {
		return NewValidationError(s.ID(), "no normalized panel to export")
	}
	if state.Partition == nil {
		return NewValidationError(s.ID(), "no class partition to export")
	}
	if state.Dictionary == nil {
		return NewValidationError(s.ID(), "no data dictionary to export")
	}
	if state.DailyReturns == nil || state.MonthlyReturns == nil {
		return NewValidationError(s.ID(), "no return series to export")
	}
	return nil
}

func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	if err := s.paths.EnsureDirectories(); err != nil {
		return NewArtifactError(s.ID(), err)
	}

	// The raw snapshot preserves the vendor original, so only primary
	// runs take one. A repaired run reads the rebuilt workbook, which
	// already lives under data/processed.
	if state.Mode == domain.RunModePrimary {
		snapshot := s.paths.GetRawSnapshotPath(state.SourcePath)
		if err := s.files.CopyFile(state.SourcePath, snapshot); err != nil {
			return NewArtifactError(s.ID(), err)
		}
		state.AddArtifact(snapshot)
	}

	writes := []struct {
		path  string
		write func() error
	}{
		{s.paths.AllAssetsCSV, func() error { return s.panels.WriteCSV(s.paths.AllAssetsCSV, state.Panel) }},
		{s.paths.AllAssetsXLSX, func() error { return s.panels.WriteXLSX(s.paths.AllAssetsXLSX, state.Panel) }},
		{s.paths.AllAssetsMsgpack, func() error { return exporter.WritePanelMsgpack(s.paths.AllAssetsMsgpack, state.Panel) }},
		{s.paths.DataDictionaryCSV, func() error { return s.dict.WriteCSV(s.paths.DataDictionaryCSV, state.Dictionary) }},
		{s.paths.DataDictionaryXLSX, func() error { return s.dict.WriteXLSX(s.paths.DataDictionaryXLSX, state.Dictionary) }},
		{s.paths.DailyReturnsCSV, func() error { return s.panels.WriteCSV(s.paths.DailyReturnsCSV, state.DailyReturns) }},
		{s.paths.DailyReturnsPack, func() error { return exporter.WritePanelMsgpack(s.paths.DailyReturnsPack, state.DailyReturns) }},
		{s.paths.MonthlyReturnsCSV, func() error { return s.panels.WriteCSV(s.paths.MonthlyReturnsCSV, state.MonthlyReturns) }},
		{s.paths.MonthlyReturnsPack, func() error { return exporter.WritePanelMsgpack(s.paths.MonthlyReturnsPack, state.MonthlyReturns) }},
	}
	for _, w := range writes {
		if err := w.write(); err != nil {
			return NewArtifactError(s.ID(), err)
		}
		state.AddArtifact(w.path)
	}

	classPaths, err := s.classes.ExportClassPanels(state.Partition)
	if err != nil {
		return NewArtifactError(s.ID(), err)
	}
	for _, p := range classPaths {
		state.AddArtifact(p)
	}

	reportPaths, err := s.reports.WriteAll(s.paths)
	if err != nil {
		return NewArtifactError(s.ID(), err)
	}
	for _, p := range reportPaths {
		state.AddArtifact(p)
	}

	s.logger.InfoContext(ctx, "artifacts written",
		slog.Int("count", len(state.Artifacts())),
		slog.String("processed_dir", s.paths.ProcessedDir))
	return nil
}
