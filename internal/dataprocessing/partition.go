package dataprocessing

import (
	"log/slog"

	"amqcli/internal/taxonomy"
	"amqcli/pkg/contracts/domain"
)

// Partitioner splits a normalized panel into per-asset-class sub-panels
// using the classifier. Row order and within-class column order follow
// the source panel; unclassified columns appear in no sub-panel and are
// reported, not dropped silently.
type Partitioner struct {
	classifier *taxonomy.Classifier
	logger     *slog.Logger
}

// NewPartitioner creates a partitioner. A nil classifier falls back to
// one over the default taxonomy, a nil logger to slog.Default().
func NewPartitioner(classifier *taxonomy.Classifier, logger *slog.Logger) *Partitioner {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = taxonomy.NewClassifier(nil, logger)
	}
	return &Partitioner{classifier: classifier, logger: logger}
}

// Partition builds the classified partition of a panel. Classes come
// back in taxonomy order; classes with no member columns are omitted.
func (p *Partitioner) Partition(panel *domain.Panel) *domain.ClassifiedPartition {
	byClass, unclassified := p.classifier.PartitionColumns(panel.Columns)

	partition := &domain.ClassifiedPartition{
		Panels:       make(map[domain.AssetClass]*domain.Panel),
		Unclassified: unclassified,
	}
	for _, class := range p.classifier.Taxonomy().Classes() {
		columns, ok := byClass[class]
		if !ok {
			continue
		}
		partition.Order = append(partition.Order, class)
		partition.Panels[class] = panel.SelectColumns(columns)
	}

	p.logger.Info("panel partitioned by asset class",
		slog.Int("classes", len(partition.Order)),
		slog.Int("classified_columns", partition.ClassifiedColumns()),
		slog.Int("unclassified_columns", len(unclassified)))

	return partition
}
