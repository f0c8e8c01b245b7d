package exporter

import (
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"amqcli/internal/errors"

	"amqcli/pkg/contracts/domain"
)

// panelPayload is the msgpack wire form of a panel. Dates travel as
// Unix seconds so the round trip is byte-deterministic regardless of
// the host time zone database.
type panelPayload struct {
	Dates   []int64     `msgpack:"dates"`
	Columns []string    `msgpack:"columns"`
	Cells   [][]float64 `msgpack:"cells"`
}

// WritePanelMsgpack serializes the panel to a msgpack file. The payload
// survives a read back via ReadPanelMsgpack with identical dates,
// columns, and cell values (NaN included).
func WritePanelMsgpack(path string, panel *domain.Panel) error {
	payload := panelPayload{
		Dates:   make([]int64, len(panel.Dates)),
		Columns: panel.Columns,
		Cells:   panel.Cells,
	}
	for i, d := range panel.Dates {
		payload.Dates[i] = d.Unix()
	}

	data, err := msgpack.Marshal(payload)
	if err != nil {
		return errors.NewStorageError("failed to marshal panel msgpack", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError("failed to write panel msgpack", err)
	}
	return nil
}

// ReadPanelMsgpack loads a panel written by WritePanelMsgpack. Dates
// come back as midnight UTC instants.
func ReadPanelMsgpack(path string) (*domain.Panel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to read panel msgpack", err)
	}

	var payload panelPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, errors.NewParsingError("failed to unmarshal panel msgpack", err)
	}

	panel := &domain.Panel{
		Dates:   make([]time.Time, len(payload.Dates)),
		Columns: payload.Columns,
		Cells:   payload.Cells,
	}
	for i, s := range payload.Dates {
		panel.Dates[i] = time.Unix(s, 0).UTC()
	}
	return panel, nil
}
