package persist

import (
	"encoding/json"
	"os"

	"github.com/tarstars/gbdte/gbdt"
)

// curveRecord is the JSON-visible shape of one gbdt.MonitorRecord: an
// integer stage index and a map from dataset name to metric value (§4.6).
type curveRecord struct {
	Stage   int                `json:"stage"`
	Metrics map[string]float64 `json:"metrics"`
}

// DumpLearningCurves writes records as the JSON document defined in §4.6:
// a list of stage records, each carrying the stage index and every
// configured monitor dataset's metric at that stage.
func DumpLearningCurves(path string, records []gbdt.MonitorRecord) error {
	out := make([]curveRecord, len(records))
	for i, r := range records {
		out[i] = curveRecord{Stage: r.Stage, Metrics: r.Metrics}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return ioErrorf("DumpLearningCurves", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ioErrorf("DumpLearningCurves", err)
	}
	return nil
}
