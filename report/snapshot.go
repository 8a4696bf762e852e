package report

import (
	"encoding/json"
	"log/slog"
	"os"
)

// LoadSnapshot reads the previous run's JSON report and returns its
// title→hash map. A missing or unparsable report is not an error: the run
// proceeds from an empty baseline, so every current section classifies as
// new and none as changed.
func LoadSnapshot(path string, logger *slog.Logger) map[string]string {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("previous report unreadable, starting from empty baseline",
				slog.String("path", path), slog.String("error", err.Error()))
		}
		return map[string]string{}
	}

	var prev Report
	if err := json.Unmarshal(data, &prev); err != nil {
		logger.Warn("previous report unparsable, starting from empty baseline",
			slog.String("path", path), slog.String("error", err.Error()))
		return map[string]string{}
	}

	snapshot := make(map[string]string, len(prev.Sections))
	for title, info := range prev.Sections {
		snapshot[title] = info.Hash
	}
	return snapshot
}
