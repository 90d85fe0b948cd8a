package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appconfig "transferflow/config"
	"transferflow/logger"
	"transferflow/models"
)

// SnapshotWriter persists the output document of a run as a JSON file.
type SnapshotWriter struct {
	config *appconfig.Config
	log    *logger.Log
}

// NewSnapshotWriter creates a SnapshotWriter for the configured output path.
func NewSnapshotWriter(cfg *appconfig.Config) *SnapshotWriter {
	return &SnapshotWriter{
		config: cfg,
		log:    logger.GetLogger(),
	}
}

// OutputPath renders the configured path template for a league and season.
func (w *SnapshotWriter) OutputPath(leagueID, season string) string {
	path := w.config.Output.Path
	path = strings.ReplaceAll(path, "{league}", leagueID)
	path = strings.ReplaceAll(path, "{season}", season)
	return path
}

// Write serializes the snapshot as indented UTF-8 JSON. HTML escaping is off
// so player and club names keep their non-ASCII characters verbatim. The
// caller decides whether a failure aborts anything; per the pipeline's error
// policy it never does.
func (w *SnapshotWriter) Write(snap models.Snapshot, path string) error {
	log := w.log.WithComponent("snapshot_writer").WithFields(logger.Fields{
		"path":          path,
		"total_records": snap.Metadata.TotalRecords,
		"operation":     "write_snapshot",
	})

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	log.Info("snapshot written")
	logger.LogDataFlowEntry(log, "summarizer", "snapshot_file", snap.Metadata.TotalRecords, "flat_transfers")
	return nil
}
