package sync

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"argentasync/internal/infrastructure/argenta"
)

// SnapshotWriter dumps the raw movements of a sync run to disk for debugging.
// Writes are best-effort: failures are logged and never fail the run.
type SnapshotWriter struct {
	dir string
}

// NewSnapshotWriter creates a snapshot writer. An empty dir disables writes.
func NewSnapshotWriter(dir string) *SnapshotWriter {
	return &SnapshotWriter{dir: dir}
}

type snapshot struct {
	RunID          string             `json:"runId"`
	SyncTime       string             `json:"syncTime"`
	IBAN           string             `json:"iban"`
	FullSync       bool               `json:"fullSync"`
	TotalMovements int                `json:"totalMovements"`
	Movements      []argenta.Movement `json:"movements"`
}

// Write saves the movements of one run under
// sync-<iban>-<full|incremental>-<timestamp>.json.
func (w *SnapshotWriter) Write(runID, iban string, fullSync bool, movements []argenta.Movement) {
	if w.dir == "" {
		return
	}

	now := time.Now().UTC()
	mode := "incremental"
	if fullSync {
		mode = "full"
	}
	timestamp := strings.NewReplacer(":", "-", ".", "-").Replace(now.Format(time.RFC3339Nano))
	sanitizedIBAN := strings.ReplaceAll(iban, " ", "")
	filename := filepath.Join(w.dir, "sync-"+sanitizedIBAN+"-"+mode+"-"+timestamp+".json")

	data, err := json.MarshalIndent(snapshot{
		RunID:          runID,
		SyncTime:       now.Format(time.RFC3339),
		IBAN:           iban,
		FullSync:       fullSync,
		TotalMovements: len(movements),
		Movements:      movements,
	}, "", "  ")
	if err != nil {
		log.Printf("Failed to encode sync snapshot: %v", err)
		return
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		log.Printf("Failed to create snapshot directory: %v", err)
		return
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		log.Printf("Failed to save sync snapshot: %v", err)
		return
	}

	log.Printf("Sync snapshot saved to %s", filename)
}
