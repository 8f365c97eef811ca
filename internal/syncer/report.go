package syncer

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/sergi/go-diff/diffmatchpatch"
)

type ChangeStatus string

const (
	StatusAdded     ChangeStatus = "added"
	StatusModified  ChangeStatus = "modified"
	StatusUnchanged ChangeStatus = "unchanged"
	StatusRemoved   ChangeStatus = "removed"
)

type FileChange struct {
	Path   string       `json:"path"`
	Status ChangeStatus `json:"status"`
	// Diff carries a patch-text snippet for modified files.
	Diff string `json:"diff,omitempty"`
}

type DocumentFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report is the structured summary of one sync run, the single source of
// truth for what succeeded and failed. External automation consumes it to
// decide whether to open a change request; the orchestrator never makes that
// decision itself.
type Report struct {
	Discovered int               `json:"discovered"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Files      []FileChange      `json:"files"`
	Failures   []DocumentFailure `json:"failures,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// HasChanges reports whether any file was added, modified or removed.
func (r *Report) HasChanges() bool {
	for _, f := range r.Files {
		if f.Status != StatusUnchanged {
			return true
		}
	}
	return false
}

// Encode serializes the report as indented JSON.
func (r *Report) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return out, nil
}

// patchText renders a compact, deterministic patch between two file
// versions for the report's modified entries.
func patchText(old, updated string) string {
	dmp := diffmatchpatch.New()
	return dmp.PatchToText(dmp.PatchMake(old, updated))
}
