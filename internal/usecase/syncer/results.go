package syncer

import (
	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// StepError records a non-fatal sub-step failure for one record.
type StepError struct {
	Step string // participants | transcript | media | fallback_transcription
	Err  error
}

// RecordResult is the explicit outcome of syncing one platform record.
// Either Err is set and nothing beyond the failed meeting upsert was
// attempted, or MeetingID identifies the upserted row and StepErrors lists
// the sub-steps that failed and were skipped.
type RecordResult struct {
	ExternalID       string
	MeetingID        uuid.UUID
	Err              error
	StepErrors       []StepError
	TranscriptStored bool
	MediaStored      int
}

// Failed reports whether the record was skipped entirely.
func (r *RecordResult) Failed() bool {
	return r.Err != nil
}

// Report aggregates the outcome of one sync run.
type Report struct {
	Platform     entities.Platform `json:"platform"`
	Synced       int               `json:"synced"`        // meetings upserted
	Skipped      int               `json:"skipped"`       // records dropped by a failed meeting upsert
	Transcripts  int               `json:"transcripts"`   // transcripts stored, fallback included
	MediaStored  int               `json:"media_stored"`  // media artifacts uploaded
	StepFailures int               `json:"step_failures"` // logged sub-step failures
	Pages        int               `json:"pages"`         // listing pages consumed
	LastCursor   string            `json:"last_cursor,omitempty"`
}

// absorb folds a batch of record results into the run totals.
func (r *Report) absorb(results []RecordResult) {
	for i := range results {
		res := &results[i]
		if res.Failed() {
			r.Skipped++
			continue
		}
		r.Synced++
		if res.TranscriptStored {
			r.Transcripts++
		}
		r.MediaStored += res.MediaStored
		r.StepFailures += len(res.StepErrors)
	}
}
