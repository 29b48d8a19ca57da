package sync

// TriggerSyncRequest tunes an enqueued sync run. Both bounds are optional
// RFC3339 timestamps overriding the run's computed window.
type TriggerSyncRequest struct {
	From string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To   string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
