package entities

// SyncReport summarizes one sync run against the remote provider
type SyncReport struct {
	RunID          string `json:"run_id"`
	Processed      int    `json:"processed"`
	Inserted       int    `json:"inserted"`
	Errors         int    `json:"errors"`
	LatestSequence int    `json:"latest_sequence"`
	Message        string `json:"message"`
}
