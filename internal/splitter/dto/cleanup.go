package dto

// CleanupRequest asks the cleanup endpoint to remove a batch's stems from
// the remote store. The endpoint is idempotent; repeating a request for an
// already-removed batch succeeds.
type CleanupRequest struct {
	// BatchID identifies the batch to remove.
	BatchID string `json:"batch_id"`

	// Names lists the stem names the batch contained.
	Names []string `json:"names"`
}

// CleanupResponse is the cleanup endpoint's reply.
type CleanupResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
