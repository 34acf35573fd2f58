// Package dto defines the JSON wire types for the splitter service.
package dto

// ResolveRequest asks the resolve endpoint for retrieval locations.
type ResolveRequest struct {
	// BatchID correlates the request with a processed batch.
	BatchID string `json:"batch_id"`

	// Names is the subset of stem names to resolve: the full manifest on
	// a first attempt, the failed subset on a retry.
	Names []string `json:"names"`
}

// ResolveResponse is the resolve endpoint's reply.
type ResolveResponse struct {
	// Status is "success" when locations were issued.
	Status string `json:"status"`

	// Locations holds one entry per resolved name, in any order.
	Locations []Location `json:"locations,omitempty"`

	// Message carries the service's failure description when Status is
	// not "success".
	Message string `json:"message,omitempty"`
}

// Location is one signed retrieval location.
type Location struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Category string `json:"category"`
}

// StatusSuccess is the Status value reported for a successful call.
const StatusSuccess = "success"
