// Package http provides the HTTP client used for splitter-service calls
// and stem transfers.
//
// The Client in this package handles:
//   - JSON POST requests to the resolve and cleanup endpoints
//   - Streamed file downloads with progress tracking
//   - Bounded request timeouts so network calls never hang
//
// # Basic Usage
//
//	client := http.NewClient(30 * time.Second)
//
//	// Call a JSON endpoint
//	var resp resolveResponse
//	err := client.PostJSON(ctx, endpointURL, request, &resp)
//
//	// Download a stem with a progress callback
//	client.DownloadFile(ctx, signedURL, "/path/to/stem.wav", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
