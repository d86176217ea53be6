// Package twitter implements a minimal client for the Twitter v2
// recent-search API.
//
// The client authenticates with an app-only bearer token, applies a bounded
// per-request timeout, and maps HTTP failures onto the pipeline's typed
// error kinds: 401/403 become auth errors, 429 becomes a rate-limit error,
// 5xx becomes a server error, and transport failures become network errors.
// Response bodies are decoded against an explicit schema; records missing
// required fields are dropped and counted rather than propagated.
//
// Pagination uses the API's next_token cursor. One Search call returns one
// page; the collector drives the cursor loop.
package twitter
