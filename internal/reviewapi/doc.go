// Package reviewapi fetches homework statuses from the review API.
//
// Client wraps a resty client configured from the review_api section. Fetch
// returns the decoded JSON payload untouched so homework.Validate stays the
// only place that interprets its shape. HTTP failures are tagged with
// homework.ErrRemoteServer or homework.ErrRemoteRequest.
package reviewapi
