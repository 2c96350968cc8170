// Package notifications delivers review status messages to the user.
//
// A Transport sends one text to one destination. Two transports exist: the
// Telegram Bot API (the default) and ntfy. Notifier wraps a transport and
// never surfaces delivery failures to the polling loop; they are logged and
// dropped, and the next status change is the next chance to deliver.
package notifications
