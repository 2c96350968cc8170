// Package poller runs the review status polling loop.
//
// Each cycle fetches statuses since the cursor, validates the payload,
// translates the most recent work item and hands any new text to the
// notifier. A cycle returns a typed error instead of stopping the loop: Run
// logs it, optionally reports it to the user, and always sleeps for the
// configured interval before the next cycle. Only context cancellation ends
// Run.
//
// The engine owns PollState exclusively and keeps it in memory only. The
// cursor policy decides whether the cursor follows the server clock after a
// successful cycle (advance) or stays at process start (frozen); in both
// cases a message identical to the last one sent is suppressed.
package poller
