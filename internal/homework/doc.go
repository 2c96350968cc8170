// Package homework models the review API payload and turns it into
// notification text.
//
// Validate is the parse step for the untyped wire payload: it yields either an
// APIResponse or one of the sentinel errors below. DecodeWorkItem is the only
// place a raw record is inspected field by field, and Translator renders a
// decoded WorkItem using the verdict catalog for the configured language.
package homework
