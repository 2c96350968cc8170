package homework

import (
	"fmt"
	"strings"
)

// Status is a review status code reported by the API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Known reports whether s is one of the enumerated review statuses.
func (s Status) Known() bool {
	switch s {
	case StatusApproved, StatusReviewing, StatusRejected:
		return true
	default:
		return false
	}
}

// Wire field names of a work item record.
const (
	FieldHomeworkName = "homework_name"
	FieldStatus       = "status"
)

// RawItem is an undecoded work item record as it arrived on the wire.
type RawItem map[string]any

// WorkItem is a decoded work item. Only DecodeWorkItem produces one.
type WorkItem struct {
	Name   string
	Status Status
}

// APIResponse is a structurally valid review API payload.
type APIResponse struct {
	Homeworks []RawItem
	// CurrentDate is the server clock in unix seconds, 0 when absent.
	CurrentDate int64
}

// Head returns the most recent record and whether the list was non-empty.
func (r APIResponse) Head() (RawItem, bool) {
	if len(r.Homeworks) == 0 {
		return nil, false
	}
	return r.Homeworks[0], true
}

// nonMappingKey holds a list element that was not a mapping. The review API
// never sends keys with control characters.
const nonMappingKey = "\x00element"

// DecodeWorkItem converts a raw record into a WorkItem. Both homework_name and
// status must be non-empty strings, and status must be a known code.
func DecodeWorkItem(raw RawItem) (WorkItem, error) {
	if element, ok := raw[nonMappingKey]; ok {
		return WorkItem{}, Wrap(ErrIncompleteWorkItem, "decode work item", fmt.Sprintf("record is %T, not a mapping", element), nil)
	}
	name, nameOK := stringField(raw, FieldHomeworkName)
	status, statusOK := stringField(raw, FieldStatus)
	if !nameOK || !statusOK {
		missing := make([]string, 0, 2)
		if !nameOK {
			missing = append(missing, FieldHomeworkName)
		}
		if !statusOK {
			missing = append(missing, FieldStatus)
		}
		return WorkItem{}, Wrap(ErrIncompleteWorkItem, "decode work item", "missing "+strings.Join(missing, ", "), nil)
	}
	item := WorkItem{Name: name, Status: Status(status)}
	if !item.Status.Known() {
		return WorkItem{}, Wrap(ErrUnknownStatusCode, "decode work item", fmt.Sprintf("status %q", status), nil)
	}
	return item, nil
}

func stringField(raw RawItem, key string) (string, bool) {
	value, ok := raw[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
