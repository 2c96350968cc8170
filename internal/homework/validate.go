package homework

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"reviewbot/internal/logging"
)

// Wire keys of the review API payload.
const (
	KeyHomeworks   = "homeworks"
	KeyCurrentDate = "current_date"
)

// Validate checks the decoded payload shape and extracts the work item list.
// Elements that are not mappings are kept as opaque records that
// DecodeWorkItem rejects; item-level checks belong there. Each failure emits
// one error log entry.
func Validate(raw any, logger *slog.Logger) (APIResponse, error) {
	payload, ok := asMapping(raw)
	if !ok {
		return APIResponse{}, validationFailure(logger, ErrMalformedResponse, fmt.Sprintf("expected mapping, got %T", raw))
	}

	value, ok := payload[KeyHomeworks]
	if !ok || value == nil {
		return APIResponse{}, validationFailure(logger, ErrMissingHomeworksKey, "response has no homeworks")
	}

	items, ok := asSequence(value)
	if !ok {
		return APIResponse{}, validationFailure(logger, ErrHomeworksNotSequence, fmt.Sprintf("homeworks is %T", value))
	}

	return APIResponse{
		Homeworks:   items,
		CurrentDate: unixSeconds(payload[KeyCurrentDate]),
	}, nil
}

func validationFailure(logger *slog.Logger, marker error, message string) error {
	err := Wrap(marker, "validate response", message, nil)
	logging.ErrorWithContext(logger, "review api response rejected", "response_invalid",
		logging.String(logging.FieldErrorKind, KindOf(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check review_api.endpoint points at the homework statuses API"),
	)
	return err
}

func asMapping(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, v != nil
	case RawItem:
		return v, v != nil
	default:
		return nil, false
	}
}

func asSequence(value any) ([]RawItem, bool) {
	switch v := value.(type) {
	case []any:
		items := make([]RawItem, len(v))
		for i, element := range v {
			if mapping, ok := asMapping(element); ok {
				items[i] = mapping
				continue
			}
			items[i] = RawItem{nonMappingKey: element}
		}
		return items, true
	case []RawItem:
		return append([]RawItem(nil), v...), true
	case []map[string]any:
		items := make([]RawItem, len(v))
		for i, element := range v {
			items[i] = element
		}
		return items, true
	default:
		return nil, false
	}
}

func unixSeconds(value any) int64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	}
	return 0
}
