package homework

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedResponse    = errors.New("malformed response")
	ErrMissingHomeworksKey  = errors.New("missing homeworks key")
	ErrHomeworksNotSequence = errors.New("homeworks is not a sequence")
	ErrUnknownStatusCode    = errors.New("unknown status code")
	ErrIncompleteWorkItem   = errors.New("incomplete work item")
	ErrRemoteServer         = errors.New("remote server error")
	ErrRemoteRequest        = errors.New("remote request error")
)

var kinds = []struct {
	marker error
	name   string
}{
	{ErrMalformedResponse, "malformed_response"},
	{ErrMissingHomeworksKey, "missing_homeworks_key"},
	{ErrHomeworksNotSequence, "homeworks_not_sequence"},
	{ErrUnknownStatusCode, "unknown_status_code"},
	{ErrIncompleteWorkItem, "incomplete_work_item"},
	{ErrRemoteServer, "remote_server_error"},
	{ErrRemoteRequest, "remote_request_error"},
}

// Wrap tags a failure with one of the sentinels above so KindOf and errors.Is
// can classify it after further wrapping.
func Wrap(marker error, operation, message string, err error) error {
	if marker == nil {
		marker = ErrRemoteRequest
	}
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		if err != nil {
			return fmt.Errorf("%w: %w", marker, err)
		}
		return marker
	}
	detail := strings.Join(parts, ": ")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf names the failure class of err for logs and failure reports. It
// returns "" for nil and "unexpected" for errors outside the taxonomy.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range kinds {
		if errors.Is(err, kind.marker) {
			return kind.name
		}
	}
	return "unexpected"
}
