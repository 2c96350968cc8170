package homework_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"reviewbot/internal/homework"
)

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func logLines(buf *bytes.Buffer) []string {
	trimmed := strings.TrimSpace(buf.String())
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func decode(t *testing.T, body string) any {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestValidateAcceptsWellFormedPayload(t *testing.T) {
	logger, buf := bufferLogger()
	raw := decode(t, `{"homeworks":[{"homework_name":"Project1","status":"approved"},{"homework_name":"Old","status":"rejected"}],"current_date":1700000000}`)

	resp, err := homework.Validate(raw, logger)
	require.NoError(t, err)
	require.Len(t, resp.Homeworks, 2)
	require.Equal(t, int64(1700000000), resp.CurrentDate)

	head, ok := resp.Head()
	require.True(t, ok)
	require.Equal(t, "Project1", head["homework_name"])
	require.Empty(t, logLines(buf))
}

func TestValidateEmptySequence(t *testing.T) {
	resp, err := homework.Validate(decode(t, `{"homeworks":[]}`), nil)
	require.NoError(t, err)
	require.Empty(t, resp.Homeworks)
	require.Zero(t, resp.CurrentDate)

	_, ok := resp.Head()
	require.False(t, ok)
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want error
		kind string
	}{
		{name: "list payload", raw: []any{}, want: homework.ErrMalformedResponse, kind: "malformed_response"},
		{name: "string payload", raw: "oops", want: homework.ErrMalformedResponse, kind: "malformed_response"},
		{name: "nil payload", raw: nil, want: homework.ErrMalformedResponse, kind: "malformed_response"},
		{name: "missing key", raw: map[string]any{"current_date": 1.0}, want: homework.ErrMissingHomeworksKey, kind: "missing_homeworks_key"},
		{name: "null homeworks", raw: map[string]any{"homeworks": nil}, want: homework.ErrMissingHomeworksKey, kind: "missing_homeworks_key"},
		{name: "mapping homeworks", raw: map[string]any{"homeworks": map[string]any{"a": 1}}, want: homework.ErrHomeworksNotSequence, kind: "homeworks_not_sequence"},
		{name: "string homeworks", raw: map[string]any{"homeworks": "[]"}, want: homework.ErrHomeworksNotSequence, kind: "homeworks_not_sequence"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, buf := bufferLogger()
			_, err := homework.Validate(tc.raw, logger)
			require.ErrorIs(t, err, tc.want)
			require.Equal(t, tc.kind, homework.KindOf(err))

			lines := logLines(buf)
			require.Len(t, lines, 1, "expected exactly one diagnostic entry")
			require.Contains(t, lines[0], `"level":"ERROR"`)
			require.Contains(t, lines[0], tc.kind)
		})
	}
}

func TestValidateKeepsNonMappingElementsDistinctFromEmptyRecords(t *testing.T) {
	resp, err := homework.Validate(decode(t, `{"homeworks":["text", 3, null, {}, {"homework_name":"x","status":"approved"}]}`), nil)
	require.NoError(t, err)
	require.Len(t, resp.Homeworks, 5)
	for i := 0; i < 3; i++ {
		require.NotEmpty(t, resp.Homeworks[i], "element %d must not look like an empty record", i)
		_, err := homework.DecodeWorkItem(resp.Homeworks[i])
		require.ErrorIs(t, err, homework.ErrIncompleteWorkItem)
		require.Contains(t, err.Error(), "not a mapping")
	}
	require.Empty(t, resp.Homeworks[3])
	require.Equal(t, "x", resp.Homeworks[4]["homework_name"])
}

func TestTranslateRejectsNonMappingHead(t *testing.T) {
	logger, buf := bufferLogger()
	translator, err := homework.NewTranslator("en", logger)
	require.NoError(t, err)

	resp, err := homework.Validate(decode(t, `{"homeworks":["garbage"]}`), nil)
	require.NoError(t, err)
	head, ok := resp.Head()
	require.True(t, ok)

	text, err := translator.Translate(head)
	require.ErrorIs(t, err, homework.ErrIncompleteWorkItem)
	require.Empty(t, text)
	require.Len(t, logLines(buf), 1)
}

func TestDecodeWorkItem(t *testing.T) {
	item, err := homework.DecodeWorkItem(homework.RawItem{"homework_name": "hw", "status": "reviewing", "reviewer_comment": "ok"})
	require.NoError(t, err)
	require.Equal(t, homework.WorkItem{Name: "hw", Status: homework.StatusReviewing}, item)

	_, err = homework.DecodeWorkItem(homework.RawItem{"status": "approved"})
	require.ErrorIs(t, err, homework.ErrIncompleteWorkItem)
	require.Contains(t, err.Error(), "homework_name")

	_, err = homework.DecodeWorkItem(homework.RawItem{"homework_name": "hw", "status": 7})
	require.ErrorIs(t, err, homework.ErrIncompleteWorkItem)

	_, err = homework.DecodeWorkItem(homework.RawItem{"homework_name": "hw", "status": "lost"})
	require.ErrorIs(t, err, homework.ErrUnknownStatusCode)
}

func TestTranslateKnownStatuses(t *testing.T) {
	translator, err := homework.NewTranslator("en", nil)
	require.NoError(t, err)

	cases := map[homework.Status]string{
		homework.StatusApproved:  "The work has been reviewed: the reviewer liked everything. Hooray!",
		homework.StatusReviewing: "The work has been taken for review by the reviewer.",
		homework.StatusRejected:  "The work has been reviewed: the reviewer has comments.",
	}
	for status, verdict := range cases {
		text, err := translator.Translate(homework.RawItem{"homework_name": "Project1", "status": string(status)})
		require.NoError(t, err)
		require.Equal(t, `Changed review status for "Project1". `+verdict, text)
		require.Contains(t, text, "Project1")
	}
}

func TestTranslateEmptyRecordIsNoChange(t *testing.T) {
	logger, buf := bufferLogger()
	translator, err := homework.NewTranslator("", logger)
	require.NoError(t, err)

	text, err := translator.Translate(nil)
	require.NoError(t, err)
	require.Empty(t, text)

	text, err = translator.Translate(homework.RawItem{})
	require.NoError(t, err)
	require.Empty(t, text)
	require.Empty(t, logLines(buf))
}

func TestTranslateFailuresLogOnce(t *testing.T) {
	tests := []struct {
		name string
		raw  homework.RawItem
		want error
	}{
		{name: "unknown status", raw: homework.RawItem{"homework_name": "hw", "status": "archived"}, want: homework.ErrUnknownStatusCode},
		{name: "missing both", raw: homework.RawItem{"id": 1}, want: homework.ErrIncompleteWorkItem},
		{name: "missing status", raw: homework.RawItem{"homework_name": "hw"}, want: homework.ErrIncompleteWorkItem},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, buf := bufferLogger()
			translator, err := homework.NewTranslator("en", logger)
			require.NoError(t, err)

			text, err := translator.Translate(tc.raw)
			require.ErrorIs(t, err, tc.want)
			require.Empty(t, text)
			require.Len(t, logLines(buf), 1)
		})
	}
}

func TestTranslatorLanguageSelection(t *testing.T) {
	ru, err := homework.NewTranslator("ru-RU", nil)
	require.NoError(t, err)
	require.Equal(t, language.Russian, ru.Language())

	text, err := ru.Translate(homework.RawItem{"homework_name": "Проект", "status": "approved"})
	require.NoError(t, err)
	require.Equal(t, `Изменился статус проверки работы "Проект". Работа проверена: ревьюеру всё понравилось. Ура!`, text)

	fallback, err := homework.NewTranslator("de", nil)
	require.NoError(t, err)
	require.Equal(t, language.English, fallback.Language())

	_, err = homework.NewTranslator("not a language tag", nil)
	require.Error(t, err)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, "", homework.KindOf(nil))
	require.Equal(t, "unexpected", homework.KindOf(json.Unmarshal([]byte("{"), new(any))))

	wrapped := homework.Wrap(homework.ErrRemoteServer, "fetch", "status 503", nil)
	require.Equal(t, "remote_server_error", homework.KindOf(wrapped))
	require.Equal(t, "remote server error: fetch: status 503", wrapped.Error())
}
