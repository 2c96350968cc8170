package homework

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"reviewbot/internal/logging"
)

// catalog holds the verdict sentences and message template for one language.
type catalog struct {
	template string
	verdicts map[Status]string
}

var catalogs = map[language.Tag]catalog{
	language.English: {
		template: `Changed review status for "%s". %s`,
		verdicts: map[Status]string{
			StatusApproved:  "The work has been reviewed: the reviewer liked everything. Hooray!",
			StatusReviewing: "The work has been taken for review by the reviewer.",
			StatusRejected:  "The work has been reviewed: the reviewer has comments.",
		},
	},
	language.Russian: {
		template: `Изменился статус проверки работы "%s". %s`,
		verdicts: map[Status]string{
			StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
			StatusReviewing: "Работа взята на проверку ревьюером.",
			StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
		},
	},
}

// English is listed first so it wins when nothing matches.
var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

// Translator renders work items into notification text using the verdict
// catalog selected at construction.
type Translator struct {
	tag     language.Tag
	catalog catalog
	logger  *slog.Logger
}

// NewTranslator selects the closest supported catalog for lang. An empty lang
// selects English.
func NewTranslator(lang string, logger *slog.Logger) (*Translator, error) {
	requested := language.English
	if lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", lang, err)
		}
		requested = tag
	}
	_, index, _ := matcher.Match(requested)
	tag := supported[index]
	return &Translator{tag: tag, catalog: catalogs[tag], logger: logger}, nil
}

// Language returns the tag of the selected catalog.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// Verdict returns the catalog sentence for status.
func (t *Translator) Verdict(status Status) (string, bool) {
	verdict, ok := t.catalog.verdicts[status]
	return verdict, ok
}

// Translate composes the notification for raw. An empty record yields ""
// with no error, meaning there is nothing to report.
func (t *Translator) Translate(raw RawItem) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	item, err := DecodeWorkItem(raw)
	if err != nil {
		t.logFailure(err)
		return "", err
	}
	return t.Render(item)
}

// Render composes the notification for a decoded item.
func (t *Translator) Render(item WorkItem) (string, error) {
	verdict, ok := t.Verdict(item.Status)
	if !ok {
		err := Wrap(ErrUnknownStatusCode, "render", fmt.Sprintf("status %q", item.Status), nil)
		t.logFailure(err)
		return "", err
	}
	return fmt.Sprintf(t.catalog.template, item.Name, verdict), nil
}

func (t *Translator) logFailure(err error) {
	hint := "check the review API payload for this work item"
	if errors.Is(err, ErrUnknownStatusCode) {
		hint = "the review API reported a status this agent does not know"
	}
	logging.ErrorWithContext(t.logger, "work item translation failed", "translate_failed",
		logging.String(logging.FieldErrorKind, KindOf(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
	)
}
