package translate

import (
	"context"
	"strings"

	"github.com/clipforge/clipforge/internal/completion"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
)

// OriginalLanguage disables translation for a job.
const OriginalLanguage = "original"

// Translator rewrites caption text into a target language. Failures
// propagate; the caller decides whether to keep the original text.
type Translator interface {
	Translate(ctx context.Context, text, languageCode string) (string, error)
}

// languageNames resolves common language-code abbreviations. Unrecognized
// codes pass through verbatim as the language name.
var languageNames = map[string]string{
	"ar": "Arabic",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"hi": "Hindi",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"ms": "Malay",
	"pt": "Portuguese",
	"ru": "Russian",
	"th": "Thai",
	"tr": "Turkish",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// LanguageName maps a code like "id" to "Indonesian".
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

type Service struct {
	enabled bool
	client  *completion.Client
}

func NewService(enabled bool, client *completion.Client) *Service {
	return &Service{enabled: enabled, client: client}
}

var _ Translator = (*Service)(nil)

func (s *Service) Translate(ctx context.Context, text, languageCode string) (string, error) {
	if !s.enabled || s.client == nil {
		return "", errors.Wrap(models.ErrTranslation, "translator disabled")
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	prompt := "Translate the following short video caption to " + LanguageName(languageCode) + ". " +
		"Keep it natural and punchy. Return only the translated text, nothing else.\n\n" + text
	out, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return "", errors.Wrapf(models.ErrTranslation, "%v", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.Wrap(models.ErrTranslation, "empty translation")
	}
	return out, nil
}
