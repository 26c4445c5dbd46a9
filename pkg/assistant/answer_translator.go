package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusbot-be/pkg/translate"
)

type Translation struct {
	Answer     string
	Translated bool
	// Err is set when translation failed and the answer was kept as is.
	Err error
}

type AnswerTranslator struct {
	translator translate.Translator
	canonical  string
	timeout    time.Duration
}

func NewAnswerTranslator(translator translate.Translator, canonical string, timeout time.Duration) *AnswerTranslator {
	return &AnswerTranslator{translator: translator, canonical: canonical, timeout: timeout}
}

// Needed reports whether answers in language must be translated.
func (a *AnswerTranslator) Needed(language string) bool {
	return language != "" && !translate.SameLanguage(language, a.canonical)
}

// Translate renders answer into language. It is the identity for the
// canonical language and on any failure.
func (a *AnswerTranslator) Translate(ctx context.Context, answer, language string) Translation {
	if !a.Needed(language) || a.translator == nil {
		return Translation{Answer: answer}
	}

	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	out, err := a.translator.Translate(ctx, answer, language)
	if err != nil {
		return Translation{Answer: answer, Err: fmt.Errorf("translate answer to %s: %w", language, err)}
	}
	if strings.TrimSpace(out) == "" {
		return Translation{Answer: answer, Err: fmt.Errorf("translate answer to %s: empty output", language)}
	}
	return Translation{Answer: out, Translated: true}
}
