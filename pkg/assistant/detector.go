package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusbot-be/pkg/translate"
)

// Detection sources.
const (
	DetectedFromHint    = "hint"
	DetectedFromService = "service"
	DetectedFromDefault = "default"
)

type Detection struct {
	Language string
	Source   string
	// Err is set when detection failed and the canonical language was used.
	Err error
}

type LanguageDetector struct {
	detector  translate.Detector
	canonical string
	timeout   time.Duration
}

func NewLanguageDetector(detector translate.Detector, canonical string, timeout time.Duration) *LanguageDetector {
	return &LanguageDetector{detector: detector, canonical: canonical, timeout: timeout}
}

// Detect classifies query. A well-formed hint wins over detection; empty input
// and service failures yield the canonical language.
func (d *LanguageDetector) Detect(ctx context.Context, query, hint string) Detection {
	if hint != "" {
		if code, err := translate.NormalizeCode(hint); err == nil {
			return Detection{Language: code, Source: DetectedFromHint}
		}
	}

	if strings.TrimSpace(query) == "" || d.detector == nil {
		return Detection{Language: d.canonical, Source: DetectedFromDefault}
	}

	ctx, cancel := withTimeout(ctx, d.timeout)
	defer cancel()

	lang, err := d.detector.Detect(ctx, query)
	if err != nil {
		return Detection{Language: d.canonical, Source: DetectedFromDefault, Err: fmt.Errorf("detect language: %w", err)}
	}
	code, err := translate.NormalizeCode(lang)
	if err != nil {
		return Detection{Language: d.canonical, Source: DetectedFromDefault, Err: err}
	}
	return Detection{Language: code, Source: DetectedFromService}
}
