package utils

import (
	"sync"
	"unicode/utf8"

	"campusbot-be/pkg/llm"

	"github.com/tiktoken-go/tokenizer"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// CountTokens approximates prompt size with the cl100k encoding. When the
// codec is unavailable it falls back to a quarter of the rune count.
func CountTokens(text string) int {
	codecOnce.Do(func() {
		c, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err == nil {
			codec = c
		}
	})
	if codec != nil {
		if ids, _, err := codec.Encode(text); err == nil {
			return len(ids)
		}
	}
	return (utf8.RuneCountInString(text) + 3) / 4
}

// TruncateToTokens cuts text to at most maxTokens tokens, keeping the head.
func TruncateToTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if CountTokens(text) <= maxTokens {
		return text
	}
	if codec != nil {
		if ids, _, err := codec.Encode(text); err == nil {
			if out, err := codec.Decode(ids[:maxTokens]); err == nil {
				return out
			}
		}
	}
	runes := []rune(text)
	if n := maxTokens * 4; n < len(runes) {
		runes = runes[:n]
	}
	return string(runes)
}

// TrimHistoryToBudget keeps the most recent messages that fit both limits.
// A limit of zero or less disables it. Order is preserved. The latest message
// is always kept; when it alone exceeds the token budget its content is
// truncated to fit.
func TrimHistoryToBudget(history []llm.Message, maxMessages, maxTokens int) []llm.Message {
	if len(history) == 0 {
		return []llm.Message{}
	}

	last := history[len(history)-1]
	if maxTokens > 0 && CountTokens(last.Content) > maxTokens {
		last.Content = TruncateToTokens(last.Content, maxTokens)
		return []llm.Message{last}
	}

	start := len(history)
	used := 0
	for i := len(history) - 1; i >= 0; i-- {
		if maxMessages > 0 && len(history)-i > maxMessages {
			break
		}
		cost := CountTokens(history[i].Content)
		if maxTokens > 0 && used+cost > maxTokens {
			break
		}
		used += cost
		start = i
	}

	out := make([]llm.Message, len(history)-start)
	copy(out, history[start:])
	return out
}
