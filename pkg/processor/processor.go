package processor

import (
	"strings"
	"unicode/utf8"
)

// ProcessorConfig controls how text is cut into embedding windows.
// Sizes are measured in runes.
type ProcessorConfig struct {
	WindowSize    int
	WindowOverlap int
}

// Processor prepares document text for the embedding model. Text that fits
// in one window is passed through unchanged apart from UTF-8 cleanup.
type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.WindowSize <= 0 {
		config.WindowSize = 1000
	}
	if config.WindowOverlap < 0 || config.WindowOverlap >= config.WindowSize {
		config.WindowOverlap = 0
	}

	return Processor{
		config: config,
	}
}

// Windows returns the text split into windows of at most WindowSize runes.
// It always returns at least one window.
func (p *Processor) Windows(text string) []string {
	clean := SanitizeUTF8(text)
	if utf8.RuneCountInString(clean) <= p.config.WindowSize {
		return []string{clean}
	}

	var windows []string
	current := []rune{}

	flush := func() {
		if w := strings.TrimSpace(string(current)); w != "" {
			windows = append(windows, w)
		}
		if p.config.WindowOverlap > 0 && len(current) > p.config.WindowOverlap {
			current = append([]rune{}, current[len(current)-p.config.WindowOverlap:]...)
		} else {
			current = current[:0]
		}
	}

	for _, sentence := range splitIntoSentences(clean) {
		runes := []rune(sentence + " ")

		// If adding this sentence would exceed the window
		if len(current)+len(runes) > p.config.WindowSize && len(current) > 0 {
			flush()
		}

		// Sentences longer than a window are cut hard.
		for len(current)+len(runes) > p.config.WindowSize {
			room := p.config.WindowSize - len(current)
			if room <= 0 {
				current = current[:0]
				room = p.config.WindowSize
			}
			current = append(current, runes[:room]...)
			runes = runes[room:]
			flush()
		}
		current = append(current, runes...)
	}

	if w := strings.TrimSpace(string(current)); w != "" {
		windows = append(windows, w)
	}
	if len(windows) == 0 {
		return []string{clean}
	}
	return windows
}

func splitIntoSentences(text string) []string {
	sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n", "\n\n"}
	var sentences []string

	current := strings.Builder{}

	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])

		for _, ender := range sentenceEnders {
			if strings.HasSuffix(current.String(), ender) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
				break
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// SanitizeUTF8 drops invalid byte sequences.
func SanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
