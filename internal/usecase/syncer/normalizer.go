package syncer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/platform"
)

// timestampRe matches WebVTT cue ranges like "00:00:00.000 --> 00:00:02.000".
var timestampRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}\.\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}\.\d{3})`)

// NormalizedTranscript is the platform-independent transcript shape.
// WordCount always equals the whitespace-token count of FullText.
type NormalizedTranscript struct {
	FullText  string
	Segments  []entities.Segment
	WordCount int
}

// Normalize converts a raw platform transcript payload into the normalized
// shape. It is deterministic and touches nothing outside its arguments.
func Normalize(payload *platform.TranscriptPayload) (*NormalizedTranscript, error) {
	switch payload.Format {
	case platform.TranscriptFormatVTT:
		return ParseVTT(payload.Raw), nil
	case platform.TranscriptFormatGong:
		return NormalizeGongTranscript([]byte(payload.Raw))
	default:
		return nil, fmt.Errorf("unsupported transcript format %q", payload.Format)
	}
}

// ParseVTT parses WebVTT caption content into the normalized shape. Cue text
// of the form "Speaker Name: spoken text" yields the named speaker; anything
// else is attributed to "Unknown".
func ParseVTT(content string) *NormalizedTranscript {
	var (
		segments  []entities.Segment
		textParts []string
	)

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	i := 0

	// Skip the WEBVTT header and any NOTE blocks before the first cue range.
	for i < len(lines) && !timestampRe.MatchString(lines[i]) {
		i++
	}

	for i < len(lines) {
		m := timestampRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}
		start := parseVTTTimestamp(m[1])
		end := parseVTTTimestamp(m[2])
		i++

		var textLines []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, strings.TrimSpace(lines[i]))
			i++
		}

		rawText := strings.Join(textLines, " ")

		speaker := "Unknown"
		text := rawText
		if idx := strings.Index(rawText, ": "); idx >= 0 {
			speaker = rawText[:idx]
			text = rawText[idx+2:]
		}

		segments = append(segments, entities.Segment{
			Speaker:   speaker,
			Text:      text,
			StartTime: start,
			EndTime:   end,
		})
		textParts = append(textParts, text)
	}

	fullText := strings.Join(textParts, "\n")
	return &NormalizedTranscript{
		FullText:  fullText,
		Segments:  segments,
		WordCount: len(strings.Fields(fullText)),
	}
}

func parseVTTTimestamp(ts string) float64 {
	var h, m int
	var s float64
	if _, err := fmt.Sscanf(ts, "%d:%d:%f", &h, &m, &s); err != nil {
		return 0
	}
	return float64(h)*3600 + float64(m)*60 + s
}

type gongSentence struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Text  string   `json:"text"`
}

type gongMonologue struct {
	SpeakerName string         `json:"speakerName"`
	SpeakerID   string         `json:"speakerId"`
	Sentences   []gongSentence `json:"sentences"`
}

type gongTranscriptPayload struct {
	Transcript []gongMonologue `json:"transcript"`
}

// NormalizeGongTranscript flattens Gong's sentence-level structure into the
// normalized shape. Each speaker monologue becomes one segment whose window
// spans the min start and max end of its sentences.
func NormalizeGongTranscript(raw []byte) (*NormalizedTranscript, error) {
	var payload gongTranscriptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode gong transcript: %w", err)
	}

	var (
		segments  []entities.Segment
		textParts []string
	)

	for _, mono := range payload.Transcript {
		speaker := mono.SpeakerName
		if speaker == "" {
			speaker = mono.SpeakerID
		}
		if speaker == "" {
			speaker = "Unknown"
		}

		var (
			sentenceTexts      []string
			start, end         float64
			haveStart, haveEnd bool
		)
		for _, s := range mono.Sentences {
			sentenceTexts = append(sentenceTexts, s.Text)
			if s.Start != nil && (!haveStart || *s.Start < start) {
				start = *s.Start
				haveStart = true
			}
			if s.End != nil && (!haveEnd || *s.End > end) {
				end = *s.End
				haveEnd = true
			}
		}

		text := strings.Join(sentenceTexts, " ")
		textParts = append(textParts, text)

		// Gong reports sentence offsets in milliseconds.
		segments = append(segments, entities.Segment{
			Speaker:   speaker,
			Text:      text,
			StartTime: start / 1000,
			EndTime:   end / 1000,
		})
	}

	fullText := strings.Join(textParts, "\n")
	return &NormalizedTranscript{
		FullText:  fullText,
		Segments:  segments,
		WordCount: len(strings.Fields(fullText)),
	}, nil
}
