package assemblyai

import (
	"context"
	"fmt"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/pkg/config"
)

// Client wraps the official AssemblyAI SDK for fallback transcription of
// recordings that arrived without a platform transcript artifact.
type Client struct {
	sdk *aai.Client
}

// Result is a completed transcription mapped to canonical segments.
type Result struct {
	FullText string
	Segments []entities.Segment
	Language string
}

// NewClient creates an AssemblyAI client
func NewClient(cfg *config.AssemblyConfig) *Client {
	return &Client{sdk: aai.NewClient(cfg.APIKey)}
}

// Transcribe submits a publicly reachable media URL with speaker labels
// enabled and blocks until the transcript completes. Utterance offsets come
// back in milliseconds and are converted to seconds.
func (c *Client) Transcribe(ctx context.Context, mediaURL string) (*Result, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := c.sdk.Transcripts.TranscribeFromURL(ctx, mediaURL, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai transcription failed: %s", msg)
	}

	result := &Result{}
	if transcript.LanguageCode != "" {
		result.Language = string(transcript.LanguageCode)
	}

	for _, u := range transcript.Utterances {
		segment := entities.Segment{Speaker: "Unknown"}
		if u.Speaker != nil && *u.Speaker != "" {
			segment.Speaker = "Speaker " + *u.Speaker
		}
		if u.Text != nil {
			segment.Text = *u.Text
		}
		if u.Start != nil {
			segment.StartTime = float64(*u.Start) / 1000.0
		}
		if u.End != nil {
			segment.EndTime = float64(*u.End) / 1000.0
		}
		result.Segments = append(result.Segments, segment)
	}

	if len(result.Segments) == 0 && transcript.Text != nil && *transcript.Text != "" {
		// Speaker detection can come back empty; keep the flat text as a
		// single unattributed segment.
		result.Segments = append(result.Segments, entities.Segment{
			Speaker: "Unknown",
			Text:    *transcript.Text,
		})
	}
	if len(result.Segments) == 0 {
		return nil, fmt.Errorf("assemblyai returned no transcript content")
	}

	parts := make([]string, 0, len(result.Segments))
	for _, s := range result.Segments {
		parts = append(parts, s.Text)
	}
	result.FullText = strings.Join(parts, "\n")

	return result, nil
}
