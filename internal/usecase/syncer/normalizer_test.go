package syncer

import (
	"strings"
	"testing"

	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/platform"
)

func TestParseVTTSpeakerAndUnknown(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nAlice: Hello there\n\n00:00:02.000 --> 00:00:04.000\nHow are you\n"

	got := ParseVTT(vtt)

	if len(got.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got.Segments))
	}
	if got.Segments[0].Speaker != "Alice" || got.Segments[0].Text != "Hello there" {
		t.Fatalf("unexpected first segment %+v", got.Segments[0])
	}
	if got.Segments[1].Speaker != "Unknown" || got.Segments[1].Text != "How are you" {
		t.Fatalf("unexpected second segment %+v", got.Segments[1])
	}
	if got.FullText != "Hello there\nHow are you" {
		t.Fatalf("unexpected full text %q", got.FullText)
	}
	if got.Segments[0].StartTime != 0 || got.Segments[0].EndTime != 2 {
		t.Fatalf("unexpected first segment window %+v", got.Segments[0])
	}
	if got.Segments[1].StartTime != 2 || got.Segments[1].EndTime != 4 {
		t.Fatalf("unexpected second segment window %+v", got.Segments[1])
	}
	if got.WordCount != 5 {
		t.Fatalf("expected word count 5, got %d", got.WordCount)
	}
}

func TestParseVTTMultilineCue(t *testing.T) {
	vtt := strings.Join([]string{
		"WEBVTT",
		"",
		"NOTE this block is ignored",
		"",
		"1",
		"00:01:00.500 --> 00:01:03.250",
		"Bob Smith: We rolled it out",
		"across the whole team",
		"",
		"2",
		"00:01:03.250 --> 00:01:05.000",
		"Nice",
		"",
	}, "\r\n")

	got := ParseVTT(vtt)

	if len(got.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got.Segments))
	}
	if got.Segments[0].Speaker != "Bob Smith" {
		t.Fatalf("unexpected speaker %q", got.Segments[0].Speaker)
	}
	if got.Segments[0].Text != "We rolled it out across the whole team" {
		t.Fatalf("unexpected text %q", got.Segments[0].Text)
	}
	if got.Segments[0].StartTime != 60.5 || got.Segments[0].EndTime != 63.25 {
		t.Fatalf("unexpected window %+v", got.Segments[0])
	}
	if got.Segments[1].Speaker != "Unknown" || got.Segments[1].Text != "Nice" {
		t.Fatalf("unexpected second segment %+v", got.Segments[1])
	}
}

func TestParseVTTEmptyContent(t *testing.T) {
	got := ParseVTT("WEBVTT\n\n")
	if len(got.Segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(got.Segments))
	}
	if got.FullText != "" || got.WordCount != 0 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestNormalizeGongTranscript(t *testing.T) {
	raw := `{
		"callId": "123",
		"transcript": [
			{
				"speakerName": "Dana Reyes",
				"speakerId": "u-1",
				"sentences": [
					{"start": 2500, "end": 4000, "text": "Thanks for joining."},
					{"start": 500, "end": 2400, "text": "Hello everyone."}
				]
			},
			{
				"speakerId": "u-2",
				"sentences": [
					{"start": 4100, "end": 6000, "text": "Happy to be here."}
				]
			},
			{
				"sentences": [
					{"start": 6100, "end": 6500, "text": "Same."}
				]
			}
		]
	}`

	got, err := NormalizeGongTranscript([]byte(raw))
	if err != nil {
		t.Fatalf("NormalizeGongTranscript: %v", err)
	}

	if len(got.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got.Segments))
	}
	first := got.Segments[0]
	if first.Speaker != "Dana Reyes" {
		t.Fatalf("unexpected speaker %q", first.Speaker)
	}
	if first.Text != "Thanks for joining. Hello everyone." {
		t.Fatalf("sentences must join in order, got %q", first.Text)
	}
	if first.StartTime != 0.5 || first.EndTime != 4.0 {
		t.Fatalf("window must span min start to max end, got %+v", first)
	}
	if got.Segments[1].Speaker != "u-2" {
		t.Fatalf("expected speaker id fallback, got %q", got.Segments[1].Speaker)
	}
	if got.Segments[2].Speaker != "Unknown" {
		t.Fatalf("expected Unknown speaker, got %q", got.Segments[2].Speaker)
	}
	if got.FullText != "Thanks for joining. Hello everyone.\nHappy to be here.\nSame." {
		t.Fatalf("unexpected full text %q", got.FullText)
	}
	if got.WordCount != len(strings.Fields(got.FullText)) {
		t.Fatalf("word count %d does not match token count", got.WordCount)
	}
}

func TestNormalizeGongTranscriptBadJSON(t *testing.T) {
	if _, err := NormalizeGongTranscript([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNormalizeDispatchesOnFormat(t *testing.T) {
	vtt := &platform.TranscriptPayload{
		Format: platform.TranscriptFormatVTT,
		Raw:    "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nAlice: Hi\n",
	}
	got, err := Normalize(vtt)
	if err != nil {
		t.Fatalf("Normalize vtt: %v", err)
	}
	if got.FullText != "Hi" {
		t.Fatalf("unexpected full text %q", got.FullText)
	}

	gong := &platform.TranscriptPayload{
		Format: platform.TranscriptFormatGong,
		Raw:    `{"transcript": [{"speakerName": "A", "sentences": [{"start": 0, "end": 1000, "text": "Hey"}]}]}`,
	}
	got, err = Normalize(gong)
	if err != nil {
		t.Fatalf("Normalize gong: %v", err)
	}
	if got.FullText != "Hey" {
		t.Fatalf("unexpected full text %q", got.FullText)
	}

	if _, err := Normalize(&platform.TranscriptPayload{Format: "srt"}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
