package mining

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
)

const (
	// chunkWordLimit is the transcript size above which extraction switches
	// to overlapping windows.
	chunkWordLimit = 80000
	chunkWords     = 60000
	chunkOverlap   = 5000

	// dedupSimilarityThreshold is the title similarity at or above which two
	// candidates from different chunks count as the same story.
	dedupSimilarityThreshold = 0.8

	extractionMaxTokens = 16384
)

// storyCandidate is one story as returned by the extraction tool call. raw
// keeps the verbatim payload for the audit column.
type storyCandidate struct {
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	StoryText       string   `json:"story_text"`
	Themes          []string `json:"themes"`
	CustomerName    string   `json:"customer_name"`
	CustomerCompany string   `json:"customer_company"`
	Sentiment       string   `json:"sentiment"`
	ConfidenceScore float64  `json:"confidence_score"`

	raw map[string]interface{}
}

// ExtractStories mines a meeting's transcript into persisted stories.
func (s *miningService) ExtractStories(ctx context.Context, orgID string, meetingID uuid.UUID, profileName string) ([]*entities.ExtractedStory, error) {
	profile, err := s.resolveProfile(ctx, orgID, profileName)
	if err != nil {
		return nil, err
	}

	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("load meeting: %w", err)
	}
	if meeting == nil {
		return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrMeetingNotFound, meetingID)
	}

	transcript, err := s.transcriptRepo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	if transcript == nil || transcript.FullText == "" {
		return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrTranscriptMissing, meetingID)
	}

	tool, err := extractionTool(profile)
	if err != nil {
		return nil, err
	}

	system := s.extractionSystemPrompt(profile)
	userTemplate := PromptTemplate{Text: profile.ExtractionUserPrompt}
	if userTemplate.Text == "" {
		userTemplate.Text = DefaultExtractionUserPrompt
	}

	meetingVars := map[string]string{
		"title":        meetingTitle(meeting),
		"date":         meetingDate(meeting),
		"participants": s.participantContext(ctx, meetingID),
	}

	wordCount := transcript.WordCount
	if wordCount == 0 {
		wordCount = len(strings.Fields(transcript.FullText))
	}

	if s.logger != nil {
		s.logger.Info("🧠 Story extraction started",
			zap.String("meeting_id", meetingID.String()),
			zap.String("profile", profile.Name),
			zap.Int("word_count", wordCount),
		)
	}

	chunked := wordCount > chunkWordLimit
	chunks := []string{transcript.FullText}
	if chunked {
		chunks = chunkTranscript(transcript.FullText)
		if s.logger != nil {
			s.logger.Info("✂️ Transcript chunked",
				zap.String("meeting_id", meetingID.String()),
				zap.Int("chunks", len(chunks)),
			)
		}
	}

	var candidates []storyCandidate
	for i, chunk := range chunks {
		meetingVars["transcript"] = chunk
		user, err := userTemplate.Render(meetingVars)
		if err != nil {
			return nil, err
		}

		input, invoked, err := s.model.ExtractWithTool(ctx, system, user, tool, extractionMaxTokens)
		if err != nil {
			return nil, fmt.Errorf("extract chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if !invoked {
			if s.logger != nil {
				s.logger.Warn("⚠️ Model skipped the extraction tool",
					zap.String("meeting_id", meetingID.String()),
					zap.Int("chunk", i+1),
				)
			}
			continue
		}

		chunkCandidates, err := parseCandidates(input)
		if err != nil {
			return nil, fmt.Errorf("parse chunk %d/%d: %w", i+1, len(chunks), err)
		}
		candidates = append(candidates, chunkCandidates...)
	}

	if chunked {
		before := len(candidates)
		candidates = dedupCandidates(candidates)
		if s.logger != nil {
			s.logger.Info("🧹 Candidates deduplicated",
				zap.Int("before", before),
				zap.Int("after", len(candidates)),
			)
		}
	}

	threshold := profile.Threshold()
	inserted := make([]*entities.ExtractedStory, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ConfidenceScore < threshold {
			if s.logger != nil {
				s.logger.Info("🗑️ Low-confidence story dropped",
					zap.String("title", cand.Title),
					zap.Float64("confidence", cand.ConfidenceScore),
					zap.Float64("threshold", threshold),
				)
			}
			continue
		}

		story := entities.NewExtractedStory(meeting.ID, profile.ID)
		story.OrgID = orgID
		story.Title = cand.Title
		story.Summary = cand.Summary
		story.StoryText = cand.StoryText
		story.Themes = cand.Themes
		story.CustomerName = cand.CustomerName
		story.CustomerCompany = cand.CustomerCompany
		story.Sentiment = entities.Sentiment(cand.Sentiment)
		story.ConfidenceScore = cand.ConfidenceScore
		story.RawAnalysis = datatypes.NewJSONType(cand.raw)

		if err := s.storyRepo.Create(ctx, story); err != nil {
			return inserted, fmt.Errorf("insert story %q: %w", cand.Title, err)
		}
		inserted = append(inserted, story)
	}

	if s.logger != nil {
		s.logger.Info("✅ Story extraction completed",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("candidates", len(candidates)),
			zap.Int("inserted", len(inserted)),
		)
	}
	return inserted, nil
}

func meetingTitle(meeting *entities.Meeting) string {
	if meeting.Title == "" {
		return "Untitled Meeting"
	}
	return meeting.Title
}

func meetingDate(meeting *entities.Meeting) string {
	if meeting.StartedAt == nil {
		return "Unknown"
	}
	return meeting.StartedAt.Format(time.RFC3339)
}

// participantContext renders the attendee list for the prompt. Lookup
// failures degrade to "Unknown" rather than failing the extraction.
func (s *miningService) participantContext(ctx context.Context, meetingID uuid.UUID) string {
	participants, err := s.participantRepo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Participant lookup failed",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
		return "Unknown"
	}
	if len(participants) == 0 {
		return "Unknown"
	}

	names := make([]string, 0, len(participants))
	for _, p := range participants {
		switch {
		case p.Name != "":
			names = append(names, p.Name)
		case p.Email != "":
			names = append(names, p.Email)
		default:
			names = append(names, "Unknown")
		}
	}
	return strings.Join(names, ", ")
}

// chunkTranscript splits the text into overlapping word windows so chunk
// boundaries do not cut stories in half.
func chunkTranscript(fullText string) []string {
	words := strings.Fields(fullText)
	var chunks []string
	for start := 0; start < len(words); start += chunkWords - chunkOverlap {
		end := start + chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// parseCandidates decodes the tool payload, keeping each story's raw JSON
// alongside the typed fields.
func parseCandidates(input json.RawMessage) ([]storyCandidate, error) {
	var payload struct {
		Stories []json.RawMessage `json:"stories"`
	}
	if err := json.Unmarshal(input, &payload); err != nil {
		return nil, fmt.Errorf("decode tool payload: %w", err)
	}

	candidates := make([]storyCandidate, 0, len(payload.Stories))
	for i, rawStory := range payload.Stories {
		var cand storyCandidate
		if err := json.Unmarshal(rawStory, &cand); err != nil {
			return nil, fmt.Errorf("decode story %d: %w", i, err)
		}
		if err := json.Unmarshal(rawStory, &cand.raw); err != nil {
			return nil, fmt.Errorf("decode story %d audit payload: %w", i, err)
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// dedupCandidates collapses near-duplicate stories produced by overlapping
// chunks. For each candidate the unique list is scanned; on a title match
// the higher-confidence story survives (the replacement moves to the end of
// the list), ties keep the first seen.
func dedupCandidates(candidates []storyCandidate) []storyCandidate {
	var unique []storyCandidate
	for _, cand := range candidates {
		duplicate := false
		for i := range unique {
			if titleSimilarity(cand.Title, unique[i].Title) >= dedupSimilarityThreshold {
				if cand.ConfidenceScore > unique[i].ConfidenceScore {
					unique = append(append(unique[:i], unique[i+1:]...), cand)
				}
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, cand)
		}
	}
	return unique
}
