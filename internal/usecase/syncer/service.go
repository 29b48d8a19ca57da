package syncer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/assemblyai"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/platform"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
	"github.com/cirrusops/conversation-miner/pkg/config"
)

// bulkEpoch is the lower time bound of a full resync.
var bulkEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// fallbackURLExpiry bounds how long the transcription service can fetch a
// stored media object through its presigned URL.
const fallbackURLExpiry = 2 * time.Hour

// Service defines sync orchestration methods
type Service interface {
	// Sync runs one sync pass for a platform. It returns the run report and
	// re-raises the failure after recording it on the state row.
	Sync(ctx context.Context, p entities.Platform, opts SyncOptions) (*Report, error)

	// Enqueue queues a sync job for the worker pool
	Enqueue(ctx context.Context, kind entities.PipelineJobKind, p entities.Platform, payload entities.PipelineJobPayload) (*entities.PipelineJob, error)

	// GetJob retrieves a queued job
	GetJob(ctx context.Context, id uuid.UUID) (*entities.PipelineJob, error)

	// ListJobs retrieves recently created jobs, newest first
	ListJobs(ctx context.Context, limit int) ([]*entities.PipelineJob, error)

	// Status retrieves the sync state of every configured platform
	Status(ctx context.Context) ([]*entities.SyncState, error)

	// StatusFor retrieves the sync state of one platform
	StatusFor(ctx context.Context, p entities.Platform) (*entities.SyncState, error)

	// StartWorkerPool starts the background job workers
	StartWorkerPool(ctx context.Context, workerCount int) error

	// StopWorkerPool gracefully stops all workers
	StopWorkerPool() error
}

// SyncOptions tunes one sync invocation.
type SyncOptions struct {
	Bulk bool       // page from the fixed epoch instead of the last sync point
	From *time.Time // explicit lower bound, overriding both modes
	To   *time.Time // explicit upper bound, defaulting to now
}

// ObjectStore is the slice of blob operations the sync pipeline needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	UploadText(ctx context.Context, objectName string, content string, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Transcriber produces a transcript from a media URL when the platform did
// not deliver one.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL string) (*assemblyai.Result, error)
}

type syncService struct {
	clients         map[entities.Platform]platform.Client
	meetingRepo     repositories.MeetingRepository
	participantRepo repositories.ParticipantRepository
	transcriptRepo  repositories.TranscriptRepository
	mediaRepo       repositories.MediaFileRepository
	syncStateRepo   repositories.SyncStateRepository
	jobRepo         repositories.PipelineJobRepository
	storage         ObjectStore
	transcriber     Transcriber
	cfg             *config.Config
	logger          *zap.Logger

	batchSize    int
	concurrency  int
	leaseTimeout time.Duration

	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs the sync orchestrator. transcriber may be nil, which
// disables fallback transcription for meetings without a platform transcript.
func NewService(
	clients map[entities.Platform]platform.Client,
	meetingRepo repositories.MeetingRepository,
	participantRepo repositories.ParticipantRepository,
	transcriptRepo repositories.TranscriptRepository,
	mediaRepo repositories.MediaFileRepository,
	syncStateRepo repositories.SyncStateRepository,
	jobRepo repositories.PipelineJobRepository,
	storage ObjectStore,
	transcriber Transcriber,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &syncService{
		clients:         clients,
		meetingRepo:     meetingRepo,
		participantRepo: participantRepo,
		transcriptRepo:  transcriptRepo,
		mediaRepo:       mediaRepo,
		syncStateRepo:   syncStateRepo,
		jobRepo:         jobRepo,
		storage:         storage,
		transcriber:     transcriber,
		cfg:             cfg,
		logger:          logger,
		batchSize:       cfg.Sync.BatchSize,
		concurrency:     cfg.Sync.Concurrency,
		leaseTimeout:    cfg.Sync.LeaseTimeout,
		workerStopChan:  make(chan struct{}),
	}
}

// Sync runs one sync pass under the platform's state lease.
func (s *syncService) Sync(ctx context.Context, p entities.Platform, opts SyncOptions) (*Report, error) {
	client, ok := s.clients[p]
	if !ok {
		return nil, usecaseErrors.ErrUnknownPlatform
	}

	if _, err := s.syncStateRepo.GetOrCreate(ctx, p); err != nil {
		return nil, fmt.Errorf("load sync state: %w", err)
	}

	from, to, err := s.bounds(ctx, p, opts)
	if err != nil {
		return nil, err
	}

	acquired, err := s.syncStateRepo.AcquireLease(ctx, p, time.Now().Add(-s.leaseTimeout))
	if err != nil {
		return nil, fmt.Errorf("acquire lease: %w", err)
	}
	if !acquired {
		return nil, usecaseErrors.ErrSyncAlreadyRunning
	}

	if s.logger != nil {
		s.logger.Info("🔄 Sync started",
			zap.String("platform", p.String()),
			zap.Time("from", from),
			zap.Time("to", to),
			zap.Bool("bulk", opts.Bulk),
		)
	}

	report, err := s.runSync(ctx, p, client, from, to)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Sync failed",
				zap.String("platform", p.String()),
				zap.Int("synced", report.Synced),
				zap.Error(err),
			)
		}
		if markErr := s.syncStateRepo.MarkError(ctx, p, err.Error()); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to record sync error state",
				zap.String("platform", p.String()),
				zap.Error(markErr),
			)
		}
		return report, err
	}

	if err := s.syncStateRepo.MarkIdle(ctx, p, report.Synced, report.LastCursor); err != nil {
		return report, fmt.Errorf("mark sync state idle: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Sync completed",
			zap.String("platform", p.String()),
			zap.Int("synced", report.Synced),
			zap.Int("skipped", report.Skipped),
			zap.Int("transcripts", report.Transcripts),
			zap.Int("media", report.MediaStored),
			zap.Int("step_failures", report.StepFailures),
		)
	}
	return report, nil
}

// bounds resolves the time window of a run. Incremental runs resume from the
// last successful sync point and fall back to the epoch on first sync.
func (s *syncService) bounds(ctx context.Context, p entities.Platform, opts SyncOptions) (time.Time, time.Time, error) {
	to := time.Now().UTC()
	if opts.To != nil {
		to = *opts.To
	}
	if opts.From != nil {
		return *opts.From, to, nil
	}
	if opts.Bulk {
		return bulkEpoch, to, nil
	}

	state, err := s.syncStateRepo.Find(ctx, p)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("load sync state: %w", err)
	}
	if state != nil && state.LastSyncedAt != nil {
		return *state.LastSyncedAt, to, nil
	}
	return bulkEpoch, to, nil
}

// runSync pages through the platform listing, grouping records into batches.
// Batches accumulate across page boundaries so short pages do not shrink the
// processing unit.
func (s *syncService) runSync(ctx context.Context, p entities.Platform, client platform.Client, from, to time.Time) (*Report, error) {
	report := &Report{Platform: p}

	var batch []*platform.Recording
	flush := func() {
		if len(batch) == 0 {
			return
		}
		results := s.processBatch(ctx, p, client, batch)
		report.absorb(results)
		if s.logger != nil {
			s.logger.Info("📦 Batch processed",
				zap.String("platform", p.String()),
				zap.Int("batch_size", len(batch)),
				zap.Int("total_synced", report.Synced),
			)
		}
		batch = nil
	}

	pageToken := ""
	for {
		page, err := client.ListRecordings(ctx, from, to, pageToken)
		if err != nil {
			return report, fmt.Errorf("list recordings: %w", err)
		}
		report.Pages++

		for i := range page.Recordings {
			batch = append(batch, &page.Recordings[i])
			if len(batch) >= s.batchSize {
				flush()
			}
		}

		if page.NextToken == "" {
			break
		}
		pageToken = page.NextToken
		report.LastCursor = page.NextToken
	}
	flush()

	return report, nil
}

// processBatch runs the batch's records concurrently up to the configured
// parallelism. Records are independent (platform, external_id) keys, so their
// writes never contend on the same meeting row.
func (s *syncService) processBatch(ctx context.Context, p entities.Platform, client platform.Client, recs []*platform.Recording) []RecordResult {
	results := make([]RecordResult, len(recs))

	concurrency := s.concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range recs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rec *platform.Recording) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.processRecord(ctx, p, client, rec)
		}(i, recs[i])
	}
	wg.Wait()

	return results
}

// processRecord syncs one platform record. A failed meeting upsert skips the
// record; participant, transcript, and media failures are logged and the
// remaining steps still run.
func (s *syncService) processRecord(ctx context.Context, p entities.Platform, client platform.Client, rec *platform.Recording) RecordResult {
	res := RecordResult{ExternalID: rec.ExternalID}

	meeting := entities.NewMeeting(p, rec.ExternalID)
	meeting.Title = rec.Title
	meeting.StartedAt = rec.StartedAt
	meeting.EndedAt = rec.EndedAt
	meeting.DurationSeconds = rec.DurationSeconds
	meeting.HostName = rec.HostName
	meeting.HostEmail = rec.HostEmail
	meeting.RawMetadata = datatypes.NewJSONType(rec.Raw)

	if err := s.meetingRepo.Upsert(ctx, meeting); err != nil {
		res.Err = fmt.Errorf("upsert meeting: %w", err)
		if s.logger != nil {
			s.logger.Warn("⏭️ Record skipped",
				zap.String("platform", p.String()),
				zap.String("external_id", rec.ExternalID),
				zap.Error(res.Err),
			)
		}
		return res
	}
	res.MeetingID = meeting.ID

	if err := s.syncParticipants(ctx, client, rec, meeting.ID); err != nil {
		res.StepErrors = append(res.StepErrors, StepError{Step: "participants", Err: err})
		s.logStepError(p, rec.ExternalID, "participants", err)
	}

	stored, err := s.syncTranscript(ctx, p, client, rec, meeting.ID)
	if err != nil {
		res.StepErrors = append(res.StepErrors, StepError{Step: "transcript", Err: err})
		s.logStepError(p, rec.ExternalID, "transcript", err)
	}
	res.TranscriptStored = stored

	mediaFiles, mediaErrs := s.syncMedia(ctx, p, client, rec, meeting.ID)
	res.MediaStored = len(mediaFiles)
	for _, mediaErr := range mediaErrs {
		res.StepErrors = append(res.StepErrors, StepError{Step: "media", Err: mediaErr})
		s.logStepError(p, rec.ExternalID, "media", mediaErr)
	}

	if !res.TranscriptStored {
		ok, err := s.fallbackTranscribe(ctx, meeting.ID, mediaFiles)
		if err != nil {
			res.StepErrors = append(res.StepErrors, StepError{Step: "fallback_transcription", Err: err})
			s.logStepError(p, rec.ExternalID, "fallback_transcription", err)
		}
		res.TranscriptStored = ok
	}

	return res
}

func (s *syncService) logStepError(p entities.Platform, externalID, step string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn("⚠️ Sync step failed",
		zap.String("platform", p.String()),
		zap.String("external_id", externalID),
		zap.String("step", step),
		zap.Error(err),
	)
}

func (s *syncService) syncParticipants(ctx context.Context, client platform.Client, rec *platform.Recording, meetingID uuid.UUID) error {
	parties, err := client.GetParticipants(ctx, rec)
	if err != nil {
		return fmt.Errorf("fetch participants: %w", err)
	}

	participants := make([]*entities.Participant, 0, len(parties))
	for _, party := range parties {
		participant := entities.NewParticipant(meetingID, party.Name)
		participant.Email = party.Email
		participant.Company = party.Company
		participant.Role = party.Role
		participant.IsCustomer = party.IsCustomer
		participant.SpeakerID = party.SpeakerID
		participants = append(participants, participant)
	}

	if err := s.participantRepo.ReplaceForMeeting(ctx, meetingID, participants); err != nil {
		return fmt.Errorf("replace participants: %w", err)
	}
	return nil
}

func (s *syncService) syncTranscript(ctx context.Context, p entities.Platform, client platform.Client, rec *platform.Recording, meetingID uuid.UUID) (bool, error) {
	payload, err := client.GetTranscript(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("fetch transcript: %w", err)
	}
	if payload == nil || payload.Raw == "" {
		return false, nil
	}

	normalized, err := Normalize(payload)
	if err != nil {
		return false, err
	}

	s.archiveTranscript(ctx, p, rec, meetingID, payload)

	transcript := entities.NewTranscript(meetingID)
	transcript.FullText = normalized.FullText
	transcript.Segments = normalized.Segments
	transcript.WordCount = normalized.WordCount
	transcript.Language = payload.Language
	transcript.Source = entities.TranscriptSourcePlatform

	if err := s.transcriptRepo.Upsert(ctx, transcript); err != nil {
		return false, fmt.Errorf("upsert transcript: %w", err)
	}
	return true, nil
}

// archiveTranscript stores the raw transcript artifact next to the meeting's
// media. Archival is best effort: the normalized row is the system of record.
func (s *syncService) archiveTranscript(ctx context.Context, p entities.Platform, rec *platform.Recording, meetingID uuid.UUID, payload *platform.TranscriptPayload) {
	ext, contentType := transcriptArtifact(payload.Format)
	objectPath := fmt.Sprintf("%s/%s/transcript.%s", p, rec.ExternalID, ext)

	if err := s.storage.UploadText(ctx, objectPath, payload.Raw, contentType); err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Raw transcript archival failed",
				zap.String("object_path", objectPath),
				zap.Error(err),
			)
		}
		return
	}

	media := entities.NewMediaFile(meetingID, "transcript", objectPath)
	media.ContentType = contentType
	media.SizeBytes = int64(len(payload.Raw))
	if err := s.mediaRepo.Upsert(ctx, media); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Raw transcript record failed",
			zap.String("object_path", objectPath),
			zap.Error(err),
		)
	}
}

func transcriptArtifact(format platform.TranscriptFormat) (ext, contentType string) {
	if format == platform.TranscriptFormatGong {
		return "json", "application/json"
	}
	return "vtt", "text/vtt"
}

// syncMedia downloads each artifact and stores it under the meeting's
// deterministic object prefix. Artifacts fail independently.
func (s *syncService) syncMedia(ctx context.Context, p entities.Platform, client platform.Client, rec *platform.Recording, meetingID uuid.UUID) ([]*entities.MediaFile, []error) {
	artifacts, err := client.ListMedia(ctx, rec)
	if err != nil {
		return nil, []error{fmt.Errorf("list media: %w", err)}
	}

	var (
		stored []*entities.MediaFile
		errs   []error
	)
	for _, artifact := range artifacts {
		if artifact.URL == "" {
			continue
		}

		data, err := client.DownloadMedia(ctx, artifact.URL)
		if err != nil {
			errs = append(errs, fmt.Errorf("download %s: %w", artifact.Kind, err))
			continue
		}

		objectPath := fmt.Sprintf("%s/%s/%s.%s", p, rec.ExternalID, artifact.Kind, artifact.Extension)
		if err := s.storage.UploadFile(ctx, objectPath, bytes.NewReader(data), int64(len(data)), artifact.ContentType); err != nil {
			errs = append(errs, fmt.Errorf("upload %s: %w", artifact.Kind, err))
			continue
		}

		media := entities.NewMediaFile(meetingID, artifact.Kind, objectPath)
		media.ContentType = artifact.ContentType
		media.SizeBytes = artifact.SizeBytes
		if media.SizeBytes == 0 {
			media.SizeBytes = int64(len(data))
		}
		if err := s.mediaRepo.Upsert(ctx, media); err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", artifact.Kind, err))
			continue
		}
		stored = append(stored, media)
	}

	return stored, errs
}

// fallbackTranscribe sends a stored audio or video object to the
// transcription service when the platform delivered no transcript.
func (s *syncService) fallbackTranscribe(ctx context.Context, meetingID uuid.UUID, stored []*entities.MediaFile) (bool, error) {
	if s.transcriber == nil {
		return false, nil
	}

	source := pickFallbackSource(stored)
	if source == nil {
		return false, nil
	}

	url, err := s.storage.GetFileURL(ctx, source.ObjectPath, fallbackURLExpiry)
	if err != nil {
		return false, fmt.Errorf("presign %s: %w", source.ObjectPath, err)
	}

	result, err := s.transcriber.Transcribe(ctx, url)
	if err != nil {
		return false, fmt.Errorf("transcribe %s: %w", source.ObjectPath, err)
	}

	transcript := entities.NewTranscript(meetingID)
	transcript.FullText = result.FullText
	transcript.Segments = result.Segments
	transcript.WordCount = len(strings.Fields(result.FullText))
	transcript.Language = result.Language
	transcript.Source = entities.TranscriptSourceAssemblyAI

	if err := s.transcriptRepo.Upsert(ctx, transcript); err != nil {
		return false, fmt.Errorf("upsert transcript: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🎙️ Fallback transcript stored",
			zap.String("meeting_id", meetingID.String()),
			zap.String("source_object", source.ObjectPath),
			zap.Int("word_count", transcript.WordCount),
		)
	}
	return true, nil
}

// pickFallbackSource prefers audio artifacts over video; anything else is
// not transcribable.
func pickFallbackSource(files []*entities.MediaFile) *entities.MediaFile {
	for _, f := range files {
		if strings.HasPrefix(f.ContentType, "audio/") {
			return f
		}
	}
	for _, f := range files {
		if strings.HasPrefix(f.ContentType, "video/") {
			return f
		}
	}
	return nil
}

// Enqueue queues a sync job for asynchronous execution.
func (s *syncService) Enqueue(ctx context.Context, kind entities.PipelineJobKind, p entities.Platform, payload entities.PipelineJobPayload) (*entities.PipelineJob, error) {
	if _, ok := s.clients[p]; !ok {
		return nil, usecaseErrors.ErrUnknownPlatform
	}

	job := entities.NewPipelineJob(kind, p)
	job.Payload = payload
	if s.cfg.Worker.JobMaxAttempts > 0 {
		job.MaxAttempts = s.cfg.Worker.JobMaxAttempts
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue job: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📨 Sync job enqueued",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(kind)),
			zap.String("platform", p.String()),
		)
	}
	return job, nil
}

// GetJob retrieves a queued job by ID.
func (s *syncService) GetJob(ctx context.Context, id uuid.UUID) (*entities.PipelineJob, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, usecaseErrors.ErrJobNotFound
	}
	return job, nil
}

// ListJobs retrieves recently created jobs.
func (s *syncService) ListJobs(ctx context.Context, limit int) ([]*entities.PipelineJob, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.jobRepo.ListRecent(ctx, limit)
}

// Status retrieves the sync state rows of every configured platform,
// creating missing ones idle.
func (s *syncService) Status(ctx context.Context) ([]*entities.SyncState, error) {
	states := make([]*entities.SyncState, 0, len(s.clients))
	for _, p := range s.platforms() {
		state, err := s.syncStateRepo.GetOrCreate(ctx, p)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

// StatusFor retrieves the sync state of one platform.
func (s *syncService) StatusFor(ctx context.Context, p entities.Platform) (*entities.SyncState, error) {
	if _, ok := s.clients[p]; !ok {
		return nil, usecaseErrors.ErrUnknownPlatform
	}
	return s.syncStateRepo.GetOrCreate(ctx, p)
}

// platforms returns the configured platforms in stable order.
func (s *syncService) platforms() []entities.Platform {
	ordered := make([]entities.Platform, 0, len(s.clients))
	for _, p := range []entities.Platform{entities.PlatformGong, entities.PlatformZoom} {
		if _, ok := s.clients[p]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
