package syncer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/pkg/jobcontext"
)

const (
	bulkSyncTimeout        = 2 * time.Hour
	incrementalSyncTimeout = 30 * time.Minute
)

// StartWorkerPool starts workerCount goroutines that claim and execute
// queued sync jobs.
func (s *syncService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}
	if workerCount < 1 {
		workerCount = 1
	}

	s.workerStopChan = make(chan struct{})
	s.isWorkerPoolRunning = true

	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.jobWorker(ctx, i)
	}

	if s.logger != nil {
		s.logger.Info("🚀 Sync worker pool started",
			zap.Int("worker_count", workerCount),
		)
	}
	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *syncService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping sync worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Sync worker pool stopped")
	}
	return nil
}

// jobWorker polls for claimable jobs and executes them one at a time.
func (s *syncService) jobWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	interval := s.cfg.Worker.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Worker started",
			zap.Int("worker_id", workerID),
		)
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Worker stopping",
					zap.Int("worker_id", workerID),
				)
			}
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.FindClaimable(parentCtx, 1)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to poll jobs",
						zap.Int("worker_id", workerID),
						zap.Error(err),
					)
				}
				continue
			}
			if len(jobs) == 0 {
				continue
			}

			job := jobs[0]

			// Only one worker wins the conditional status update.
			claimed, err := s.jobRepo.Claim(parentCtx, job.ID)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to claim job",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
				continue
			}
			if !claimed {
				if s.logger != nil {
					s.logger.Info("⏭️ Job already claimed by another worker",
						zap.String("job_id", job.ID.String()),
					)
				}
				continue
			}

			if s.logger != nil {
				s.logger.Info("👷 Worker claimed job",
					zap.Int("worker_id", workerID),
					zap.String("job_id", job.ID.String()),
					zap.String("kind", string(job.Kind)),
					zap.String("platform", job.Platform.String()),
				)
			}

			jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, string(job.Kind), workerID, jobTimeout(job.Kind))
			err = jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
				return s.runJob(ctx, job)
			})
			cancel()

			if err != nil {
				if job.Attempts+1 >= job.MaxAttempts {
					if s.logger != nil {
						s.logger.Error("❌ Job failed permanently",
							zap.String("job_id", job.ID.String()),
							zap.Int("attempts", job.Attempts+1),
							zap.Error(err),
						)
					}
					s.jobRepo.MarkFailed(parentCtx, job.ID, err.Error())
				} else {
					if s.logger != nil {
						s.logger.Warn("🔁 Job failed, queued for retry",
							zap.String("job_id", job.ID.String()),
							zap.Int("attempts", job.Attempts+1),
							zap.Error(err),
						)
					}
					s.jobRepo.MarkRetrying(parentCtx, job.ID, err.Error())
				}
				continue
			}

			if s.logger != nil {
				s.logger.Info("✅ Job completed successfully",
					zap.String("job_id", job.ID.String()),
				)
			}
			s.jobRepo.MarkCompleted(parentCtx, job.ID)
		}
	}
}

func jobTimeout(kind entities.PipelineJobKind) time.Duration {
	if kind == entities.PipelineJobKindBulkSync {
		return bulkSyncTimeout
	}
	return incrementalSyncTimeout
}

// runJob executes the sync described by a claimed job.
func (s *syncService) runJob(ctx context.Context, job *entities.PipelineJob) error {
	opts := SyncOptions{Bulk: job.Kind == entities.PipelineJobKindBulkSync}

	if job.Payload.From != "" {
		t, err := time.Parse(time.RFC3339, job.Payload.From)
		if err != nil {
			return fmt.Errorf("invalid from bound in job payload: %w", err)
		}
		opts.From = &t
	}
	if job.Payload.To != "" {
		t, err := time.Parse(time.RFC3339, job.Payload.To)
		if err != nil {
			return fmt.Errorf("invalid to bound in job payload: %w", err)
		}
		opts.To = &t
	}

	_, err := s.Sync(ctx, job.Platform, opts)
	return err
}
