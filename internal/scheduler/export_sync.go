package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/export"
)

// TriggerFunc starts an export job and returns its job id. The
// entrypoint supplies one implementation that both the scheduler and
// the HTTP trigger endpoint share.
type TriggerFunc func(ctx context.Context, exportType string, filter export.FilterSpec, failOnZero bool) (string, error)

// Entry is one recurring export: which export type to run and when.
// Scheduled runs always use the last_export filter so each tick picks
// up from the previous successful run.
type Entry struct {
	ExportType string
	Schedule   string // Cron format: "0 */6 * * *" = every 6 hours
}

// ExportSyncScheduler runs configured exports on cron schedules.
type ExportSyncScheduler struct {
	trigger TriggerFunc
	entries []Entry

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewExportSyncScheduler creates a new scheduler instance
func NewExportSyncScheduler(trigger TriggerFunc, entries []Entry) *ExportSyncScheduler {
	return &ExportSyncScheduler{
		trigger: trigger,
		entries: entries,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if any entries are configured
func (s *ExportSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if len(s.entries) == 0 {
		log.Printf("Export scheduler: no scheduled exports configured")
		return nil
	}

	for _, entry := range s.entries {
		entry := entry
		_, err := s.cron.AddFunc(entry.Schedule, func() {
			s.runExport(entry.ExportType)
		})
		if err != nil {
			return fmt.Errorf("invalid cron schedule '%s' for %s: %w", entry.Schedule, entry.ExportType, err)
		}
		log.Printf("Export scheduler: %s scheduled with '%s'", entry.ExportType, entry.Schedule)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running tick to
// complete.
func (s *ExportSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Export scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *ExportSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRuns returns the upcoming run times, one per cron entry.
func (s *ExportSyncScheduler) NextRuns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var next []string
	for _, e := range s.cron.Entries() {
		next = append(next, e.Next.String())
	}
	return next
}

func (s *ExportSyncScheduler) runExport(exportType string) {
	filter := export.FilterSpec{Type: database.FilterLastExport}
	jobID, err := s.trigger(context.Background(), exportType, filter, false)
	if err != nil {
		log.Printf("Export scheduler: trigger %s: %v", exportType, err)
		return
	}
	log.Printf("Export scheduler: started %s as job %s", exportType, jobID)
}
