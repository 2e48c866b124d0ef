package CronJobs

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"Workspace/Config"
	"Workspace/Models"
	"Workspace/Slack"
)

// Scheduler runs the periodic workspace jobs: a nightly JSON backup of the
// document and an evening Slack EOD digest.
type Scheduler struct {
	cronScheduler *cron.Cron
	db            *gorm.DB
	config        Config.Config
	backupJobID   cron.EntryID
	digestJobID   cron.EntryID
}

// NewScheduler creates a scheduler with the given configuration.
func NewScheduler(db *gorm.DB, cfg Config.Config) *Scheduler {
	return &Scheduler{
		cronScheduler: cron.New(cron.WithSeconds()),
		db:            db,
		config:        cfg,
	}
}

// Start registers and launches the scheduled jobs.
func (s *Scheduler) Start() error {
	var err error

	s.backupJobID, err = s.cronScheduler.AddFunc(s.config.BackupSchedule, func() {
		log.Println("Running scheduled workspace backup")
		if err := s.RunBackup(); err != nil {
			log.Printf("Error in workspace backup: %v\n", err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling backup job: %w", err)
	}

	s.digestJobID, err = s.cronScheduler.AddFunc(s.config.DigestSchedule, func() {
		log.Println("Running scheduled EOD digest")
		if err := Slack.SendEODDigest(s.db, s.config.SlackChannel); err != nil {
			log.Printf("Error sending EOD digest: %v\n", err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling digest job: %w", err)
	}

	s.cronScheduler.Start()
	log.Println("Workspace scheduler started")
	return nil
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Workspace scheduler stopped")
	}
}

// RunBackup writes the current workspace document to a timestamped JSON
// file under the backup directory.
func (s *Scheduler) RunBackup() error {
	doc, err := Models.FetchDocument(s.db)
	if err != nil {
		return fmt.Errorf("loading workspace for backup: %w", err)
	}

	if err := os.MkdirAll(s.config.BackupDir, 0755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	path := filepath.Join(s.config.BackupDir,
		fmt.Sprintf("workspace_%s.json", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("writing backup file: %w", err)
	}

	log.Printf("Workspace backed up to %s (%d tasks)\n", path, len(doc.Tasks))
	return nil
}
