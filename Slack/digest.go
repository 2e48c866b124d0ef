package Slack

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"Workspace/Models"
	"Workspace/Status"
)

// GenerateEODDigest builds the end-of-day summary message: one line per
// active task with its derived schedule flag, plus a blockers section.
func GenerateEODDigest(doc Models.Document, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("*EOD Status Digest — %s*\n\n", now.Format("Mon, Jan 2 2006")))

	active := 0
	completed := 0
	var blocked []Models.Task

	for _, task := range doc.Tasks {
		if task.IsCompleted() {
			completed++
			continue
		}
		active++

		flag := Status.ComputeScheduleFlag(task, now)
		b.WriteString(fmt.Sprintf("• %s — %s (%s, %d%%) [%s]\n",
			task.Title, task.Assignee, task.CurrentStatus(), task.CurrentProgress(), flag))

		if latest := task.LatestUpdate(); latest != nil && latest.HasBlockers() {
			blocked = append(blocked, task)
		}
	}

	if active == 0 {
		b.WriteString("No active tasks.\n")
	}

	if len(blocked) > 0 {
		b.WriteString("\n*Reported Blockers:*\n")
		for _, task := range blocked {
			b.WriteString(fmt.Sprintf("• %s (%s): %s\n",
				task.Title, task.Assignee, task.LatestUpdate().Blockers))
		}
	}

	b.WriteString(fmt.Sprintf("\n%d active / %d completed / %d team members",
		active, completed, len(doc.TeamMembers)))
	return b.String()
}

// SendEODDigest posts the digest to the configured channel. Skipped quietly
// when SLACK_BOT_TOKEN is unset.
func SendEODDigest(db *gorm.DB, channel string) error {
	token := os.Getenv("SLACK_BOT_TOKEN")
	if token == "" || channel == "" {
		log.Println("Slack digest skipped: SLACK_BOT_TOKEN or channel not configured")
		return nil
	}

	doc, err := Models.FetchDocument(db)
	if err != nil {
		return fmt.Errorf("loading workspace for digest: %w", err)
	}

	client := NewSlackClient(token)
	if _, err := client.SendMessage(channel, GenerateEODDigest(doc, time.Now())); err != nil {
		return err
	}
	log.Println("EOD digest posted to Slack")
	return nil
}
