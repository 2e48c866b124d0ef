package Models

import (
	"time"

	"gorm.io/gorm"
)

// SeedDemoTask inserts a sample task into an empty workspace so a fresh
// install has something to render. No-op when any task already exists.
func SeedDemoTask(db *gorm.DB) error {
	doc, err := FetchDocument(db)
	if err != nil {
		return err
	}
	if len(doc.Tasks) > 0 {
		return nil
	}

	now := time.Now()
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	task := Task{
		ID:         "demo-task-1",
		Title:      "Landing Page Responsive Fixes",
		Project:    "Q3 UI Refresh",
		Category:   CategoryGeneral,
		Assignee:   DefaultTeamMembers[0],
		StartDate:  day(-2),
		TargetDate: day(3),
		Updates: []EODUpdate{
			{
				Date:                   now.AddDate(0, 0, -1),
				Progress:               30,
				Status:                 StatusInProgress,
				WorkCompleted:          "Fixed navigation menu on mobile devices and tablet view.",
				PendingItems:           "Footer alignment issues and hero section image scaling.",
				ExpectedCompletionDate: day(3),
			},
		},
		LeadComments: []string{"Ensure we test on Safari iOS specifically."},
	}
	task.Touch(now)

	doc.Tasks = append(doc.Tasks, task)
	_, err = OverwriteDocument(db, doc)
	return err
}
