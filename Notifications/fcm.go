package Notifications

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"Workspace/Models"
)

var firebaseClient *messaging.Client
var ctx = context.Background()

// InitFirebase initializes the FCM client from the service account file
// named by FIREBASE_CREDENTIALS. When the variable is unset, notifications
// stay disabled and every send becomes a no-op.
func InitFirebase() error {
	credentials := os.Getenv("FIREBASE_CREDENTIALS")
	if credentials == "" {
		log.Println("FIREBASE_CREDENTIALS not set, push notifications disabled")
		return nil
	}

	opt := option.WithCredentialsFile(credentials)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting Messaging client: %v", err)
	}

	firebaseClient = client
	log.Println("Firebase initialized successfully")
	return nil
}

// NotifyAssignment pushes a notification to the assignee's registered
// device when a lead assigns a task. Failures are logged, never surfaced:
// a missed notification must not fail the assignment.
func NotifyAssignment(db *gorm.DB, task Models.Task) {
	if firebaseClient == nil {
		return
	}

	token := Models.TokenForMember(db, task.Assignee)
	if token == "" {
		log.Printf("No device token registered for %s, skipping notification", task.Assignee)
		return
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "New Task Assigned",
			Body:  fmt.Sprintf("%s (%s) — target %s", task.Title, task.Project, task.TargetDate),
		},
		Data: map[string]string{
			"task_id":     task.ID,
			"title":       task.Title,
			"project":     task.Project,
			"target_date": task.TargetDate,
		},
	}

	response, err := firebaseClient.Send(ctx, message)
	if err != nil {
		log.Printf("Error sending assignment notification to %s: %v", task.Assignee, err)
		return
	}
	log.Printf("Assignment notification sent to %s: %s", task.Assignee, response)
}
