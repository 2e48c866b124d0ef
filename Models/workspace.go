package Models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MainStorageID is the fixed key of the single workspace document. All
// clients read and overwrite this one row; there is no per-tenant scoping.
const MainStorageID = "main_storage"

// DefaultTeamMembers is the starter roster written on first-ever access.
var DefaultTeamMembers = []string{"Akhilesh", "Pravallika", "Chandu", "Sharanya"}

// WorkspaceData is the persistent single-document store. Tasks and the
// roster are stored as JSON columns so the document round-trips exactly as
// the clients serialize it.
type WorkspaceData struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Tasks       datatypes.JSON `json:"tasks"`
	TeamMembers datatypes.JSON `json:"teamMembers"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// FetchDocument loads the workspace document. On first-ever access it
// initializes and persists a default document (empty tasks, starter roster)
// rather than erroring, so a second fetch returns the same stored document.
func FetchDocument(db *gorm.DB) (Document, error) {
	var row WorkspaceData
	err := db.First(&row, "id = ?", MainStorageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		doc := Document{Tasks: []Task{}, TeamMembers: DefaultTeamMembers}
		if _, err := OverwriteDocument(db, doc); err != nil {
			return Document{}, fmt.Errorf("initializing workspace document: %w", err)
		}
		return doc, nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("fetching workspace document: %w", err)
	}
	return row.Decode()
}

// FetchRow returns the raw stored row, initializing the default document
// first if necessary. Used where the server timestamp is needed alongside
// the document.
func FetchRow(db *gorm.DB) (WorkspaceData, error) {
	if _, err := FetchDocument(db); err != nil {
		return WorkspaceData{}, err
	}
	var row WorkspaceData
	if err := db.First(&row, "id = ?", MainStorageID).Error; err != nil {
		return WorkspaceData{}, fmt.Errorf("fetching workspace document: %w", err)
	}
	return row, nil
}

// OverwriteDocument replaces the entire stored document and stamps the
// server-side lastUpdated time. No merging: last full write wins.
func OverwriteDocument(db *gorm.DB, doc Document) (time.Time, error) {
	if doc.Tasks == nil {
		doc.Tasks = []Task{}
	}
	if doc.TeamMembers == nil {
		doc.TeamMembers = []string{}
	}

	tasksJSON, err := json.Marshal(doc.Tasks)
	if err != nil {
		return time.Time{}, fmt.Errorf("encoding tasks: %w", err)
	}
	membersJSON, err := json.Marshal(doc.TeamMembers)
	if err != nil {
		return time.Time{}, fmt.Errorf("encoding team members: %w", err)
	}

	now := time.Now()
	row := WorkspaceData{
		ID:          MainStorageID,
		Tasks:       tasksJSON,
		TeamMembers: membersJSON,
		LastUpdated: now,
	}

	err = db.Where("id = ?", MainStorageID).
		Assign(map[string]interface{}{
			"tasks":        row.Tasks,
			"team_members": row.TeamMembers,
			"last_updated": row.LastUpdated,
		}).
		FirstOrCreate(&WorkspaceData{ID: MainStorageID}).Error
	if err != nil {
		return time.Time{}, fmt.Errorf("overwriting workspace document: %w", err)
	}
	return now, nil
}

// Decode unpacks the stored JSON columns into a Document.
func (row WorkspaceData) Decode() (Document, error) {
	doc := Document{Tasks: []Task{}, TeamMembers: []string{}}
	if len(row.Tasks) > 0 {
		if err := json.Unmarshal(row.Tasks, &doc.Tasks); err != nil {
			return Document{}, fmt.Errorf("decoding stored tasks: %w", err)
		}
	}
	if len(row.TeamMembers) > 0 {
		if err := json.Unmarshal(row.TeamMembers, &doc.TeamMembers); err != nil {
			return Document{}, fmt.Errorf("decoding stored team members: %w", err)
		}
	}
	return doc, nil
}
