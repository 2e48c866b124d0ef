package Controllers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Workspace/Models"
	"Workspace/Status"
	"Workspace/Validation"
)

// ExportController serializes the workspace for download and handles the
// reverse import. Pure serialization, no business logic.
type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

// ExportJSON downloads the full workspace document as JSON.
func (e *ExportController) ExportJSON(c *fiber.Ctx) error {
	doc, err := Models.FetchDocument(e.DB)
	if err != nil {
		return fail(c, err)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fail(c, err)
	}

	filename := fmt.Sprintf("workspace_export_%s.json", time.Now().Format("20060102_150405"))
	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(payload)
}

type importRequest struct {
	Tasks       *[]Models.Task `json:"tasks"`
	TeamMembers *[]string      `json:"teamMembers"`
}

// ImportJSON replaces the workspace with an uploaded document. The payload
// must carry both collections; a malformed or incomplete upload is rejected
// whole, never partially applied. Lead only.
func (e *ExportController) ImportJSON(c *fiber.Ctx) error {
	var req importRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed import payload"})
	}
	if req.Tasks == nil || req.TeamMembers == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Import payload must contain tasks and teamMembers",
		})
	}

	for _, task := range *req.Tasks {
		if err := Validation.ValidateTaskDefinition(task); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid task %q: %v", task.ID, err),
			})
		}
	}

	lastUpdated, err := Models.OverwriteDocument(e.DB, Models.Document{
		Tasks:       *req.Tasks,
		TeamMembers: *req.TeamMembers,
	})
	if err != nil {
		log.Println("Import error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to import workspace"})
	}

	return c.JSON(fiber.Map{"success": true, "lastUpdated": lastUpdated})
}

var reportHeaders = []string{
	"Title", "Project", "Sprint", "Category", "Assignee",
	"Status", "Progress", "Schedule Flag", "Health", "Start Date",
	"Target Date", "Last Report", "Blockers", "Time Status",
}

func reportRow(task Models.Task, now time.Time) []string {
	lastReport := ""
	blockers := ""
	if latest := task.LatestUpdate(); latest != nil {
		lastReport = latest.Date.Format("2006-01-02")
		blockers = latest.Blockers
	}
	return []string{
		task.Title,
		task.Project,
		task.Sprint,
		string(task.Category),
		task.Assignee,
		string(task.CurrentStatus()),
		strconv.Itoa(task.CurrentProgress()),
		string(Status.ComputeScheduleFlag(task, now)),
		string(task.HealthStatus),
		task.StartDate,
		task.TargetDate,
		lastReport,
		blockers,
		Status.DeliveryStatus(task, now).Label,
	}
}

// ExportCSV downloads a tabular task report as CSV.
func (e *ExportController) ExportCSV(c *fiber.Ctx) error {
	doc, err := Models.FetchDocument(e.DB)
	if err != nil {
		return fail(c, err)
	}

	now := time.Now()
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(reportHeaders); err != nil {
		return fail(c, err)
	}
	for _, task := range doc.Tasks {
		if err := writer.Write(reportRow(task, now)); err != nil {
			return fail(c, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fail(c, err)
	}

	filename := fmt.Sprintf("workspace_report_%s.csv", now.Format("20060102_150405"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}

// ExportReport downloads a styled Excel task report.
func (e *ExportController) ExportReport(c *fiber.Ctx) error {
	doc, err := Models.FetchDocument(e.DB)
	if err != nil {
		return fail(c, err)
	}

	now := time.Now()
	buf, err := buildExcelReport(doc, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to build report: %v", err),
		})
	}

	filename := fmt.Sprintf("workspace_report_%s.xlsx", now.Format("20060102_150405"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	return c.Send(buf.Bytes())
}

func buildExcelReport(doc Models.Document, now time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	sheetName := "Tasks"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	for i, header := range reportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for rowIndex, task := range doc.Tasks {
		row := rowIndex + 2
		for colIndex, value := range reportRow(task, now) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range reportHeaders {
		col := string('A' + rune(i))
		f.SetColWidth(sheetName, col, col, 16)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %v", err)
	}
	return &buf, nil
}
