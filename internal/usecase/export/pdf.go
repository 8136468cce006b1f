package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/johnquangdev/meeting-tasks/internal/domain/entities"
)

const reportTitle = "Meeting Action Items Report"

// RenderPDF builds the action items report. Tasks are grouped per assignee
// in first-appearance order; a summary block closes the document. The
// document dates are pinned to the meeting's own timestamp so rendering the
// same state twice yields identical bytes.
func RenderPDF(meeting *entities.Meeting, tasks []*entities.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(meeting.CreatedAt.UTC())
	pdf.SetModificationDate(meeting.CreatedAt.UTC())
	pdf.SetTitle(reportTitle, false)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Meeting: "+meeting.MeetingURL, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Recorded: "+meeting.CreatedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if len(tasks) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "No action items were recorded for this meeting.", "", 1, "L", false, 0, "")
	} else {
		renderAssigneeSections(pdf, tasks)
	}

	renderSummary(pdf, Summarize(tasks))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderAssigneeSections(pdf *gofpdf.Fpdf, tasks []*entities.Task) {
	order, groups := GroupByAssignee(tasks)

	for _, assignee := range order {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetFillColor(235, 240, 250)
		pdf.CellFormat(0, 8, assignee, "", 1, "L", true, 0, "")
		pdf.Ln(1)

		for _, t := range groups[assignee] {
			marker := "[ ]"
			if t.IsCompleted {
				marker = "[x]"
			}

			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, marker+" "+t.TaskDescription, "", "L", false)

			meta := taskMetaLine(t)
			if meta != "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.SetTextColor(100, 100, 100)
				pdf.CellFormat(0, 5, "      "+meta, "", 1, "L", false, 0, "")
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.Ln(1)
		}
		pdf.Ln(2)
	}
}

// taskMetaLine formats the optional deadline and priority of a task
func taskMetaLine(t *entities.Task) string {
	var parts []string
	if t.Deadline != nil && *t.Deadline != "" {
		parts = append(parts, "Due: "+*t.Deadline)
	}
	if t.Priority != nil {
		parts = append(parts, "Priority: "+string(*t.Priority))
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + "  |  " + parts[1]
	}
}

func renderSummary(pdf *gofpdf.Fpdf, sum Summary) {
	pdf.Ln(4)
	pdf.SetDrawColor(180, 180, 180)
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	y := pdf.GetY()
	pdf.Line(left, y, pageWidth-right, y)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	rows := []string{
		fmt.Sprintf("Total tasks: %d", sum.TotalTasks),
		fmt.Sprintf("Completed: %d", sum.CompletedTasks),
		fmt.Sprintf("Pending: %d", sum.PendingTasks),
		fmt.Sprintf("Completion rate: %.1f%%", sum.CompletionRate),
		fmt.Sprintf("Assignees: %d", sum.Assignees),
	}
	for _, row := range rows {
		pdf.CellFormat(0, 6, row, "", 1, "L", false, 0, "")
	}
}
