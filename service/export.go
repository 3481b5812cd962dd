package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lexbrief-backend/models"
)

const (
	sheetCaseInfo  = "Case Info"
	sheetSummaries = "Summaries"
	sheetQA        = "Q&A"
)

// ExportResult is a generated workbook
type ExportResult struct {
	FileName string
	Data     []byte
}

// ExportCaseInfo builds an XLSX workbook with the session's case info,
// summaries and question history
func (s *AnalysisService) ExportCaseInfo(ctx context.Context, req SessionRequest) (*ExportResult, error) {
	start := time.Now()

	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}
	doc, err := sess.Document()
	if err != nil {
		return nil, err
	}

	info, _ := sess.CaseInfo()
	data, err := buildWorkbook(doc, info, sess.Summaries(), sess.QAHistory())
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"session_id", req.SessionID.String(),
		"document_id", doc.ID.String(),
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &ExportResult{
		FileName: exportFileName(doc.FileName),
		Data:     data,
	}, nil
}

func exportFileName(original string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base == "" || base == "." {
		base = "document"
	}
	return base + "-case-info.xlsx"
}

func buildWorkbook(doc *models.Document, info *models.CaseInfo, summaries map[models.SummaryType]string, qa []models.QAEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetCaseInfo); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetSummaries, sheetQA} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	writeCaseInfoSheet(f, doc, info)
	writeSummariesSheet(f, summaries)
	writeQASheet(f, qa)

	index, _ := f.GetSheetIndex(sheetCaseInfo)
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func writeCaseInfoSheet(f *excelize.File, doc *models.Document, info *models.CaseInfo) {
	writeRow(f, sheetCaseInfo, 1, "Document", doc.FileName)
	writeRow(f, sheetCaseInfo, 2, "Uploaded", doc.CreatedAt.Format(time.RFC3339))
	writeRow(f, sheetCaseInfo, 4, "Category", "Value", "Explanation")

	row := 5
	if info != nil {
		categories := []struct {
			label  string
			values []string
		}{
			{"Legal Section", info.KeyPoints.LegalSections},
			{"Clause", info.KeyPoints.Clauses},
			{"Name", info.KeyPoints.Names},
			{"Organization", info.KeyPoints.Organizations},
			{"Location", info.KeyPoints.Locations},
		}
		for _, c := range categories {
			for _, v := range c.values {
				explanation := ""
				if c.label == "Legal Section" {
					explanation = info.Explanations[v]
				}
				writeRow(f, sheetCaseInfo, row, c.label, v, explanation)
				row++
			}
		}
	}

	_ = f.SetColWidth(sheetCaseInfo, "A", "A", 16)
	_ = f.SetColWidth(sheetCaseInfo, "B", "B", 48)
	_ = f.SetColWidth(sheetCaseInfo, "C", "C", 80)
}

func writeSummariesSheet(f *excelize.File, summaries map[models.SummaryType]string) {
	writeRow(f, sheetSummaries, 1, "Type", "Summary")
	row := 2
	for _, t := range models.SummaryTypes {
		text, ok := summaries[t]
		if !ok {
			continue
		}
		writeRow(f, sheetSummaries, row, string(t), text)
		row++
	}
	_ = f.SetColWidth(sheetSummaries, "A", "A", 14)
	_ = f.SetColWidth(sheetSummaries, "B", "B", 120)
}

func writeQASheet(f *excelize.File, qa []models.QAEntry) {
	writeRow(f, sheetQA, 1, "Asked", "Question", "Answer")
	for i, entry := range qa {
		writeRow(f, sheetQA, i+2, entry.AskedAt.Format(time.RFC3339), entry.Question, entry.Answer)
	}
	_ = f.SetColWidth(sheetQA, "A", "A", 22)
	_ = f.SetColWidth(sheetQA, "B", "B", 48)
	_ = f.SetColWidth(sheetQA, "C", "C", 100)
}
