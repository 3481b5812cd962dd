package cli

import (
	"fmt"
	"io"
	"strings"

	"lexbrief-backend/models"
)

// analysisReport is the output of the analyze command
type analysisReport struct {
	Document  models.Document               `json:"document"`
	Summaries map[models.SummaryType]string `json:"summaries"`
	CaseInfo  *models.CaseInfo              `json:"case_info,omitempty"`
}

var summaryHeadings = map[models.SummaryType]string{
	models.SummaryProfessional: "Professional Summary",
	models.SummarySimple:       "Simple Summary",
	models.SummaryShort:        "Short Summary",
	models.SummaryMedium:       "Medium Summary",
	models.SummaryDetailed:     "Detailed Summary",
}

// renderReport writes the report as Markdown
func renderReport(w io.Writer, r *analysisReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Document.FileName)
	fmt.Fprintf(&b, "- Format: %s\n", strings.ToUpper(string(r.Document.Format)))
	if r.Document.PageCount > 0 {
		fmt.Fprintf(&b, "- Pages: %d\n", r.Document.PageCount)
	}
	fmt.Fprintf(&b, "- Characters: %d\n\n", r.Document.CharCount)

	for _, t := range models.SummaryTypes {
		text, ok := r.Summaries[t]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", summaryHeadings[t], strings.TrimSpace(text))
	}

	if r.CaseInfo != nil {
		b.WriteString("## Case Information\n\n")
		kp := r.CaseInfo.KeyPoints
		writeList(&b, "Clauses", kp.Clauses)
		writeList(&b, "Legal Sections", kp.LegalSections)
		writeList(&b, "Names", kp.Names)
		writeList(&b, "Organizations", kp.Organizations)
		writeList(&b, "Locations", kp.Locations)

		if len(kp.LegalSections) > 0 && len(r.CaseInfo.Explanations) > 0 {
			b.WriteString("## Legal Sections Explained\n\n")
			for _, section := range kp.LegalSections {
				explanation, ok := r.CaseInfo.Explanations[section]
				if !ok {
					continue
				}
				fmt.Fprintf(&b, "**%s**: %s\n\n", section, strings.TrimSpace(explanation))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "### %s\n\n", heading)
	if len(items) == 0 {
		b.WriteString("_None found._\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
