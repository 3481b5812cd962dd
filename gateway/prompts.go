package gateway

import (
	"fmt"
	"strings"

	"lexbrief-backend/models"
)

// Task names a fixed prompt template
type Task string

const (
	TaskSummary         Task = "summary"
	TaskKeyPoints       Task = "key_points"
	TaskExplainSections Task = "explain_sections"
	TaskAnswer          Task = "answer"
	TaskTranslate       Task = "translate"
)

var summaryInstructions = map[models.SummaryType]string{
	models.SummaryProfessional: "You are a legal expert. Write a professional summary of this judicial or legal document " +
		"using appropriate legal terminology. Focus on the key legal arguments, the precedents relied on and the decision. " +
		"Keep it concise but complete.",
	models.SummarySimple: "You are explaining a legal document to a member of the public. Summarize it in simple, plain English " +
		"that anyone can follow. Avoid legal jargon and explain any concept you cannot avoid.",
	models.SummaryShort: "Summarize this legal document in 2-3 sentences, covering only the most critical points.",
	models.SummaryMedium: "Summarize this legal document in 1-2 paragraphs, covering the main points and the key details.",
	models.SummaryDetailed: "Write a detailed, comprehensive summary of this legal document covering every important aspect, " +
		"argument and conclusion.",
}

// SummaryPrompt builds the prompt for one summary variant
func SummaryPrompt(text string, summaryType models.SummaryType) (string, error) {
	instruction, ok := summaryInstructions[summaryType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSummaryType, summaryType)
	}
	return instruction + "\n\n" + text, nil
}

// KeyPointsPrompt asks for the five key-point categories as a JSON object
func KeyPointsPrompt(text string) string {
	return `Analyze this legal document and return the following information as a JSON object:
{
  "clauses": ["important clause 1", "important clause 2"],
  "legalSections": ["Section 302 IPC", "Article 21"],
  "names": ["person name 1", "person name 2"],
  "organizations": ["organization 1", "organization 2"],
  "locations": ["location 1", "location 2"]
}
Use an empty array for any category with nothing to report.

Document text:
` + text
}

// ExplainSectionsPrompt asks for a JSON object mapping each section to an explanation
func ExplainSectionsPrompt(sections []string) string {
	return `Explain the following legal sections in simple terms. For each section give a brief explanation of what it means and why it matters legally. Return a JSON object:
{
  "section_name": "explanation"
}
Use each section name exactly as given as the key.

Sections: ` + strings.Join(sections, ", ")
}

// AnswerPrompt grounds a question in the document text
func AnswerPrompt(question, documentText string) string {
	return fmt.Sprintf(`You are a legal assistant. Answer the question below using only the document provided. If the document does not contain the answer, say so clearly.

Document:
%s

Question: %s

Answer:`, documentText, question)
}

// TranslatePrompt asks for a faithful translation into a regional language
func TranslatePrompt(text string, language models.Language) string {
	return fmt.Sprintf(`Translate the following legal summary into %s. Keep section numbers, statute names, case citations and the names of people, organizations and places exactly as written. Return only the translation.

Summary:
%s`, language.Name, text)
}
