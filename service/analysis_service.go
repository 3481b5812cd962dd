package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"lexbrief-backend/gateway"
	"lexbrief-backend/ingest"
	"lexbrief-backend/models"
	"lexbrief-backend/session"
	"lexbrief-backend/storage"

	"github.com/google/uuid"
)

// Analyzer produces model-backed analyses of document text
type Analyzer interface {
	GenerateSummary(ctx context.Context, text string, summaryType models.SummaryType) (string, error)
	GenerateSummaries(ctx context.Context, text string) (map[models.SummaryType]string, error)
	ExtractKeyPoints(ctx context.Context, text string) (models.KeyPoints, error)
	ExplainSections(ctx context.Context, sections []string) (models.SectionExplanations, error)
	AnswerQuestion(ctx context.Context, question, documentText string) (string, error)
	Translate(ctx context.Context, text, language string) (string, error)
}

// DocumentRecorder keeps a ledger of uploaded document metadata
type DocumentRecorder interface {
	Create(ctx context.Context, doc *models.Document) error
	ListRecent(ctx context.Context, limit int) ([]*models.Document, error)
}

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrNoDocument            = session.ErrNoDocument
	ErrStaleDocument         = session.ErrStaleDocument
	ErrSummaryNotGenerated   = errors.New("summary has not been generated yet")
	ErrAnalyzerNotConfigured = errors.New("AI gateway not set")
	ErrLedgerNotConfigured   = errors.New("document ledger not configured")
	ErrOriginalNotArchived   = errors.New("original file was not archived")
)

// AnalysisService handles the document analysis workflow for a session
type AnalysisService struct {
	sessions  *session.Store
	ingester  *ingest.Ingester
	analyzer  Analyzer
	storage   storage.Storage
	documents DocumentRecorder
	logger    *slog.Logger
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// AnalysisWithSessionStore sets the session store
func AnalysisWithSessionStore(store *session.Store) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.sessions = store
	}
}

// AnalysisWithIngester sets the file ingester
func AnalysisWithIngester(ingester *ingest.Ingester) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.ingester = ingester
	}
}

// AnalysisWithAnalyzer sets the AI gateway
func AnalysisWithAnalyzer(analyzer Analyzer) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analyzer = analyzer
	}
}

// AnalysisWithStorage sets the archive for uploaded originals
func AnalysisWithStorage(store storage.Storage) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.storage = store
	}
}

// AnalysisWithDocumentRecorder sets the upload ledger
func AnalysisWithDocumentRecorder(recorder DocumentRecorder) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.documents = recorder
	}
}

// AnalysisWithLogger sets the logger
func AnalysisWithLogger(logger *slog.Logger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = session.NewStore(session.DefaultIdleTTL)
	}
	if s.ingester == nil {
		s.ingester = ingest.NewIngester(ingest.WithLogger(s.logger))
	}
	return s
}

// SessionRequest identifies a session
type SessionRequest struct {
	SessionID uuid.UUID
}

// SessionResult carries a session snapshot
type SessionResult struct {
	State models.SessionState
}

// CreateSession starts a new session on the upload view
func (s *AnalysisService) CreateSession(ctx context.Context) (*SessionResult, error) {
	sess := s.sessions.Create()
	s.logger.Info("session.created", "session_id", sess.ID().String())
	return &SessionResult{State: sess.Snapshot()}, nil
}

// GetSession returns a session snapshot
func (s *AnalysisService) GetSession(ctx context.Context, req SessionRequest) (*SessionResult, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}
	return &SessionResult{State: sess.Snapshot()}, nil
}

// EndSession discards a session and everything derived from its document
func (s *AnalysisService) EndSession(ctx context.Context, req SessionRequest) error {
	if _, err := s.lookup(req.SessionID); err != nil {
		return err
	}
	s.sessions.Delete(req.SessionID)
	s.logger.Info("session.ended", "session_id", req.SessionID.String())
	return nil
}

// SelectViewRequest represents a request to switch the active view
type SelectViewRequest struct {
	SessionID uuid.UUID
	View      string
}

// SelectView switches the active view
func (s *AnalysisService) SelectView(ctx context.Context, req SelectViewRequest) (*SessionResult, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}

	view, err := session.ParseView(req.View)
	if err != nil {
		return nil, err
	}
	if err := sess.Select(view); err != nil {
		return nil, err
	}
	return &SessionResult{State: sess.Snapshot()}, nil
}

// UploadDocumentRequest represents an uploaded file. Size is the declared
// size; a negative value means unknown.
type UploadDocumentRequest struct {
	SessionID uuid.UUID
	FileName  string
	MimeType  string
	Size      int64
	Data      io.Reader
}

// UploadDocumentResult represents the result of a successful upload
type UploadDocumentResult struct {
	Document models.Document
	State    models.SessionState
}

// UploadDocument replaces the session's document with the uploaded file.
// The file type and declared size are checked before the session is touched,
// so a rejected file leaves the current document in place.
func (s *AnalysisService) UploadDocument(ctx context.Context, req UploadDocumentRequest) (*UploadDocumentResult, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}

	declared := req.Size
	if declared < 0 {
		declared = 0
	}
	if _, err := ingest.Validate(req.FileName, req.MimeType, declared, s.ingester.MaxFileSize()); err != nil {
		return nil, err
	}

	sess.BeginUpload()

	data, err := io.ReadAll(io.LimitReader(req.Data, s.ingester.MaxFileSize()+1))
	if err != nil {
		sess.FailUpload()
		return nil, fmt.Errorf("%w: read upload: %v", ingest.ErrParseFailed, err)
	}

	doc, err := s.ingester.IngestBytes(ctx, req.FileName, req.MimeType, data)
	if err != nil {
		sess.FailUpload()
		return nil, err
	}
	doc.SessionID = sess.ID()

	s.archive(ctx, doc, data)
	s.record(ctx, doc)

	sess.CompleteUpload(doc)

	s.logger.Info("document.uploaded",
		"session_id", sess.ID().String(),
		"document_id", doc.ID.String(),
		"file_name", doc.FileName,
		"format", doc.Format,
		"chars", doc.CharCount,
	)

	return &UploadDocumentResult{
		Document: doc.Metadata(),
		State:    sess.Snapshot(),
	}, nil
}

// archive stores the original bytes. Failure is logged and the upload proceeds.
func (s *AnalysisService) archive(ctx context.Context, doc *models.Document, data []byte) {
	if s.storage == nil {
		return
	}
	path, err := s.storage.Upload(ctx, doc, bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("document.archive_failed", "document_id", doc.ID.String(), "error", err)
		return
	}
	doc.StoragePath = path
}

// record writes the ledger row. If it fails the archived original is removed
// so the archive never holds files the ledger does not know about.
func (s *AnalysisService) record(ctx context.Context, doc *models.Document) {
	if s.documents == nil {
		return
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		s.logger.Warn("document.record_failed", "document_id", doc.ID.String(), "error", err)
		if doc.StoragePath != "" && s.storage != nil {
			if err := s.storage.Delete(ctx, doc.StoragePath); err != nil {
				s.logger.Warn("document.archive_cleanup_failed", "path", doc.StoragePath, "error", err)
			}
			doc.StoragePath = ""
		}
	}
}

// SummariesResult carries generated summaries
type SummariesResult struct {
	Summaries map[models.SummaryType]string
}

// GenerateSummaries produces the professional, simple and detailed summaries
// together. Nothing is stored unless all three succeed.
func (s *AnalysisService) GenerateSummaries(ctx context.Context, req SessionRequest) (*SummariesResult, error) {
	sess, doc, err := s.documentFor(req.SessionID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.analyzer.GenerateSummaries(ctx, doc.Text)
	if err != nil {
		return nil, err
	}
	if err := sess.SetSummaries(doc.ID, summaries); err != nil {
		return nil, err
	}
	return &SummariesResult{Summaries: summaries}, nil
}

// GenerateSummaryRequest represents a request for one summary variant
type GenerateSummaryRequest struct {
	SessionID   uuid.UUID
	SummaryType models.SummaryType
}

// GenerateSummaryResult carries one summary
type GenerateSummaryResult struct {
	SummaryType models.SummaryType
	Summary     string
}

// GenerateSummary produces a single summary variant
func (s *AnalysisService) GenerateSummary(ctx context.Context, req GenerateSummaryRequest) (*GenerateSummaryResult, error) {
	if !req.SummaryType.Valid() {
		return nil, fmt.Errorf("%w: %q", gateway.ErrUnknownSummaryType, req.SummaryType)
	}
	sess, doc, err := s.documentFor(req.SessionID)
	if err != nil {
		return nil, err
	}

	summary, err := s.analyzer.GenerateSummary(ctx, doc.Text, req.SummaryType)
	if err != nil {
		return nil, err
	}
	if err := sess.SetSummaries(doc.ID, map[models.SummaryType]string{req.SummaryType: summary}); err != nil {
		return nil, err
	}
	return &GenerateSummaryResult{SummaryType: req.SummaryType, Summary: summary}, nil
}

// CaseInfoResult carries key points and section explanations
type CaseInfoResult struct {
	CaseInfo models.CaseInfo
}

// AnalyzeCase extracts key points and explains any legal sections found.
// An explanation failure leaves explanations empty rather than failing the call.
func (s *AnalysisService) AnalyzeCase(ctx context.Context, req SessionRequest) (*CaseInfoResult, error) {
	sess, doc, err := s.documentFor(req.SessionID)
	if err != nil {
		return nil, err
	}

	keyPoints, err := s.analyzer.ExtractKeyPoints(ctx, doc.Text)
	if err != nil {
		return nil, err
	}
	if err := sess.SetKeyPoints(doc.ID, keyPoints); err != nil {
		return nil, err
	}

	explanations := models.SectionExplanations{}
	if len(keyPoints.LegalSections) > 0 {
		explained, err := s.analyzer.ExplainSections(ctx, keyPoints.LegalSections)
		if err != nil {
			s.logger.Warn("case.explain_failed",
				"session_id", req.SessionID.String(),
				"sections", len(keyPoints.LegalSections),
				"error", err,
			)
		} else {
			explanations = explained
		}
	}
	if err := sess.SetExplanations(doc.ID, explanations); err != nil {
		return nil, err
	}

	return &CaseInfoResult{CaseInfo: models.CaseInfo{
		KeyPoints:    keyPoints.Normalize(),
		Explanations: explanations,
	}}, nil
}

// AskQuestionRequest represents a question about the current document
type AskQuestionRequest struct {
	SessionID uuid.UUID
	Question  string
}

// AskQuestionResult carries the new answer and the full history
type AskQuestionResult struct {
	Entry   models.QAEntry
	History []models.QAEntry
}

// AskQuestion answers a question and appends it to the session's history
func (s *AnalysisService) AskQuestion(ctx context.Context, req AskQuestionRequest) (*AskQuestionResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, gateway.ErrEmptyQuestion
	}
	sess, doc, err := s.documentFor(req.SessionID)
	if err != nil {
		return nil, err
	}

	answer, err := s.analyzer.AnswerQuestion(ctx, question, doc.Text)
	if err != nil {
		return nil, err
	}

	entry := models.QAEntry{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	}
	if err := sess.AppendQA(doc.ID, entry); err != nil {
		return nil, err
	}
	return &AskQuestionResult{Entry: entry, History: sess.QAHistory()}, nil
}

// TranslateSummaryRequest represents a request to translate a stored summary
type TranslateSummaryRequest struct {
	SessionID   uuid.UUID
	SummaryType models.SummaryType
	Language    string
}

// TranslateSummaryResult carries the translation
type TranslateSummaryResult struct {
	Translation models.Translation
}

// TranslateSummary translates an already generated summary
func (s *AnalysisService) TranslateSummary(ctx context.Context, req TranslateSummaryRequest) (*TranslateSummaryResult, error) {
	lang, ok := gateway.LookupLanguage(req.Language)
	if !ok {
		return nil, fmt.Errorf("%w: %q", gateway.ErrUnsupportedLanguage, req.Language)
	}
	summaryType := req.SummaryType
	if summaryType == "" {
		summaryType = models.SummarySimple
	}
	if !summaryType.Valid() {
		return nil, fmt.Errorf("%w: %q", gateway.ErrUnknownSummaryType, summaryType)
	}

	sess, doc, err := s.documentFor(req.SessionID)
	if err != nil {
		return nil, err
	}
	summary, ok := sess.Summary(summaryType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSummaryNotGenerated, summaryType)
	}

	text, err := s.analyzer.Translate(ctx, summary, lang.Code)
	if err != nil {
		return nil, err
	}

	tr := models.Translation{SummaryType: summaryType, Language: lang, Text: text}
	if err := sess.SetTranslation(doc.ID, tr); err != nil {
		return nil, err
	}
	return &TranslateSummaryResult{Translation: tr}, nil
}

// Languages lists the supported translation targets
func (s *AnalysisService) Languages() []models.Language {
	return gateway.Languages()
}

// DownloadOriginalResult carries an archived original. The caller closes Body.
type DownloadOriginalResult struct {
	FileName    string
	ContentType string
	Body        io.ReadCloser
}

// DownloadOriginal streams the archived original of the current document
func (s *AnalysisService) DownloadOriginal(ctx context.Context, req SessionRequest) (*DownloadOriginalResult, error) {
	sess, err := s.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}
	doc, err := sess.Document()
	if err != nil {
		return nil, err
	}
	if s.storage == nil || doc.StoragePath == "" {
		return nil, ErrOriginalNotArchived
	}

	body, err := s.storage.Download(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOriginalNotArchived
		}
		return nil, err
	}
	return &DownloadOriginalResult{
		FileName:    doc.FileName,
		ContentType: doc.MimeType,
		Body:        body,
	}, nil
}

// ListDocumentsRequest represents a request for recent uploads
type ListDocumentsRequest struct {
	Limit int
}

// ListDocumentsResult carries ledger rows
type ListDocumentsResult struct {
	Documents []*models.Document
}

// ListDocuments returns the most recent uploads from the ledger
func (s *AnalysisService) ListDocuments(ctx context.Context, req ListDocumentsRequest) (*ListDocumentsResult, error) {
	if s.documents == nil {
		return nil, ErrLedgerNotConfigured
	}
	docs, err := s.documents.ListRecent(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	return &ListDocumentsResult{Documents: docs}, nil
}

func (s *AnalysisService) lookup(id uuid.UUID) (*session.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// documentFor resolves the session and its current document for an AI call
func (s *AnalysisService) documentFor(id uuid.UUID) (*session.Session, *models.Document, error) {
	if s.analyzer == nil {
		return nil, nil, ErrAnalyzerNotConfigured
	}
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := sess.Document()
	if err != nil {
		return nil, nil, err
	}
	if !doc.HasText() {
		return nil, nil, ErrNoDocument
	}
	return sess, doc, nil
}
