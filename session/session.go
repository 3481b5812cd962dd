package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"lexbrief-backend/models"
)

// View is one of the panels a user can switch between
type View string

const (
	ViewUpload    View = "upload"
	ViewSummaries View = "summaries"
	ViewCaseInfo  View = "case-info"
	ViewQA        View = "qa"
)

// Views lists every view in navigation order
var Views = []View{ViewUpload, ViewSummaries, ViewCaseInfo, ViewQA}

var (
	ErrUnknownView   = errors.New("unknown view")
	ErrViewDisabled  = errors.New("view is disabled until a document is uploaded")
	ErrNoDocument    = errors.New("no document uploaded")
	ErrStaleDocument = errors.New("result belongs to a document that has been replaced")
)

// ParseView validates a view name
func ParseView(name string) (View, error) {
	for _, v := range Views {
		if string(v) == name {
			return v, nil
		}
	}
	return "", ErrUnknownView
}

// Session holds one user's current document and everything derived from it.
// A new upload discards all derived state.
type Session struct {
	mu sync.RWMutex

	id           uuid.UUID
	activeView   View
	processing   bool
	document     *models.Document
	summaries    map[models.SummaryType]string
	keyPoints    *models.KeyPoints
	explanations models.SectionExplanations
	qaHistory    []models.QAEntry
	translations []models.Translation
	updatedAt    time.Time
}

// New creates an empty session on the upload view
func New() *Session {
	return &Session{
		id:         uuid.New(),
		activeView: ViewUpload,
		summaries:  make(map[models.SummaryType]string),
		updatedAt:  time.Now().UTC(),
	}
}

// ID returns the session id
func (s *Session) ID() uuid.UUID {
	return s.id
}

// BeginUpload clears the current document and all derived results, returns
// to the upload view and marks the session as processing
func (s *Session) BeginUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.activeView = ViewUpload
	s.processing = true
	s.touchLocked()
}

// CompleteUpload installs doc as the active document and moves to the summaries
// view. A document without text stays on the upload view with the others disabled.
func (s *Session) CompleteUpload(doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.document = doc
	s.processing = false
	s.activeView = ViewUpload
	if doc.HasText() {
		s.activeView = ViewSummaries
	}
	s.touchLocked()
}

// FailUpload clears the processing flag, leaving the session without a document
func (s *Session) FailUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processing = false
	s.touchLocked()
}

// Select switches the active view
func (s *Session) Select(view View) error {
	if _, err := ParseView(string(view)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabledLocked(view) {
		return ErrViewDisabled
	}
	s.activeView = view
	s.touchLocked()
	return nil
}

// ActiveView returns the currently selected view
func (s *Session) ActiveView() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeView
}

// EnabledViews returns the views the user can currently select
func (s *Session) EnabledViews() []View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []View
	for _, v := range Views {
		if s.enabledLocked(v) {
			out = append(out, v)
		}
	}
	return out
}

// Document returns the active document or ErrNoDocument
func (s *Session) Document() (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.document == nil {
		return nil, ErrNoDocument
	}
	return s.document, nil
}

// Summary returns a stored summary
func (s *Session) Summary(t models.SummaryType) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.summaries[t]
	return text, ok
}

// Summaries returns a copy of the stored summaries
func (s *Session) Summaries() map[models.SummaryType]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.SummaryType]string, len(s.summaries))
	for k, v := range s.summaries {
		out[k] = v
	}
	return out
}

// SetSummaries stores summaries computed for docID
func (s *Session) SetSummaries(docID uuid.UUID, summaries map[models.SummaryType]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkDocumentLocked(docID); err != nil {
		return err
	}
	for k, v := range summaries {
		s.summaries[k] = v
	}
	s.touchLocked()
	return nil
}

// SetKeyPoints stores the key points computed for docID
func (s *Session) SetKeyPoints(docID uuid.UUID, kp models.KeyPoints) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkDocumentLocked(docID); err != nil {
		return err
	}
	kp = kp.Normalize()
	s.keyPoints = &kp
	s.touchLocked()
	return nil
}

// SetExplanations stores the section explanations computed for docID
func (s *Session) SetExplanations(docID uuid.UUID, explanations models.SectionExplanations) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkDocumentLocked(docID); err != nil {
		return err
	}
	s.explanations = explanations
	s.touchLocked()
	return nil
}

// CaseInfo returns the key points and explanations, if extracted
func (s *Session) CaseInfo() (*models.CaseInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caseInfoLocked()
}

// AppendQA records an answered question for docID
func (s *Session) AppendQA(docID uuid.UUID, entry models.QAEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkDocumentLocked(docID); err != nil {
		return err
	}
	s.qaHistory = append(s.qaHistory, entry)
	s.touchLocked()
	return nil
}

// QAHistory returns the questions asked about the current document, oldest first
func (s *Session) QAHistory() []models.QAEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.QAEntry, len(s.qaHistory))
	copy(out, s.qaHistory)
	return out
}

// SetTranslation stores a translation for docID, replacing any earlier one
// for the same summary type and language
func (s *Session) SetTranslation(docID uuid.UUID, tr models.Translation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkDocumentLocked(docID); err != nil {
		return err
	}
	for i, existing := range s.translations {
		if existing.SummaryType == tr.SummaryType && existing.Language.Code == tr.Language.Code {
			s.translations[i] = tr
			s.touchLocked()
			return nil
		}
	}
	s.translations = append(s.translations, tr)
	s.touchLocked()
	return nil
}

// Snapshot returns the session's state. The document text is omitted.
func (s *Session) Snapshot() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := models.SessionState{
		ID:         s.id,
		ActiveView: string(s.activeView),
		Processing: s.processing,
		QAHistory:  make([]models.QAEntry, len(s.qaHistory)),
		UpdatedAt:  s.updatedAt,
	}
	for _, v := range Views {
		if s.enabledLocked(v) {
			state.EnabledViews = append(state.EnabledViews, string(v))
		}
	}
	copy(state.QAHistory, s.qaHistory)

	if s.document != nil {
		meta := s.document.Metadata()
		state.Document = &meta
	}
	if len(s.summaries) > 0 {
		state.Summaries = make(map[models.SummaryType]string, len(s.summaries))
		for k, v := range s.summaries {
			state.Summaries[k] = v
		}
	}
	if info, ok := s.caseInfoLocked(); ok {
		state.CaseInfo = info
	}
	if len(s.translations) > 0 {
		state.Translations = make([]models.Translation, len(s.translations))
		copy(state.Translations, s.translations)
	}
	return state
}

func (s *Session) caseInfoLocked() (*models.CaseInfo, bool) {
	if s.keyPoints == nil {
		return nil, false
	}
	info := &models.CaseInfo{
		KeyPoints:    *s.keyPoints,
		Explanations: make(models.SectionExplanations, len(s.explanations)),
	}
	for k, v := range s.explanations {
		info.Explanations[k] = v
	}
	return info, true
}

func (s *Session) enabledLocked(v View) bool {
	if v == ViewUpload {
		return true
	}
	return s.document.HasText()
}

func (s *Session) checkDocumentLocked(docID uuid.UUID) error {
	if s.document == nil || s.document.ID != docID {
		return ErrStaleDocument
	}
	return nil
}

func (s *Session) resetLocked() {
	s.document = nil
	s.summaries = make(map[models.SummaryType]string)
	s.keyPoints = nil
	s.explanations = nil
	s.qaHistory = nil
	s.translations = nil
}

func (s *Session) touchLocked() {
	s.updatedAt = time.Now().UTC()
}
