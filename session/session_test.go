package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"lexbrief-backend/models"
)

func newDoc(name string) *models.Document {
	return &models.Document{
		ID:       uuid.New(),
		FileName: name,
		Format:   models.FormatTXT,
		Text:     "The petitioner seeks relief under Article 32.",
	}
}

func TestNewSession_OnlyUploadEnabled(t *testing.T) {
	s := New()

	if s.ActiveView() != ViewUpload {
		t.Errorf("ActiveView() = %s, want upload", s.ActiveView())
	}
	views := s.EnabledViews()
	if len(views) != 1 || views[0] != ViewUpload {
		t.Errorf("EnabledViews() = %v, want [upload]", views)
	}
	for _, v := range []View{ViewSummaries, ViewCaseInfo, ViewQA} {
		if err := s.Select(v); !errors.Is(err, ErrViewDisabled) {
			t.Errorf("Select(%s) = %v, want ErrViewDisabled", v, err)
		}
	}
	if _, err := s.Document(); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Document() err = %v, want ErrNoDocument", err)
	}
}

func TestSelect_UnknownView(t *testing.T) {
	s := New()
	if err := s.Select(View("settings")); !errors.Is(err, ErrUnknownView) {
		t.Errorf("Select() = %v, want ErrUnknownView", err)
	}
}

func TestCompleteUpload_EnablesViewsAndShowsSummaries(t *testing.T) {
	s := New()
	s.BeginUpload()
	if !s.Snapshot().Processing {
		t.Error("expected processing during upload")
	}

	s.CompleteUpload(newDoc("judgment.txt"))

	snap := s.Snapshot()
	if snap.Processing {
		t.Error("expected processing to be cleared")
	}
	if snap.ActiveView != string(ViewSummaries) {
		t.Errorf("ActiveView = %s, want summaries", snap.ActiveView)
	}
	if len(snap.EnabledViews) != len(Views) {
		t.Errorf("EnabledViews = %v, want all", snap.EnabledViews)
	}
	if err := s.Select(ViewQA); err != nil {
		t.Errorf("Select(qa) = %v", err)
	}
	if snap.Document == nil || snap.Document.Text != "" {
		t.Error("expected document metadata without text in snapshot")
	}
}

func TestCompleteUpload_WithoutTextKeepsViewsDisabled(t *testing.T) {
	s := New()
	s.CompleteUpload(newDoc("judgment.txt"))

	s.BeginUpload()
	empty := newDoc("scan.pdf")
	empty.Text = ""
	s.CompleteUpload(empty)

	snap := s.Snapshot()
	if snap.ActiveView != string(ViewUpload) {
		t.Errorf("ActiveView = %s, want upload", snap.ActiveView)
	}
	if len(snap.EnabledViews) != 1 || snap.EnabledViews[0] != string(ViewUpload) {
		t.Errorf("EnabledViews = %v, want [upload]", snap.EnabledViews)
	}
	for _, v := range []View{ViewSummaries, ViewCaseInfo, ViewQA} {
		if err := s.Select(v); !errors.Is(err, ErrViewDisabled) {
			t.Errorf("Select(%s) = %v, want ErrViewDisabled", v, err)
		}
	}
	if snap.Document == nil || snap.Document.FileName != "scan.pdf" {
		t.Error("expected the text-less document to be reported")
	}

	s.CompleteUpload(newDoc("judgment.txt"))
	if err := s.Select(ViewQA); err != nil {
		t.Errorf("Select(qa) after a new upload with text = %v", err)
	}
}

func TestNewUpload_ReplacesDocumentAndClearsResults(t *testing.T) {
	s := New()
	first := newDoc("first.txt")
	s.CompleteUpload(first)

	if err := s.SetSummaries(first.ID, map[models.SummaryType]string{models.SummarySimple: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetKeyPoints(first.ID, models.KeyPoints{Names: []string{"A"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendQA(first.ID, models.QAEntry{Question: "q", Answer: "a"}); err != nil {
		t.Fatal(err)
	}

	s.BeginUpload()

	snap := s.Snapshot()
	if snap.Document != nil {
		t.Error("expected no document while the new upload is processing")
	}
	if len(snap.EnabledViews) != 1 {
		t.Errorf("expected only upload enabled, got %v", snap.EnabledViews)
	}
	if len(snap.Summaries) != 0 || snap.CaseInfo != nil || len(snap.QAHistory) != 0 {
		t.Errorf("expected derived state cleared, got %+v", snap)
	}

	second := newDoc("second.txt")
	s.CompleteUpload(second)
	doc, err := s.Document()
	if err != nil {
		t.Fatal(err)
	}
	if doc.ID != second.ID {
		t.Error("expected second document to be active")
	}
}

func TestFailUpload_LeavesSessionDocumentless(t *testing.T) {
	s := New()
	s.CompleteUpload(newDoc("first.txt"))

	s.BeginUpload()
	s.FailUpload()

	snap := s.Snapshot()
	if snap.Processing {
		t.Error("expected processing cleared")
	}
	if snap.Document != nil {
		t.Error("expected no document after a failed upload")
	}
	if snap.ActiveView != string(ViewUpload) {
		t.Errorf("ActiveView = %s, want upload", snap.ActiveView)
	}
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	s := New()
	old := newDoc("old.txt")
	s.CompleteUpload(old)
	current := newDoc("new.txt")
	s.CompleteUpload(current)

	checks := map[string]error{
		"summaries":   s.SetSummaries(old.ID, map[models.SummaryType]string{models.SummaryShort: "stale"}),
		"keyPoints":   s.SetKeyPoints(old.ID, models.EmptyKeyPoints()),
		"explanation": s.SetExplanations(old.ID, models.SectionExplanations{"s": "e"}),
		"qa":          s.AppendQA(old.ID, models.QAEntry{Question: "q"}),
		"translation": s.SetTranslation(old.ID, models.Translation{SummaryType: models.SummarySimple}),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrStaleDocument) {
			t.Errorf("%s: err = %v, want ErrStaleDocument", name, err)
		}
	}

	if _, ok := s.Summary(models.SummaryShort); ok {
		t.Error("stale summary was stored")
	}
	if _, ok := s.CaseInfo(); ok {
		t.Error("stale key points were stored")
	}
	if len(s.QAHistory()) != 0 {
		t.Error("stale QA entry was stored")
	}
}

func TestQAHistory_AppendOnlyInOrder(t *testing.T) {
	s := New()
	doc := newDoc("doc.txt")
	s.CompleteUpload(doc)

	for _, q := range []string{"first?", "second?", "third?"} {
		if err := s.AppendQA(doc.ID, models.QAEntry{Question: q, Answer: "a", AskedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}

	history := s.QAHistory()
	if len(history) != 3 || history[0].Question != "first?" || history[2].Question != "third?" {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestSetTranslation_ReplacesSameTypeAndLanguage(t *testing.T) {
	s := New()
	doc := newDoc("doc.txt")
	s.CompleteUpload(doc)
	hindi := models.Language{Code: "hi", Name: "Hindi"}
	tamil := models.Language{Code: "ta", Name: "Tamil"}

	_ = s.SetTranslation(doc.ID, models.Translation{SummaryType: models.SummarySimple, Language: hindi, Text: "v1"})
	_ = s.SetTranslation(doc.ID, models.Translation{SummaryType: models.SummarySimple, Language: hindi, Text: "v2"})
	_ = s.SetTranslation(doc.ID, models.Translation{SummaryType: models.SummarySimple, Language: tamil, Text: "ta"})

	got := s.Snapshot().Translations
	if len(got) != 2 {
		t.Fatalf("expected 2 translations, got %d", len(got))
	}
	if got[0].Text != "v2" {
		t.Errorf("expected replaced text v2, got %q", got[0].Text)
	}
}

func TestSetKeyPoints_NormalizesNilSlices(t *testing.T) {
	s := New()
	doc := newDoc("doc.txt")
	s.CompleteUpload(doc)

	if err := s.SetKeyPoints(doc.ID, models.KeyPoints{Names: []string{"R. Sharma"}}); err != nil {
		t.Fatal(err)
	}
	info, ok := s.CaseInfo()
	if !ok {
		t.Fatal("expected case info")
	}
	if info.KeyPoints.Clauses == nil {
		t.Error("expected non-nil clauses")
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	store := NewStore(time.Hour)

	sess := store.Create()
	got, ok := store.Get(sess.ID())
	if !ok || got != sess {
		t.Fatal("expected to find created session")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}

	store.Delete(sess.ID())
	if _, ok := store.Get(sess.ID()); ok {
		t.Error("expected session to be deleted")
	}
	if _, ok := store.Get(uuid.New()); ok {
		t.Error("expected unknown id to miss")
	}
}

func TestStore_IdleSessionsExpire(t *testing.T) {
	store := NewStore(50 * time.Millisecond)
	sess := store.Create()

	time.Sleep(120 * time.Millisecond)

	if _, ok := store.Get(sess.ID()); ok {
		t.Error("expected idle session to expire")
	}
}
