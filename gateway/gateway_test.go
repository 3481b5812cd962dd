package gateway

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"lexbrief-backend/models"
)

// MockGenerator implements Generator for testing
type MockGenerator struct {
	mu      sync.Mutex
	calls   []string
	respond func(prompt string) (string, error)
}

func (m *MockGenerator) Name() string  { return "mock" }
func (m *MockGenerator) Model() string { return "mock-1" }

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()
	if m.respond == nil {
		return "ok", nil
	}
	return m.respond(prompt)
}

func (m *MockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func reply(s string) func(string) (string, error) {
	return func(string) (string, error) { return s, nil }
}

func TestExtractJSONBlock(t *testing.T) {
	raw := `{"clauses":["c1"],"names":["Ramesh"]}`

	tests := []struct {
		name  string
		input string
	}{
		{"bare", raw},
		{"json fence", "```json\n" + raw + "\n```"},
		{"plain fence", "```\n" + raw + "\n```"},
		{"fence with prose", "Here is the result:\n```json\n" + raw + "\n```\nLet me know if you need more."},
		{"padded", "\n\n  " + raw + "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONBlock(tt.input); got != raw {
				t.Errorf("ExtractJSONBlock() = %q, want %q", got, raw)
			}
		})
	}
}

func TestExtractKeyPoints_FencedAndBareParseIdentically(t *testing.T) {
	raw := `{"clauses":["bail granted"],"legalSections":["Section 302 IPC"],"names":["A. Kumar"],"organizations":[],"locations":["Delhi"]}`

	bare := New(&MockGenerator{respond: reply(raw)}, WithCache(0))
	fenced := New(&MockGenerator{respond: reply("```json\n" + raw + "\n```")}, WithCache(0))

	a, err := bare.ExtractKeyPoints(context.Background(), "doc")
	if err != nil {
		t.Fatalf("bare: %v", err)
	}
	b, err := fenced.ExtractKeyPoints(context.Background(), "doc")
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}

	if strings.Join(a.LegalSections, "|") != strings.Join(b.LegalSections, "|") ||
		strings.Join(a.Names, "|") != strings.Join(b.Names, "|") ||
		strings.Join(a.Locations, "|") != strings.Join(b.Locations, "|") {
		t.Errorf("fenced %+v differs from bare %+v", b, a)
	}
	if len(a.LegalSections) != 1 || a.LegalSections[0] != "Section 302 IPC" {
		t.Errorf("LegalSections = %v", a.LegalSections)
	}
}

func TestExtractKeyPoints_UnparsableYieldsEmptyDefault(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose", "I could not find any key points in this document."},
		{"truncated", `{"clauses": ["a",`},
		{"wrong types", `{"names": "Ramesh", "clauses": [1, 2]}`},
		{"array", `["a", "b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(&MockGenerator{respond: reply(tt.response)}, WithCache(0))

			kp, err := g.ExtractKeyPoints(context.Background(), "doc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !kp.IsEmpty() {
				t.Errorf("expected empty key points, got %+v", kp)
			}
			if kp.Clauses == nil || kp.Locations == nil {
				t.Error("expected non-nil empty slices")
			}
		})
	}
}

func TestExtractKeyPoints_MissingCategoriesAreEmpty(t *testing.T) {
	g := New(&MockGenerator{respond: reply(`{"names":["Sita Devi"]}`)}, WithCache(0))

	kp, err := g.ExtractKeyPoints(context.Background(), "doc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kp.Names) != 1 {
		t.Errorf("Names = %v", kp.Names)
	}
	if kp.LegalSections == nil || len(kp.LegalSections) != 0 {
		t.Errorf("LegalSections = %#v, want empty slice", kp.LegalSections)
	}
}

func TestExtractKeyPoints_InvalidCategoryKeepsTheOthers(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"null", `{"clauses":["c1"],"legalSections":["Section 302 IPC"],"names":["A"],"organizations":[],"locations":null}`},
		{"string", `{"clauses":["c1"],"legalSections":["Section 302 IPC"],"names":["A"],"organizations":[],"locations":"Delhi"}`},
		{"numbers", `{"clauses":["c1"],"legalSections":["Section 302 IPC"],"names":["A"],"organizations":[],"locations":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(&MockGenerator{respond: reply(tt.response)}, WithCache(0))

			kp, err := g.ExtractKeyPoints(context.Background(), "doc")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(kp.Clauses) != 1 || kp.Clauses[0] != "c1" {
				t.Errorf("Clauses = %v", kp.Clauses)
			}
			if len(kp.LegalSections) != 1 || kp.LegalSections[0] != "Section 302 IPC" {
				t.Errorf("LegalSections = %v", kp.LegalSections)
			}
			if len(kp.Names) != 1 || kp.Names[0] != "A" {
				t.Errorf("Names = %v", kp.Names)
			}
			if kp.Locations == nil || len(kp.Locations) != 0 {
				t.Errorf("Locations = %#v, want empty slice", kp.Locations)
			}
		})
	}
}

func TestParseKeyPoints_Reason(t *testing.T) {
	_, reason, ok := parseKeyPoints(`{"names":"Ramesh","clauses":["c1"],"locations":null}`)
	if !ok {
		t.Fatal("expected an object with one bad category to parse")
	}
	if reason != "invalid categories: names" {
		t.Errorf("reason = %q", reason)
	}

	if _, reason, ok := parseKeyPoints(`{"clauses":["c1"]}`); !ok || reason != "" {
		t.Errorf("valid response: ok=%v reason=%q", ok, reason)
	}
	if _, _, ok := parseKeyPoints(`["a"]`); ok {
		t.Error("expected a JSON array to be rejected")
	}
}

func TestExplainSections_EmptyListSkipsModel(t *testing.T) {
	mock := &MockGenerator{}
	g := New(mock)

	got, err := g.ExplainSections(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty map, got %#v", got)
	}
	if mock.callCount() != 0 {
		t.Errorf("expected no model call, got %d", mock.callCount())
	}
}

func TestExplainSections_ParsesObjectAndDropsNonStrings(t *testing.T) {
	g := New(&MockGenerator{respond: reply("```json\n{\"Section 302 IPC\": \"Punishment for murder.\", \"Article 21\": 7}\n```")})

	got, err := g.ExplainSections(context.Background(), []string{"Section 302 IPC", "Article 21"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["Section 302 IPC"] != "Punishment for murder." {
		t.Errorf("explanation = %q", got["Section 302 IPC"])
	}
	if _, ok := got["Article 21"]; ok {
		t.Error("expected non-string value to be dropped")
	}
}

func TestExplainSections_UnparsableYieldsEmptyMap(t *testing.T) {
	g := New(&MockGenerator{respond: reply("Section 302 deals with murder.")})

	got, err := g.ExplainSections(context.Background(), []string{"Section 302 IPC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestGenerateSummaries_AllThreeVariants(t *testing.T) {
	mock := &MockGenerator{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "professional summary"):
			return "pro", nil
		case strings.Contains(prompt, "plain English"):
			return "simple", nil
		case strings.Contains(prompt, "comprehensive"):
			return "detailed", nil
		}
		return "", errors.New("unexpected prompt")
	}}
	g := New(mock)

	got, err := g.GenerateSummaries(context.Background(), "judgment text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[models.SummaryType]string{
		models.SummaryProfessional: "pro",
		models.SummarySimple:       "simple",
		models.SummaryDetailed:     "detailed",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d summaries, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("summary %s = %q, want %q", k, got[k], v)
		}
	}
	if mock.callCount() != 3 {
		t.Errorf("expected 3 calls, got %d", mock.callCount())
	}
}

func TestGenerateSummaries_OneFailureFailsAll(t *testing.T) {
	mock := &MockGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "plain English") {
			return "", errors.New("quota exceeded")
		}
		return "fine", nil
	}}
	g := New(mock)

	got, err := g.GenerateSummaries(context.Background(), "judgment text")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no partial results, got %v", got)
	}
}

func TestGenerateSummary_UnknownType(t *testing.T) {
	mock := &MockGenerator{}
	g := New(mock)

	_, err := g.GenerateSummary(context.Background(), "text", models.SummaryType("haiku"))
	if !errors.Is(err, ErrUnknownSummaryType) {
		t.Errorf("expected ErrUnknownSummaryType, got %v", err)
	}
	if mock.callCount() != 0 {
		t.Error("expected no model call")
	}
}

func TestAnswerQuestion_BlankQuestion(t *testing.T) {
	mock := &MockGenerator{}
	g := New(mock)

	if _, err := g.AnswerQuestion(context.Background(), "   ", "doc"); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("expected ErrEmptyQuestion, got %v", err)
	}
	if mock.callCount() != 0 {
		t.Error("expected no model call")
	}
}

func TestAnswerQuestion_PromptCarriesDocumentAndQuestion(t *testing.T) {
	mock := &MockGenerator{respond: reply("The appeal was dismissed.")}
	g := New(mock)

	answer, err := g.AnswerQuestion(context.Background(), "What was the outcome?", "The appeal is dismissed with costs.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "The appeal was dismissed." {
		t.Errorf("answer = %q", answer)
	}
	prompt := mock.calls[0]
	if !strings.Contains(prompt, "What was the outcome?") || !strings.Contains(prompt, "dismissed with costs") {
		t.Errorf("prompt missing question or document: %q", prompt)
	}
}

func TestTranslate(t *testing.T) {
	mock := &MockGenerator{respond: reply("अपील खारिज")}
	g := New(mock)

	got, err := g.Translate(context.Background(), "Appeal dismissed", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "अपील खारिज" {
		t.Errorf("translation = %q", got)
	}
	if !strings.Contains(mock.calls[0], "Hindi") {
		t.Errorf("prompt does not name the language: %q", mock.calls[0])
	}

	if _, err := g.Translate(context.Background(), "Appeal dismissed", "klingon"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestLookupLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"hi", "Hindi", true},
		{"TA", "Tamil", true},
		{"malayalam", "Malayalam", true},
		{" Odia ", "Odia", true},
		{"fr", "", false},
	}

	for _, tt := range tests {
		lang, ok := LookupLanguage(tt.input)
		if ok != tt.ok || lang.Name != tt.want {
			t.Errorf("LookupLanguage(%q) = %v, %v; want %q, %v", tt.input, lang, ok, tt.want, tt.ok)
		}
	}
	if n := len(Languages()); n != 12 {
		t.Errorf("expected 12 languages, got %d", n)
	}
}

func TestGateway_CachesIdenticalPrompts(t *testing.T) {
	mock := &MockGenerator{respond: reply("summary")}
	g := New(mock)

	for i := 0; i < 2; i++ {
		if _, err := g.GenerateSummary(context.Background(), "same text", models.SummaryShort); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if mock.callCount() != 1 {
		t.Errorf("expected 1 model call, got %d", mock.callCount())
	}

	if _, err := g.GenerateSummary(context.Background(), "other text", models.SummaryShort); err != nil {
		t.Fatal(err)
	}
	if mock.callCount() != 2 {
		t.Errorf("expected 2 model calls, got %d", mock.callCount())
	}
}

func TestGateway_FailuresAreNotCached(t *testing.T) {
	fail := true
	mock := &MockGenerator{respond: func(string) (string, error) {
		if fail {
			return "", errors.New("upstream unavailable")
		}
		return "recovered", nil
	}}
	g := New(mock)

	if _, err := g.GenerateSummary(context.Background(), "text", models.SummaryMedium); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}

	fail = false
	got, err := g.GenerateSummary(context.Background(), "text", models.SummaryMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" {
		t.Errorf("got %q, want recovered", got)
	}
}

func TestGateway_RateLimitRespectsContext(t *testing.T) {
	mock := &MockGenerator{}
	g := New(mock, WithRateLimit(0.001, 1), WithCache(0))

	if _, err := g.GenerateSummary(context.Background(), "a", models.SummaryShort); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.GenerateSummary(ctx, "b", models.SummaryShort); !errors.Is(err, ErrGeneration) {
		t.Errorf("expected ErrGeneration when the limiter wait is cancelled, got %v", err)
	}
	if mock.callCount() != 1 {
		t.Errorf("expected 1 model call, got %d", mock.callCount())
	}
}
