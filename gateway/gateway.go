package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"lexbrief-backend/models"
)

var (
	ErrGeneration          = errors.New("AI generation failed")
	ErrUnknownSummaryType  = errors.New("unknown summary type")
	ErrEmptyQuestion       = errors.New("question must not be empty")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// JointSummaryTypes are the variants produced together by GenerateSummaries
var JointSummaryTypes = []models.SummaryType{
	models.SummaryProfessional,
	models.SummarySimple,
	models.SummaryDetailed,
}

// Gateway turns document text into summaries, key points, explanations,
// answers and translations through a single Generator
type Gateway struct {
	generator Generator
	limiter   *rate.Limiter
	cache     *gocache.Cache
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Gateway
type Option func(*Gateway)

// WithRateLimit caps model calls at rps with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCache keeps successful responses for ttl. A zero ttl disables caching.
func WithCache(ttl time.Duration) Option {
	return func(g *Gateway) {
		if ttl <= 0 {
			g.cache = nil
			return
		}
		g.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithTimeout bounds each model call
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Gateway. Caching is on for 30 minutes and calls are unlimited
// unless options say otherwise.
func New(generator Generator, opts ...Option) *Gateway {
	g := &Gateway{
		generator: generator,
		cache:     gocache.New(30*time.Minute, time.Hour),
		timeout:   defaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Provider returns the underlying generator's name and model
func (g *Gateway) Provider() (name, model string) {
	return g.generator.Name(), g.generator.Model()
}

// Languages lists the supported translation targets
func (g *Gateway) Languages() []models.Language {
	return Languages()
}

// GenerateSummary produces one summary variant
func (g *Gateway) GenerateSummary(ctx context.Context, text string, summaryType models.SummaryType) (string, error) {
	prompt, err := SummaryPrompt(text, summaryType)
	if err != nil {
		return "", err
	}
	return g.call(ctx, TaskSummary, prompt)
}

// GenerateSummaries produces the professional, simple and detailed variants
// concurrently. Any failure fails the whole call and no partial map is returned.
func (g *Gateway) GenerateSummaries(ctx context.Context, text string) (map[models.SummaryType]string, error) {
	results := make([]string, len(JointSummaryTypes))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, summaryType := range JointSummaryTypes {
		eg.Go(func() error {
			summary, err := g.GenerateSummary(egCtx, text, summaryType)
			if err != nil {
				return fmt.Errorf("%s summary: %w", summaryType, err)
			}
			results[i] = summary
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[models.SummaryType]string, len(JointSummaryTypes))
	for i, summaryType := range JointSummaryTypes {
		out[summaryType] = results[i]
	}
	return out, nil
}

// ExtractKeyPoints asks the model for the five key-point categories. A reply
// that cannot be decoded yields the empty default rather than an error.
func (g *Gateway) ExtractKeyPoints(ctx context.Context, text string) (models.KeyPoints, error) {
	resp, err := g.call(ctx, TaskKeyPoints, KeyPointsPrompt(text))
	if err != nil {
		return models.EmptyKeyPoints(), err
	}

	kp, reason, ok := parseKeyPoints(resp)
	switch {
	case !ok:
		g.logger.Warn("gateway.key_points_unparsable", "reason", reason)
	case reason != "":
		g.logger.Warn("gateway.key_points_partial", "reason", reason)
	}
	return kp, nil
}

// ExplainSections returns a plain-language explanation per section label.
// No model call is made for an empty list.
func (g *Gateway) ExplainSections(ctx context.Context, sections []string) (models.SectionExplanations, error) {
	if len(sections) == 0 {
		return models.SectionExplanations{}, nil
	}

	resp, err := g.call(ctx, TaskExplainSections, ExplainSectionsPrompt(sections))
	if err != nil {
		return models.SectionExplanations{}, err
	}

	explanations, reason, ok := parseExplanations(resp)
	if !ok {
		g.logger.Warn("gateway.explanations_unparsable", "reason", reason)
	}
	return explanations, nil
}

// AnswerQuestion answers a question from the document text alone
func (g *Gateway) AnswerQuestion(ctx context.Context, question, documentText string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	return g.call(ctx, TaskAnswer, AnswerPrompt(question, documentText))
}

// Translate renders text in the language named by code or English name
func (g *Gateway) Translate(ctx context.Context, text, language string) (string, error) {
	lang, ok := LookupLanguage(language)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return g.call(ctx, TaskTranslate, TranslatePrompt(text, lang))
}

func (g *Gateway) call(ctx context.Context, task Task, prompt string) (string, error) {
	key := g.cacheKey(prompt)
	if g.cache != nil {
		if cached, found := g.cache.Get(key); found {
			g.logger.Debug("gateway.cache_hit", "task", task)
			return cached.(string), nil
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %s: rate limit: %w", ErrGeneration, task, err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.generator.Generate(callCtx, prompt)
	if err != nil {
		g.logger.Error("gateway.generate_failed",
			"task", task,
			"provider", g.generator.Name(),
			"error", err,
		)
		return "", fmt.Errorf("%w: %s: %w", ErrGeneration, task, err)
	}

	g.logger.Debug("gateway.generate_ok",
		"task", task,
		"provider", g.generator.Name(),
		"model", g.generator.Model(),
		"ms", time.Since(start).Milliseconds(),
	)

	if g.cache != nil {
		g.cache.SetDefault(key, resp)
	}
	return resp, nil
}

func (g *Gateway) cacheKey(prompt string) string {
	h := sha256.New()
	h.Write([]byte(g.generator.Name()))
	h.Write([]byte{0})
	h.Write([]byte(g.generator.Model()))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
