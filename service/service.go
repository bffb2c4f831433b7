// Package service drives the scan pipeline: query generation, concurrent
// provider fan-out, response analysis, and aggregation into a ScanResult.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"visibility-scan-pipeline/actions"
	"visibility-scan-pipeline/analyzer"
	"visibility-scan-pipeline/llm"
	"visibility-scan-pipeline/metrics"
	"visibility-scan-pipeline/models"
	"visibility-scan-pipeline/querygen"
	"visibility-scan-pipeline/scoring"
	"visibility-scan-pipeline/signals"
)

// ErrEmptyBrandName is the one caller-visible input error. Everything else
// degrades the scan instead of blocking it.
var ErrEmptyBrandName = errors.New("brand name must not be empty")

const defaultSetTimeout = 60 * time.Second

// ResultStore persists completed scans. Optional.
type ResultStore interface {
	SaveScanResult(ctx context.Context, result *models.ScanResult) error
}

// ResultPublisher announces completed scans downstream. Optional.
type ResultPublisher interface {
	PublishScanResult(result *models.ScanResult) error
}

// Service runs visibility scans against a set of LLM providers.
type Service struct {
	clients           []llm.Client
	analyzer          *analyzer.Analyzer
	store             ResultStore
	publisher         ResultPublisher
	defaultQueryCount int
	setTimeouts       map[string]time.Duration

	mu    sync.RWMutex
	scans map[string]*ScanState
}

// ScanState is the externally visible progress record of one scan.
type ScanState struct {
	ID        string             `json:"id"`
	BrandName string             `json:"brand_name"`
	Phase     models.ScanPhase   `json:"phase"`
	Result    *models.ScanResult `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	StartedAt time.Time          `json:"started_at"`

	cancel context.CancelFunc
}

// Options configures a Service.
type Options struct {
	Clients           []llm.Client
	Verifier          llm.Client
	Store             ResultStore
	Publisher         ResultPublisher
	DefaultQueryCount int
	// SetTimeouts bounds each provider's full query set, keyed by
	// SourceName. Providers without an entry get 60s.
	SetTimeouts map[string]time.Duration
}

// New creates a scan service.
func New(opts Options) *Service {
	if opts.DefaultQueryCount <= 0 {
		opts.DefaultQueryCount = 12
	}
	return &Service{
		clients:           opts.Clients,
		analyzer:          analyzer.New(opts.Verifier),
		store:             opts.Store,
		publisher:         opts.Publisher,
		defaultQueryCount: opts.DefaultQueryCount,
		setTimeouts:       opts.SetTimeouts,
		scans:             make(map[string]*ScanState),
	}
}

// StartScan validates the request, registers a scan, and runs it on its own
// goroutine. It returns the scan id immediately.
func (s *Service) StartScan(req models.ScanRequest) (string, error) {
	if strings.TrimSpace(req.Input.BrandName) == "" {
		return "", ErrEmptyBrandName
	}

	scanID := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	state := &ScanState{
		ID:        scanID,
		BrandName: req.Input.BrandName,
		Phase:     models.PhaseInitializing,
		StartedAt: time.Now(),
		cancel:    cancel,
	}
	s.mu.Lock()
	s.scans[scanID] = state
	s.mu.Unlock()

	go func() {
		defer cancel()
		result, err := s.RunScan(ctx, scanID, req.Input, req.Enrichment)

		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case errors.Is(err, context.Canceled):
			state.Phase = models.PhaseAborted
			state.Error = "scan aborted"
			metrics.ScansCompleted.WithLabelValues("aborted").Inc()
		case err != nil:
			state.Phase = models.PhaseFailed
			state.Error = err.Error()
			metrics.ScansCompleted.WithLabelValues("failed").Inc()
		default:
			state.Phase = models.PhaseComplete
			state.Result = result
			metrics.ScansCompleted.WithLabelValues(string(result.Status)).Inc()
		}
	}()

	return scanID, nil
}

// GetScan returns a snapshot of a known scan's state. The copy is taken
// under the lock so callers can read and serialize it while the scan
// goroutine keeps mutating the live record.
func (s *Service) GetScan(scanID string) (ScanState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.scans[scanID]
	if !ok {
		return ScanState{}, false
	}
	snap := *state
	snap.cancel = nil
	return snap, true
}

// AbortScan cancels an in-flight scan. Completed scans are left untouched.
func (s *Service) AbortScan(scanID string) bool {
	s.mu.RLock()
	state, ok := s.scans[scanID]
	s.mu.RUnlock()
	if !ok || state.cancel == nil {
		return false
	}
	state.cancel()
	return true
}

// Stats summarizes the in-memory scan registry.
func (s *Service) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := make(map[string]int)
	for _, state := range s.scans {
		stats[string(state.Phase)]++
	}
	stats["total"] = len(s.scans)
	return stats
}

// RunScan executes one scan synchronously. For elevated budgets it runs the
// pipeline three times concurrently and merges the outcomes by consensus.
func (s *Service) RunScan(ctx context.Context, scanID string, input models.ScanInput, enrichment *models.EnrichedContext) (*models.ScanResult, error) {
	if strings.TrimSpace(input.BrandName) == "" {
		return nil, ErrEmptyBrandName
	}

	metrics.ScansStarted.Inc()
	metrics.ActiveScans.Inc()
	started := time.Now()
	defer func() {
		metrics.ActiveScans.Dec()
		metrics.ScanDurationSeconds.Observe(time.Since(started).Seconds())
	}()

	budget := input.QueryCount
	if budget <= 0 {
		budget = s.defaultQueryCount
	}

	queries := querygen.Generate(buildProfile(input, enrichment), budget)
	comps := mergeCompetitors(input, enrichment)

	var result *models.ScanResult
	if budget > querygen.ElevatedThreshold {
		metrics.ConsensusRuns.Inc()
		merged, err := s.runConsensus(ctx, scanID, input, queries, comps)
		if err != nil {
			return nil, err
		}
		result = merged
	} else {
		out, err := s.runPipeline(ctx, scanID, input, queries, comps)
		if err != nil {
			return nil, err
		}
		result = out.result
	}

	result.ScanID = scanID
	result.BrandName = input.BrandName
	result.BrandURL = input.BrandURL
	result.Queries = queries
	result.CreatedAt = time.Now()

	if s.store != nil {
		if err := s.store.SaveScanResult(ctx, result); err != nil {
			log.Printf("Failed to save scan %s: %v", scanID, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishScanResult(result); err != nil {
			log.Printf("Failed to publish scan %s: %v", scanID, err)
		}
	}
	return result, nil
}

func (s *Service) runConsensus(ctx context.Context, scanID string, input models.ScanInput, queries []models.TaggedQuery, comps []competitor) (*models.ScanResult, error) {
	outcomes := make([]*runOutcome, consensusRuns)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < consensusRuns; i++ {
		i := i
		g.Go(func() error {
			out, err := s.runPipeline(gctx, scanID, input, queries, comps)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mergeRuns(outcomes), nil
}

// runOutcome is the full product of one pipeline pass, kept alongside the
// flat analysis slice the consensus step votes over.
type runOutcome struct {
	result   *models.ScanResult
	analyses []models.MentionAnalysis
}

type providerAnswers struct {
	provider string
	answers  []string
	ok       []bool
}

// runPipeline is one complete pass: fan out all queries to every configured
// provider, analyze every answer, and aggregate.
func (s *Service) runPipeline(ctx context.Context, scanID string, input models.ScanInput, queries []models.TaggedQuery, comps []competitor) (*runOutcome, error) {
	configured := s.configuredClients()
	if len(configured) == 0 {
		log.Printf("Scan %s: no LLM provider configured, producing an empty result", scanID)
	}

	s.setPhase(scanID, models.PhaseQuerying)
	runs := make([]providerAnswers, len(configured))
	var wg sync.WaitGroup
	for i, client := range configured {
		wg.Add(1)
		go func(i int, client llm.Client) {
			defer wg.Done()
			runs[i] = s.queryProvider(ctx, client, queries)
		}(i, client)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.setPhase(scanID, models.PhaseAnalyzing)
	analyses, raw := s.analyzeAll(ctx, runs, queries, input, comps)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.setPhase(scanID, models.PhaseScoring)
	// A provider that answered nothing carries no signal. Its neutral
	// analyses stay in the per-source roll-up but are excluded from scoring
	// so a dead provider does not halve the live provider's score.
	scorable := responsiveAnalyses(runs, analyses)
	score := scoring.Score(scorable, queries)
	status := determineStatus(score, scorable)
	compResults := competitorResults(scorable, comps)
	sources := s.sourceResults(ctx, runs, analyses, len(queries), input.Description)
	accuracy := bestAccuracy(sources)
	sigs := signals.Detect(scorable, compResults, input.BrandName, input.Description, accuracy)
	acts := actions.Generate(sigs, status, compResults, collectDescriptions(analyses))

	return &runOutcome{
		result: &models.ScanResult{
			Status:       status,
			Score:        score,
			Sources:      sources,
			Signals:      sigs,
			Actions:      acts,
			Competitors:  compResults,
			RawResponses: raw,
			Runs:         1,
		},
		analyses: analyses,
	}, nil
}

// queryProvider dispatches every query concurrently under the provider's
// overall set timeout. Failed or timed-out queries are simply left
// unanswered; the analysis phase fills in neutral results for them.
func (s *Service) queryProvider(ctx context.Context, client llm.Client, queries []models.TaggedQuery) providerAnswers {
	provider := client.SourceName()
	setCtx, cancel := context.WithTimeout(ctx, s.setTimeout(provider))
	defer cancel()

	pa := providerAnswers{
		provider: provider,
		answers:  make([]string, len(queries)),
		ok:       make([]bool, len(queries)),
	}

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			start := time.Now()
			answer, err := client.Answer(setCtx, text)
			metrics.ProviderCallDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.ProviderErrors.WithLabelValues(provider).Inc()
				log.Printf("%s query %q failed: %v", provider, text, err)
				return
			}
			pa.answers[i] = answer
			pa.ok[i] = true
		}(i, q.Text)
	}
	wg.Wait()
	return pa
}

// analyzeAll analyzes every (provider, query) pair concurrently. Each
// goroutine writes its own preallocated slot, so no locking is needed.
func (s *Service) analyzeAll(ctx context.Context, runs []providerAnswers, queries []models.TaggedQuery, input models.ScanInput, comps []competitor) ([]models.MentionAnalysis, []models.RawResponse) {
	compNames := make([]string, len(comps))
	for i, c := range comps {
		compNames[i] = c.Name
	}

	perProvider := make([][]models.MentionAnalysis, len(runs))
	var wg sync.WaitGroup
	for pi := range runs {
		perProvider[pi] = make([]models.MentionAnalysis, len(queries))
		for qi := range queries {
			wg.Add(1)
			go func(pi, qi int) {
				defer wg.Done()
				if !runs[pi].ok[qi] {
					perProvider[pi][qi] = neutralAnalysis(runs[pi].provider, queries[qi].Text)
					return
				}
				perProvider[pi][qi] = s.analyzer.Analyze(ctx, runs[pi].provider, queries[qi].Text, runs[pi].answers[qi], input.BrandName, compNames)
			}(pi, qi)
		}
	}
	wg.Wait()

	var analyses []models.MentionAnalysis
	var raw []models.RawResponse
	for pi, run := range runs {
		analyses = append(analyses, perProvider[pi]...)
		for qi, ok := range run.ok {
			if ok {
				raw = append(raw, models.RawResponse{
					Provider: run.provider,
					Query:    queries[qi].Text,
					Answer:   run.answers[qi],
				})
			}
		}
	}
	return analyses, raw
}

// responsiveAnalyses drops every analysis belonging to a provider that
// answered zero queries.
func responsiveAnalyses(runs []providerAnswers, analyses []models.MentionAnalysis) []models.MentionAnalysis {
	answered := make(map[string]bool, len(runs))
	dead := false
	for _, run := range runs {
		for _, ok := range run.ok {
			if ok {
				answered[run.provider] = true
				break
			}
		}
		if !answered[run.provider] {
			dead = true
		}
	}
	if !dead {
		return analyses
	}

	var out []models.MentionAnalysis
	for _, a := range analyses {
		if answered[a.Provider] {
			out = append(out, a)
		}
	}
	return out
}

// neutralAnalysis is the contribution of an unanswered query: not
// mentioned, zero confidence, counted in every denominator.
func neutralAnalysis(provider, query string) models.MentionAnalysis {
	return models.MentionAnalysis{
		Query:        query,
		Provider:     provider,
		Position:     models.PositionNotFound,
		Sentiment:    models.SentimentNeutral,
		ResponseType: models.ResponseUnknown,
		Confidence:   0,
	}
}

func (s *Service) configuredClients() []llm.Client {
	var out []llm.Client
	for _, c := range s.clients {
		if c == nil {
			continue
		}
		if !c.Configured() {
			log.Printf("Provider %s has no credential, skipping", c.SourceName())
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Service) setTimeout(provider string) time.Duration {
	if d, ok := s.setTimeouts[provider]; ok && d > 0 {
		return d
	}
	return defaultSetTimeout
}

func (s *Service) setPhase(scanID string, phase models.ScanPhase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.scans[scanID]; ok && state.Phase != models.PhaseComplete {
		state.Phase = phase
	}
}

// determineStatus maps the aggregate outcome to the scan verdict.
func determineStatus(score models.VisibilityScore, analyses []models.MentionAnalysis) models.ScanStatus {
	mentions := 0
	recommended := 0
	for _, a := range analyses {
		if a.Mentioned {
			mentions++
			if a.Sentiment == models.SentimentRecommended {
				recommended++
			}
		}
	}

	switch {
	case mentions == 0:
		return models.StatusNotMentioned
	case score.Overall >= 60:
		return models.StatusRecommended
	case score.Breakdown.TopThreeRate >= 0.3 && recommended*2 > mentions:
		return models.StatusRecommended
	default:
		return models.StatusLowVisibility
	}
}

type competitor struct {
	Name       string
	Discovered bool
}

// mergeCompetitors joins the user-supplied and discovered competitor names,
// de-duplicated case-insensitively and never including the brand itself.
func mergeCompetitors(input models.ScanInput, enrichment *models.EnrichedContext) []competitor {
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(input.BrandName)): true}
	var out []competitor

	add := func(name string, discovered bool) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, competitor{Name: name, Discovered: discovered})
	}

	for _, name := range input.Competitors {
		add(name, false)
	}
	if enrichment != nil {
		for _, name := range enrichment.DiscoveredCompetitors {
			add(name, true)
		}
	}
	return out
}

// competitorResults aggregates competitor mentions across all analyses.
func competitorResults(analyses []models.MentionAnalysis, comps []competitor) []models.CompetitorResult {
	if len(comps) == 0 {
		return nil
	}

	brandTopThree := 0
	for _, a := range analyses {
		if a.Mentioned && a.Position == models.PositionTopThree {
			brandTopThree++
		}
	}

	out := make([]models.CompetitorResult, 0, len(comps))
	for _, c := range comps {
		r := models.CompetitorResult{Name: c.Name, IsDiscovered: c.Discovered}
		for _, a := range analyses {
			if containsFold(a.CompetitorsMentioned, c.Name) {
				r.MentionCount++
			}
			if containsFold(a.CompetitorsTopThree, c.Name) {
				r.TopThreeCount++
			}
		}
		r.VisibilityLevel = visibilityLevel(r.MentionCount, len(analyses))
		r.OutranksUser = r.TopThreeCount > brandTopThree
		out = append(out, r)
	}
	return out
}

func visibilityLevel(mentions, total int) string {
	if total == 0 || mentions == 0 {
		return "none"
	}
	rate := float64(mentions) / float64(total)
	switch {
	case rate >= 0.7:
		return "high"
	case rate >= 0.35:
		return "medium"
	default:
		return "low"
	}
}

// sourceResults builds the per-provider roll-up, including the description
// accuracy verdict for the best description each provider produced.
func (s *Service) sourceResults(ctx context.Context, runs []providerAnswers, analyses []models.MentionAnalysis, totalQueries int, userDescription string) []models.SourceResult {
	out := make([]models.SourceResult, 0, len(runs))
	for _, run := range runs {
		sr := models.SourceResult{Provider: run.provider, TotalQueries: totalQueries}
		for _, a := range analyses {
			if a.Provider != run.provider || !a.Mentioned {
				continue
			}
			sr.MentionCount++
			if a.Position == models.PositionTopThree {
				sr.TopThreeCount++
			}
			if len(a.Description) > len(sr.BestDescription) {
				sr.BestDescription = a.Description
			}
		}
		sr.DescriptionAccuracy = s.analyzer.CheckDescriptionAccuracy(ctx, userDescription, sr.BestDescription)
		out = append(out, sr)
	}
	return out
}

// bestAccuracy picks the most favorable verdict across providers for the
// description-accuracy signal.
func bestAccuracy(sources []models.SourceResult) models.DescriptionAccuracy {
	rank := map[models.DescriptionAccuracy]int{
		models.DescriptionAccurate:     3,
		models.DescriptionPartial:      2,
		models.DescriptionInaccurate:   1,
		models.DescriptionNotMentioned: 0,
	}
	best := models.DescriptionNotMentioned
	for _, s := range sources {
		if rank[s.DescriptionAccuracy] > rank[best] {
			best = s.DescriptionAccuracy
		}
	}
	return best
}

func collectDescriptions(analyses []models.MentionAnalysis) []string {
	var out []string
	for _, a := range analyses {
		if a.Description != "" {
			out = append(out, a.Description)
		}
	}
	return out
}

func containsFold(list []string, name string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}

// buildProfile adapts the scan input for query generation.
func buildProfile(input models.ScanInput, enrichment *models.EnrichedContext) querygen.Profile {
	return querygen.Profile{
		BrandName:     input.BrandName,
		BrandURL:      input.BrandURL,
		Category:      input.Category,
		Description:   input.Description,
		Competitors:   input.Competitors,
		Categories:    input.Categories,
		CustomQueries: input.CustomQueries,
		Enrichment:    enrichment,
	}
}
