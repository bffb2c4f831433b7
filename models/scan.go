package models

import "time"

// ScanStatus is the overall verdict of a completed scan.
type ScanStatus string

const (
	StatusNotMentioned  ScanStatus = "not_mentioned"
	StatusLowVisibility ScanStatus = "low_visibility"
	StatusRecommended   ScanStatus = "recommended"
)

// ScanPhase tracks where an in-flight scan currently is.
type ScanPhase string

const (
	PhaseInitializing ScanPhase = "initializing"
	PhaseQuerying     ScanPhase = "querying"
	PhaseAnalyzing    ScanPhase = "analyzing"
	PhaseScoring      ScanPhase = "scoring"
	PhaseComplete     ScanPhase = "complete"
	PhaseFailed       ScanPhase = "failed"
	PhaseAborted      ScanPhase = "aborted"
)

// Dimension tags a query with the aspect of the brand it probes.
// The common dimensions are listed here; industry-specific ones
// (e.g. "claims_process", "fleet_quality") are defined by the
// query generator's industry tables.
type Dimension string

const (
	DimGeneral     Dimension = "general"
	DimQuality     Dimension = "quality"
	DimPrice       Dimension = "price"
	DimReputation  Dimension = "reputation"
	DimStyle       Dimension = "style"
	DimComfort     Dimension = "comfort"
	DimDurability  Dimension = "durability"
	DimFeatures    Dimension = "features"
	DimPerformance Dimension = "performance"
	DimEaseOfUse   Dimension = "ease_of_use"
	DimCoverage    Dimension = "coverage"
	DimLocation    Dimension = "location"
	DimComparison  Dimension = "comparison"
)

// ProductType classifies what the brand sells.
type ProductType string

const (
	ProductPhysical ProductType = "physical"
	ProductSoftware ProductType = "software"
	ProductService  ProductType = "service"
)

// ScanInput is the caller-supplied description of what to scan.
// Immutable once a scan starts.
type ScanInput struct {
	BrandName     string   `json:"brand_name"`
	BrandURL      string   `json:"brand_url"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Categories    []string `json:"categories,omitempty"`
	Competitors   []string `json:"competitors,omitempty"`
	CustomQueries []string `json:"custom_queries,omitempty"`
	QueryCount    int      `json:"query_count"`
}

// Terminology is what a single instance of a competitor is called in
// the brand's industry ("provider", "carrier", ...), its plural, and
// the verb customers use ("choose", "book", "hire").
type Terminology struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
	Verb     string `json:"verb"`
}

// EnrichedContext is the pre-computed output of the website-analysis
// collaborator. Every field is optional; scanning proceeds without it.
type EnrichedContext struct {
	ExtractedKeywords     []string     `json:"extracted_keywords,omitempty"`
	ExtractedFeatures     []string     `json:"extracted_features,omitempty"`
	ExtractedDescription  string       `json:"extracted_description,omitempty"`
	TargetAudience        []string     `json:"target_audience,omitempty"`
	UseCases              []string     `json:"use_cases,omitempty"`
	DiscoveredCompetitors []string     `json:"discovered_competitors,omitempty"`
	DetectedCountry       string       `json:"detected_country,omitempty"`
	DetectedCountryCode   string       `json:"detected_country_code,omitempty"`
	IsLocationBound       bool         `json:"is_location_bound,omitempty"`
	IndustryType          string       `json:"industry_type,omitempty"`
	ProductType           string       `json:"product_type,omitempty"`
	IndustryTerminology   *Terminology `json:"industry_terminology,omitempty"`
}

// TaggedQuery is one generated question plus its classification.
// VariationGroup is non-zero only for paraphrase groups used in
// elevated-tier consistency testing.
type TaggedQuery struct {
	Text           string    `json:"text"`
	Dimension      Dimension `json:"dimension"`
	VariationGroup int       `json:"variation_group,omitempty"`
	IsCustom       bool      `json:"is_custom,omitempty"`
}

// MentionPosition buckets where the brand appeared in an answer.
type MentionPosition string

const (
	PositionTopThree  MentionPosition = "top_3"
	PositionMentioned MentionPosition = "mentioned"
	PositionNotFound  MentionPosition = "not_found"
)

// Sentiment is how the provider characterized the brand.
type Sentiment string

const (
	SentimentRecommended Sentiment = "recommended"
	SentimentNeutral     Sentiment = "neutral"
	SentimentNegative    Sentiment = "negative"
)

// ResponseType classifies the shape of a provider answer.
type ResponseType string

const (
	ResponseDirect     ResponseType = "direct_answer"
	ResponseList       ResponseType = "list"
	ResponseComparison ResponseType = "comparison"
	ResponseDeflection ResponseType = "deflection"
	ResponseUnknown    ResponseType = "unknown"
)

// QualityIssue is the dominant problem detected in an answer, if any.
type QualityIssue string

const (
	IssueNone       QualityIssue = "none"
	IssueDeflection QualityIssue = "deflection"
	IssueRefusal    QualityIssue = "refusal"
	IssueGeneric    QualityIssue = "generic_advice"
	IssueOffTopic   QualityIssue = "off_topic"
)

// ResponseQuality scores how usable an answer is regardless of whether
// the brand appeared in it.
type ResponseQuality struct {
	Score        int          `json:"score"`
	IsDeflection bool         `json:"is_deflection"`
	IsGeneric    bool         `json:"is_generic"`
	IsOffTopic   bool         `json:"is_off_topic"`
	Issue        QualityIssue `json:"issue"`
}

// MentionAnalysis is the per (query, provider) detection result.
// ExactPosition, when set, is a 1-based rank consistent with Position
// (1-3 implies top_3).
type MentionAnalysis struct {
	Query                string          `json:"query"`
	Provider             string          `json:"provider"`
	Mentioned            bool            `json:"mentioned"`
	Position             MentionPosition `json:"position"`
	ExactPosition        *int            `json:"exact_position,omitempty"`
	Sentiment            Sentiment       `json:"sentiment,omitempty"`
	Description          string          `json:"description,omitempty"`
	CompetitorsMentioned []string        `json:"competitors_mentioned,omitempty"`
	CompetitorsTopThree  []string        `json:"competitors_top_three,omitempty"`
	OtherBrands          []string        `json:"other_brands,omitempty"`
	ResponseType         ResponseType    `json:"response_type"`
	Confidence           float64         `json:"confidence"`
	Quality              ResponseQuality `json:"quality"`
}

// DescriptionAccuracy is the verdict on how the provider described the brand.
type DescriptionAccuracy string

const (
	DescriptionAccurate     DescriptionAccuracy = "accurate"
	DescriptionPartial      DescriptionAccuracy = "partially_accurate"
	DescriptionInaccurate   DescriptionAccuracy = "inaccurate"
	DescriptionNotMentioned DescriptionAccuracy = "not_mentioned"
)

// SourceResult is the per-provider roll-up.
type SourceResult struct {
	Provider            string              `json:"provider"`
	MentionCount        int                 `json:"mention_count"`
	TopThreeCount       int                 `json:"top_three_count"`
	TotalQueries        int                 `json:"total_queries"`
	BestDescription     string              `json:"best_description,omitempty"`
	DescriptionAccuracy DescriptionAccuracy `json:"description_accuracy"`
}

// SignalStatus is the traffic-light state of a visibility signal.
type SignalStatus string

const (
	SignalSuccess SignalStatus = "success"
	SignalWarning SignalStatus = "warning"
	SignalError   SignalStatus = "error"
)

// SignalConfidence says whether a signal was directly observed or inferred.
type SignalConfidence string

const (
	ConfidenceObserved SignalConfidence = "observed"
	ConfidenceLikely   SignalConfidence = "likely"
)

// Signal is one human-readable visibility finding.
type Signal struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Status      SignalStatus     `json:"status"`
	Explanation string           `json:"explanation"`
	Confidence  SignalConfidence `json:"confidence"`
	Details     string           `json:"details,omitempty"`
}

// Action is one prioritized recommendation. Every scan returns exactly
// three with priorities 1..3.
type Action struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
	Title    string `json:"title"`
	Why      string `json:"why"`
	What     string `json:"what"`
	Category string `json:"category"`
}

// CompetitorResult aggregates how one competitor fared across all queries.
type CompetitorResult struct {
	Name            string `json:"name"`
	MentionCount    int    `json:"mention_count"`
	TopThreeCount   int    `json:"top_three_count"`
	VisibilityLevel string `json:"visibility_level"`
	OutranksUser    bool   `json:"outranks_user"`
	IsDiscovered    bool   `json:"is_discovered"`
}

// ScoreBreakdown carries the component rates behind the overall score.
type ScoreBreakdown struct {
	MentionRate      float64 `json:"mention_rate"`
	AvgPosition      float64 `json:"avg_position"`
	TopThreeRate     float64 `json:"top_three_rate"`
	ModelConsistency float64 `json:"model_consistency"`
}

// DimensionScore is the score restricted to queries of one dimension.
type DimensionScore struct {
	Dimension  Dimension `json:"dimension"`
	Score      int       `json:"score"`
	QueryCount int       `json:"query_count"`
}

// VisibilityScore is the 0-100 scoring output.
type VisibilityScore struct {
	Overall     int              `json:"overall"`
	Breakdown   ScoreBreakdown   `json:"breakdown"`
	ByModel     map[string]int   `json:"by_model"`
	ByDimension []DimensionScore `json:"by_dimension,omitempty"`
}

// RawResponse preserves one provider answer for audit.
type RawResponse struct {
	Provider string `json:"provider"`
	Query    string `json:"query"`
	Answer   string `json:"answer"`
}

// ScanResult is the full serializable output of one scan.
type ScanResult struct {
	ScanID       string             `json:"scan_id"`
	BrandName    string             `json:"brand_name"`
	BrandURL     string             `json:"brand_url,omitempty"`
	Status       ScanStatus         `json:"status"`
	Score        VisibilityScore    `json:"score"`
	Sources      []SourceResult     `json:"sources"`
	Queries      []TaggedQuery      `json:"queries"`
	Signals      []Signal           `json:"signals"`
	Actions      []Action           `json:"actions"`
	Competitors  []CompetitorResult `json:"competitors,omitempty"`
	RawResponses []RawResponse      `json:"raw_responses,omitempty"`
	Runs         int                `json:"runs"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ScanRequest is the message body accepted over HTTP and AMQP.
type ScanRequest struct {
	Input      ScanInput        `json:"input"`
	Enrichment *EnrichedContext `json:"enrichment,omitempty"`
}
