package querygen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"visibility-scan-pipeline/models"
)

// Package querygen turns a brand profile into a deterministic, budget-capped
// list of dimension-tagged questions. Determinism matters twice: tests rely
// on it, and the elevated-tier consensus runs must pose identical queries.

// ElevatedThreshold is the query budget above which a scan runs the
// consensus pipeline and the generator adds variation and enhanced tiers.
const ElevatedThreshold = 15

// Profile is everything the generator knows about the brand being scanned.
type Profile struct {
	BrandName     string
	BrandURL      string
	Category      string
	Description   string
	Competitors   []string
	Categories    []string
	CustomQueries []string
	Enrichment    *models.EnrichedContext
}

// commonWordBrands are brand names that double as everyday English words.
// Queries reference these as "<brand> <category>" so that downstream
// matching is not fooled by ordinary prose.
var commonWordBrands = map[string]bool{
	"budget": true, "discovery": true, "smart": true, "target": true,
	"shell": true, "total": true, "orange": true, "mint": true,
	"bolt": true, "dash": true, "prime": true, "spark": true,
	"compass": true, "anchor": true, "summit": true, "beacon": true,
	"drift": true, "forge": true, "haven": true, "scout": true,
	"pilot": true, "relay": true, "ring": true, "wave": true,
	"arrow": true, "crown": true, "horizon": true, "pulse": true,
	"sage": true, "amber": true,
}

// Generate returns exactly budget queries for the profile. Identical input
// always yields identical output.
func Generate(p Profile, budget int) []models.TaggedQuery {
	if budget <= 0 {
		return nil
	}
	b := newBuilder(p, budget)

	b.addPriorityQueries()
	b.addCustomQueries()
	b.addLocationQueries()
	b.addCategoryQueries()
	if budget > ElevatedThreshold {
		b.addVariationQueries()
	}
	b.addContextualQueries()
	if budget > ElevatedThreshold {
		b.addEnhancedQueries()
	}
	b.fillDimensionQueries()

	return b.queries
}

type builder struct {
	p       Profile
	budget  int
	queries []models.TaggedQuery
	seen    map[string]bool

	brandRef    string
	category    string
	product     models.ProductType
	dims        []models.Dimension
	term        models.Terminology
	region      string
	locBound    bool
	variationID int
}

func newBuilder(p Profile, budget int) *builder {
	b := &builder{
		p:      p,
		budget: budget,
		seen:   make(map[string]bool),
	}

	b.category = strings.TrimSpace(p.Category)
	if b.category == "" {
		for _, c := range p.Categories {
			if strings.TrimSpace(c) != "" {
				b.category = strings.TrimSpace(c)
				break
			}
		}
	}
	if b.category == "" && p.Enrichment != nil {
		b.category = strings.TrimSpace(p.Enrichment.IndustryType)
	}
	if b.category == "" {
		b.category = "business"
	}

	b.brandRef = disambiguateBrand(p.BrandName, b.category)

	classifyText := strings.Join([]string{
		b.category,
		strings.Join(p.Categories, " "),
		enrichmentIndustry(p.Enrichment),
		p.Description,
	}, " ")
	b.product = classifyProduct(p.Enrichment, classifyText)

	var entry *industryEntry
	if p.Enrichment != nil && p.Enrichment.IndustryType != "" {
		entry = lookupIndustryByName(p.Enrichment.IndustryType)
	}
	if entry == nil {
		entry = classifyIndustry(classifyText)
	}

	switch b.product {
	case models.ProductPhysical:
		b.dims = physicalDims
	case models.ProductSoftware:
		b.dims = softwareDims
	default:
		if entry != nil {
			b.dims = entry.dims
		} else {
			b.dims = genericServiceDims
		}
	}

	b.term = genericTerminology
	if entry != nil {
		b.term = entry.terminology
	}
	if p.Enrichment != nil && p.Enrichment.IndustryTerminology != nil {
		t := p.Enrichment.IndustryTerminology
		if t.Singular != "" {
			b.term.Singular = t.Singular
		}
		if t.Plural != "" {
			b.term.Plural = t.Plural
		}
		if t.Verb != "" {
			b.term.Verb = t.Verb
		}
	}

	if p.Enrichment != nil {
		b.region = strings.TrimSpace(p.Enrichment.DetectedCountry)
		b.locBound = p.Enrichment.IsLocationBound && b.region != ""
	}

	return b
}

func enrichmentIndustry(e *models.EnrichedContext) string {
	if e == nil {
		return ""
	}
	return e.IndustryType
}

// disambiguateBrand qualifies brand names that are common English words or
// very short, so "Budget" becomes "Budget car rental" inside queries.
func disambiguateBrand(brand, category string) string {
	name := strings.TrimSpace(brand)
	if name == "" {
		return name
	}
	if commonWordBrands[strings.ToLower(name)] || utf8.RuneCountInString(name) <= 3 {
		return strings.TrimSpace(name + " " + category)
	}
	return name
}

func (b *builder) full() bool { return len(b.queries) >= b.budget }

// add cleans, de-duplicates, and appends one query, respecting the budget.
func (b *builder) add(text string, dim models.Dimension, group int, custom bool) bool {
	if b.full() {
		return false
	}
	cleaned := cleanQuery(b.expand(text))
	if cleaned == "" {
		return false
	}
	key := strings.ToLower(cleaned)
	if b.seen[key] {
		return false
	}
	b.seen[key] = true
	b.queries = append(b.queries, models.TaggedQuery{
		Text:           cleaned,
		Dimension:      dim,
		VariationGroup: group,
		IsCustom:       custom,
	})
	return true
}

func (b *builder) expand(tmpl string) string {
	r := strings.NewReplacer(
		"{brand}", b.brandRef,
		"{category}", b.category,
		"{singular}", b.term.Singular,
		"{plural}", b.term.Plural,
		"{verb}", b.term.Verb,
		"{region}", b.region,
	)
	return r.Replace(tmpl)
}

// addPriorityQueries emits the three queries every scan starts with:
// brand knowledge, best-in-category, and a head-to-head comparison.
func (b *builder) addPriorityQueries() {
	b.add("What do you know about {brand}?", models.DimGeneral, 0, false)

	if b.locBound {
		b.add("What is the best {category} {singular} in {region}?", models.DimQuality, 0, false)
	} else {
		b.add("What is the best {category} {singular}?", models.DimQuality, 0, false)
	}

	if comp := firstNonEmpty(b.p.Competitors); comp != "" {
		b.add(fmt.Sprintf("%s vs %s: which is better?", b.brandRef, comp), models.DimComparison, 0, false)
	} else {
		b.add("What are the best alternatives to {brand}?", models.DimComparison, 0, false)
	}
}

func (b *builder) addCustomQueries() {
	count := 0
	for _, q := range b.p.CustomQueries {
		if count >= 2 {
			break
		}
		if strings.TrimSpace(q) == "" {
			continue
		}
		if b.add(q, models.DimGeneral, 0, true) {
			count++
		}
	}
}

func (b *builder) addLocationQueries() {
	if !b.locBound {
		return
	}
	locationQueries := []struct {
		text string
		dim  models.Dimension
	}{
		{"What are the top {category} {plural} in {region}?", models.DimLocation},
		{"Which {category} {singular} do people in {region} recommend?", models.DimLocation},
		{"What are the best {category} options available in {region}?", models.DimCoverage},
		{"Who offers the best {category} service in {region}?", models.DimQuality},
	}
	for _, lq := range locationQueries {
		b.add(lq.text, lq.dim, 0, false)
	}
}

// addCategoryQueries covers user-supplied search categories that the primary
// category does not already imply, two queries each.
func (b *builder) addCategoryQueries() {
	primary := strings.ToLower(b.category)
	for _, cat := range b.p.Categories {
		cat = strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		lower := strings.ToLower(cat)
		if lower == primary || strings.Contains(primary, lower) || strings.Contains(lower, primary) {
			continue
		}
		b.add(fmt.Sprintf("What is the best %s?", cat), models.DimQuality, 0, false)
		b.add(fmt.Sprintf("Which %s %s are worth considering?", cat, b.term.Plural), models.DimReputation, 0, false)
	}
}

// addVariationQueries emits paraphrase groups for elevated budgets; answers
// inside a group measure how sensitive visibility is to wording.
func (b *builder) addVariationQueries() {
	groups := [][]struct {
		text string
		dim  models.Dimension
	}{
		{
			{"What is the single best {category} {singular} right now?", models.DimQuality},
			{"If you had to pick one {category} {singular}, which would it be?", models.DimQuality},
			{"Which {category} {singular} tops your list?", models.DimQuality},
		},
		{
			{"Which {category} {singular} would you recommend?", models.DimReputation},
			{"What {category} {singular} should I go with?", models.DimReputation},
			{"Which {category} {singular} is the safest bet?", models.DimReputation},
		},
		{
			{"Which {category} {plural} are the most trustworthy?", models.DimReputation},
			{"Which {category} {plural} can I rely on?", models.DimReputation},
			{"Which {category} {plural} have earned the most trust?", models.DimReputation},
		},
		{
			{"How does {brand} compare to other {category} {plural}?", models.DimComparison},
			{"Is {brand} better than its competitors?", models.DimComparison},
			{"Where does {brand} rank among {category} {plural}?", models.DimComparison},
		},
	}
	for _, group := range groups {
		// A partial group is useless for consistency measurement.
		if b.budget-len(b.queries) < len(group) {
			return
		}
		b.variationID++
		for _, q := range group {
			b.add(q.text, q.dim, b.variationID, false)
		}
	}
}

// addContextualQueries derives queries from the enrichment payload and the
// free-text description: use cases, audience, and feature terms.
func (b *builder) addContextualQueries() {
	e := b.p.Enrichment
	if e != nil {
		for i, uc := range e.UseCases {
			if i >= 2 {
				break
			}
			if strings.TrimSpace(uc) == "" {
				continue
			}
			b.add(fmt.Sprintf("What is the best {category} {singular} for %s?", strings.TrimSpace(uc)), models.DimFeatures, 0, false)
		}
		if aud := firstNonEmpty(e.TargetAudience); aud != "" {
			b.add(fmt.Sprintf("Which {category} {plural} do %s prefer?", aud), models.DimReputation, 0, false)
		}
		count := 0
		for _, f := range append(append([]string{}, e.ExtractedFeatures...), e.ExtractedKeywords...) {
			if count >= 2 {
				break
			}
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if b.add(fmt.Sprintf("Who offers the best %s?", f), models.DimFeatures, 0, false) {
				count++
			}
		}
	}
	for _, term := range salientTerms(b.p.Description, 2) {
		b.add(fmt.Sprintf("What is the best {category} {singular} for %s?", term), models.DimFeatures, 0, false)
	}
}

// addEnhancedQueries adds elevated-tier diversity queries.
func (b *builder) addEnhancedQueries() {
	enhanced := []struct {
		text string
		dim  models.Dimension
	}{
		{"What do industry experts recommend for {category}?", models.DimReputation},
		{"Which {category} {singular} gives the best return on investment?", models.DimPrice},
		{"How should I decide between {category} {plural}?", models.DimGeneral},
		{"Which {category} {plural} are gaining the most momentum?", models.DimGeneral},
	}
	for _, q := range enhanced {
		b.add(q.text, q.dim, 0, false)
	}
}

// fillDimensionQueries guarantees every dimension in the set is represented,
// then tops up to the exact budget.
func (b *builder) fillDimensionQueries() {
	covered := make(map[models.Dimension]bool)
	for _, q := range b.queries {
		covered[q.Dimension] = true
	}

	for _, dim := range b.dims {
		if b.full() {
			return
		}
		if covered[dim] {
			continue
		}
		for _, tmpl := range dimensionTemplates[dim] {
			if b.add(tmpl, dim, 0, false) {
				break
			}
		}
	}

	// Second pass: remaining templates for the dimension set.
	for _, dim := range b.dims {
		for _, tmpl := range dimensionTemplates[dim] {
			if b.full() {
				return
			}
			b.add(tmpl, dim, 0, false)
		}
	}

	for _, f := range fillerTemplates {
		if b.full() {
			return
		}
		b.add(f.text, f.dim, 0, false)
	}

	// Unbounded tail for very large budgets.
	for n := 3; !b.full(); n++ {
		b.add(fmt.Sprintf("What are the top %d {category} {plural}?", n), models.DimGeneral, 0, false)
	}
}

func firstNonEmpty(items []string) string {
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

var descriptionStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "their": true, "your": true, "our": true,
	"are": true, "was": true, "has": true, "have": true, "will": true,
	"can": true, "all": true, "its": true, "into": true, "more": true,
	"most": true, "other": true, "also": true, "than": true, "when": true,
	"where": true, "which": true, "while": true, "about": true,
	"offers": true, "provides": true, "company": true, "service": true,
	"services": true, "customers": true, "business": true, "helps": true,
	"based": true, "leading": true, "best": true, "every": true,
}

// salientTerms pulls up to max distinctive long words out of the free-text
// description, in order of appearance.
func salientTerms(description string, max int) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(description)) {
		w = trimPunct(w)
		if utf8.RuneCountInString(w) < 7 || descriptionStopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
		if len(terms) >= max {
			break
		}
	}
	return terms
}
