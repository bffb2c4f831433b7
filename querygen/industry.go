package querygen

import (
	"strings"

	"visibility-scan-pipeline/models"
)

// Industry-specific dimensions. Generic dimensions live in models; these
// only ever appear on queries generated from the industry tables below.
const (
	DimClaimsProcess     models.Dimension = "claims_process"
	DimCoverageOptions   models.Dimension = "coverage_options"
	DimRates             models.Dimension = "rates"
	DimCustomerService   models.Dimension = "customer_service"
	DimFleetQuality      models.Dimension = "fleet_quality"
	DimPickupConvenience models.Dimension = "pickup_convenience"
	DimFees              models.Dimension = "fees"
	DimRewards           models.Dimension = "rewards"
	DimApprovalProcess   models.Dimension = "approval_process"
	DimReturns           models.Dimension = "returns"
	DimExpertise         models.Dimension = "expertise"
	DimCaseResults       models.Dimension = "case_results"
	DimResponsiveness    models.Dimension = "responsiveness"
	DimLocalKnowledge    models.Dimension = "local_knowledge"
	DimListings          models.Dimension = "listings"
	DimRoomQuality       models.Dimension = "room_quality"
	DimAmenities         models.Dimension = "amenities"
	DimPunctuality       models.Dimension = "punctuality"
	DimRoutes            models.Dimension = "routes"
	DimItineraries       models.Dimension = "itineraries"
	DimMenuQuality       models.Dimension = "menu_quality"
	DimAmbiance          models.Dimension = "ambiance"
	DimDeliverySpeed     models.Dimension = "delivery_speed"
	DimSelection         models.Dimension = "selection"
	DimFreshness         models.Dimension = "freshness"
	DimClassVariety      models.Dimension = "class_variety"
	DimTrainers          models.Dimension = "trainers"
	DimResults           models.Dimension = "results"
	DimHygiene           models.Dimension = "hygiene"
	DimTreatmentQuality  models.Dimension = "treatment_quality"
	DimAppointmentEase   models.Dimension = "appointment_ease"
	DimCareQuality       models.Dimension = "care_quality"
	DimCurriculum        models.Dimension = "curriculum"
	DimInstructors       models.Dimension = "instructors"
	DimSafety            models.Dimension = "safety"
	DimThoroughness      models.Dimension = "thoroughness"
	DimScheduling        models.Dimension = "scheduling"
	DimReliability       models.Dimension = "reliability"
	DimWorkmanship       models.Dimension = "workmanship"
	DimTransparency      models.Dimension = "transparency"
	DimInventory         models.Dimension = "inventory"
	DimNetworkCoverage   models.Dimension = "network_coverage"
	DimPlans             models.Dimension = "plans"
	DimUptime            models.Dimension = "uptime"
	DimSupport           models.Dimension = "support"
	DimCampaignResults   models.Dimension = "campaign_results"
	DimCreativity        models.Dimension = "creativity"
	DimCandidateQuality  models.Dimension = "candidate_quality"
	DimSpeed             models.Dimension = "speed"
	DimMonitoring        models.Dimension = "monitoring"
	DimCoordination      models.Dimension = "coordination"
	DimSecurity          models.Dimension = "security"
	DimIntegrations      models.Dimension = "integrations"
)

// industryEntry is one keyword-driven industry bucket. Order in the table is
// the match priority, so classification stays deterministic.
type industryEntry struct {
	name        string
	keywords    []string
	dims        []models.Dimension
	terminology models.Terminology
}

var industryTable = []industryEntry{
	{
		name:        "insurance",
		keywords:    []string{"insurance", "insurer", "underwriting", "policy", "premiums"},
		dims:        []models.Dimension{DimClaimsProcess, DimCoverageOptions, DimRates, DimCustomerService, models.DimReputation, DimTransparency},
		terminology: models.Terminology{Singular: "provider", Plural: "providers", Verb: "choose"},
	},
	{
		name:        "car rental",
		keywords:    []string{"car rental", "rent a car", "rental car", "vehicle hire", "car hire"},
		dims:        []models.Dimension{DimFleetQuality, DimPickupConvenience, DimRates, DimCustomerService, models.DimReputation},
		terminology: models.Terminology{Singular: "company", Plural: "companies", Verb: "book"},
	},
	{
		name:        "banking",
		keywords:    []string{"bank", "banking", "checking account", "savings account", "neobank"},
		dims:        []models.Dimension{DimFees, DimCustomerService, DimSecurity, models.DimEaseOfUse, models.DimReputation, DimRates},
		terminology: models.Terminology{Singular: "bank", Plural: "banks", Verb: "choose"},
	},
	{
		name:        "credit cards",
		keywords:    []string{"credit card", "charge card", "cashback card"},
		dims:        []models.Dimension{DimRewards, DimFees, DimApprovalProcess, DimCustomerService, models.DimReputation},
		terminology: models.Terminology{Singular: "issuer", Plural: "issuers", Verb: "apply for"},
	},
	{
		name:        "mortgages",
		keywords:    []string{"mortgage", "home loan", "refinance", "refinancing"},
		dims:        []models.Dimension{DimRates, DimApprovalProcess, DimFees, DimCustomerService, DimTransparency},
		terminology: models.Terminology{Singular: "lender", Plural: "lenders", Verb: "choose"},
	},
	{
		name:        "investing",
		keywords:    []string{"investing", "investment", "brokerage", "wealth management", "trading platform"},
		dims:        []models.Dimension{DimFees, models.DimPerformance, DimSecurity, models.DimEaseOfUse, models.DimReputation},
		terminology: models.Terminology{Singular: "broker", Plural: "brokers", Verb: "invest with"},
	},
	{
		name:        "accounting",
		keywords:    []string{"accounting", "accountant", "bookkeeping", "tax preparation", "payroll"},
		dims:        []models.Dimension{DimExpertise, DimResponsiveness, DimRates, DimThoroughness, models.DimReputation},
		terminology: models.Terminology{Singular: "firm", Plural: "firms", Verb: "hire"},
	},
	{
		name:        "legal",
		keywords:    []string{"law firm", "lawyer", "attorney", "legal services", "litigation"},
		dims:        []models.Dimension{DimExpertise, DimCaseResults, DimResponsiveness, DimRates, models.DimReputation},
		terminology: models.Terminology{Singular: "firm", Plural: "firms", Verb: "hire"},
	},
	{
		name:        "real estate",
		keywords:    []string{"real estate", "realtor", "property management", "estate agent", "lettings"},
		dims:        []models.Dimension{DimLocalKnowledge, DimListings, DimResponsiveness, DimRates, models.DimReputation},
		terminology: models.Terminology{Singular: "agency", Plural: "agencies", Verb: "work with"},
	},
	{
		name:        "hotels",
		keywords:    []string{"hotel", "resort", "hostel", "bed and breakfast", "accommodation"},
		dims:        []models.Dimension{DimRoomQuality, DimAmenities, models.DimLocation, DimRates, DimCustomerService},
		terminology: models.Terminology{Singular: "hotel", Plural: "hotels", Verb: "book"},
	},
	{
		name:        "airlines",
		keywords:    []string{"airline", "flights", "air travel", "carrier"},
		dims:        []models.Dimension{DimPunctuality, DimRoutes, models.DimComfort, DimRates, DimCustomerService},
		terminology: models.Terminology{Singular: "airline", Plural: "airlines", Verb: "fly with"},
	},
	{
		name:        "travel",
		keywords:    []string{"travel agency", "tour operator", "tours", "vacation packages", "travel booking"},
		dims:        []models.Dimension{DimItineraries, DimRates, DimCustomerService, DimLocalKnowledge, models.DimReputation},
		terminology: models.Terminology{Singular: "agency", Plural: "agencies", Verb: "book with"},
	},
	{
		name:        "restaurants",
		keywords:    []string{"restaurant", "dining", "bistro", "eatery", "cuisine"},
		dims:        []models.Dimension{DimMenuQuality, DimAmbiance, DimRates, models.DimLocation, models.DimReputation},
		terminology: models.Terminology{Singular: "restaurant", Plural: "restaurants", Verb: "try"},
	},
	{
		name:        "food delivery",
		keywords:    []string{"food delivery", "meal delivery", "meal kit", "takeout delivery"},
		dims:        []models.Dimension{DimDeliverySpeed, DimSelection, DimFreshness, DimFees, DimCustomerService},
		terminology: models.Terminology{Singular: "service", Plural: "services", Verb: "order from"},
	},
	{
		name:        "groceries",
		keywords:    []string{"grocery", "supermarket", "grocer", "organic food store"},
		dims:        []models.Dimension{DimSelection, DimFreshness, models.DimPrice, models.DimLocation, DimCustomerService},
		terminology: models.Terminology{Singular: "store", Plural: "stores", Verb: "shop at"},
	},
	{
		name:        "fitness",
		keywords:    []string{"gym", "fitness", "personal training", "yoga studio", "crossfit"},
		dims:        []models.Dimension{DimClassVariety, DimTrainers, DimResults, DimRates, DimHygiene},
		terminology: models.Terminology{Singular: "gym", Plural: "gyms", Verb: "join"},
	},
	{
		name:        "beauty",
		keywords:    []string{"salon", "spa", "barber", "hairdresser", "nail studio"},
		dims:        []models.Dimension{DimTreatmentQuality, DimHygiene, DimAppointmentEase, DimRates, models.DimReputation},
		terminology: models.Terminology{Singular: "salon", Plural: "salons", Verb: "book"},
	},
	{
		name:        "healthcare",
		keywords:    []string{"clinic", "medical", "healthcare", "hospital", "telehealth", "physician"},
		dims:        []models.Dimension{DimCareQuality, DimAppointmentEase, DimExpertise, DimResponsiveness, models.DimReputation},
		terminology: models.Terminology{Singular: "provider", Plural: "providers", Verb: "see"},
	},
	{
		name:        "dental",
		keywords:    []string{"dentist", "dental", "orthodontist", "orthodontics"},
		dims:        []models.Dimension{DimCareQuality, DimAppointmentEase, DimRates, DimHygiene, models.DimReputation},
		terminology: models.Terminology{Singular: "practice", Plural: "practices", Verb: "visit"},
	},
	{
		name:        "veterinary",
		keywords:    []string{"vet", "veterinary", "pet care", "animal hospital", "pet grooming"},
		dims:        []models.Dimension{DimCareQuality, DimResponsiveness, DimRates, models.DimReputation, DimAppointmentEase},
		terminology: models.Terminology{Singular: "clinic", Plural: "clinics", Verb: "take your pet to"},
	},
	{
		name:        "education",
		keywords:    []string{"course", "school", "tutoring", "bootcamp", "university", "e-learning"},
		dims:        []models.Dimension{DimCurriculum, DimInstructors, DimResults, DimRates, models.DimReputation},
		terminology: models.Terminology{Singular: "program", Plural: "programs", Verb: "enroll in"},
	},
	{
		name:        "childcare",
		keywords:    []string{"childcare", "daycare", "nursery", "preschool", "nanny"},
		dims:        []models.Dimension{DimSafety, DimCareQuality, DimCurriculum, DimRates, models.DimReputation},
		terminology: models.Terminology{Singular: "center", Plural: "centers", Verb: "trust"},
	},
	{
		name:        "cleaning",
		keywords:    []string{"cleaning service", "maid service", "housekeeping", "janitorial"},
		dims:        []models.Dimension{DimThoroughness, DimReliability, DimRates, DimScheduling, DimSafety},
		terminology: models.Terminology{Singular: "service", Plural: "services", Verb: "hire"},
	},
	{
		name:        "moving",
		keywords:    []string{"moving company", "movers", "relocation", "removals"},
		dims:        []models.Dimension{DimReliability, DimRates, DimSafety, DimPunctuality, models.DimReputation},
		terminology: models.Terminology{Singular: "company", Plural: "companies", Verb: "hire"},
	},
	{
		name:        "home services",
		keywords:    []string{"plumber", "plumbing", "electrician", "hvac", "handyman", "roofing"},
		dims:        []models.Dimension{DimWorkmanship, DimResponsiveness, DimRates, DimReliability, DimTransparency},
		terminology: models.Terminology{Singular: "contractor", Plural: "contractors", Verb: "hire"},
	},
	{
		name:        "landscaping",
		keywords:    []string{"landscaping", "lawn care", "gardening service", "tree service"},
		dims:        []models.Dimension{DimWorkmanship, DimReliability, DimRates, DimScheduling, models.DimReputation},
		terminology: models.Terminology{Singular: "company", Plural: "companies", Verb: "hire"},
	},
	{
		name:        "auto repair",
		keywords:    []string{"auto repair", "mechanic", "car service", "tire shop", "body shop"},
		dims:        []models.Dimension{DimWorkmanship, DimTransparency, DimRates, DimSpeed, models.DimReputation},
		terminology: models.Terminology{Singular: "shop", Plural: "shops", Verb: "trust"},
	},
	{
		name:        "car dealerships",
		keywords:    []string{"dealership", "car dealer", "used cars", "auto sales"},
		dims:        []models.Dimension{DimInventory, DimTransparency, DimRates, DimCustomerService, models.DimReputation},
		terminology: models.Terminology{Singular: "dealer", Plural: "dealers", Verb: "buy from"},
	},
	{
		name:        "logistics",
		keywords:    []string{"logistics", "freight", "shipping", "courier", "last mile"},
		dims:        []models.Dimension{DimReliability, DimSpeed, DimRates, models.DimCoverage, DimCustomerService},
		terminology: models.Terminology{Singular: "carrier", Plural: "carriers", Verb: "ship with"},
	},
	{
		name:        "telecom",
		keywords:    []string{"telecom", "mobile carrier", "broadband", "internet provider", "isp"},
		dims:        []models.Dimension{DimNetworkCoverage, DimPlans, DimRates, DimCustomerService, DimReliability},
		terminology: models.Terminology{Singular: "carrier", Plural: "carriers", Verb: "switch to"},
	},
	{
		name:        "energy",
		keywords:    []string{"energy supplier", "electricity", "utility", "solar installer", "gas supplier"},
		dims:        []models.Dimension{DimRates, DimReliability, DimCustomerService, DimTransparency, models.DimReputation},
		terminology: models.Terminology{Singular: "supplier", Plural: "suppliers", Verb: "switch to"},
	},
	{
		name:        "web hosting",
		keywords:    []string{"hosting", "web host", "vps", "cloud hosting", "domain registrar"},
		dims:        []models.Dimension{DimUptime, DimSupport, models.DimPerformance, models.DimPrice, DimSecurity},
		terminology: models.Terminology{Singular: "host", Plural: "hosts", Verb: "host with"},
	},
	{
		name:        "cybersecurity",
		keywords:    []string{"cybersecurity", "security monitoring", "penetration testing", "antivirus", "soc"},
		dims:        []models.Dimension{DimSecurity, DimMonitoring, DimResponsiveness, DimExpertise, models.DimReputation},
		terminology: models.Terminology{Singular: "vendor", Plural: "vendors", Verb: "trust"},
	},
	{
		name:        "marketing",
		keywords:    []string{"marketing agency", "seo agency", "advertising agency", "digital marketing", "branding agency"},
		dims:        []models.Dimension{DimCampaignResults, DimCreativity, DimRates, DimResponsiveness, DimExpertise},
		terminology: models.Terminology{Singular: "agency", Plural: "agencies", Verb: "hire"},
	},
	{
		name:        "recruitment",
		keywords:    []string{"recruitment", "staffing", "headhunter", "talent acquisition", "recruiting agency"},
		dims:        []models.Dimension{DimCandidateQuality, DimSpeed, DimExpertise, DimRates, models.DimReputation},
		terminology: models.Terminology{Singular: "agency", Plural: "agencies", Verb: "work with"},
	},
	{
		name:        "events",
		keywords:    []string{"event planning", "wedding planner", "catering", "event management"},
		dims:        []models.Dimension{DimCoordination, DimCreativity, DimRates, DimReliability, models.DimReputation},
		terminology: models.Terminology{Singular: "planner", Plural: "planners", Verb: "hire"},
	},
	{
		name:        "saas",
		keywords:    []string{"saas", "crm", "erp system", "b2b software", "workflow automation"},
		dims:        []models.Dimension{models.DimFeatures, DimIntegrations, DimSupport, models.DimPrice, models.DimReputation},
		terminology: models.Terminology{Singular: "tool", Plural: "tools", Verb: "adopt"},
	},
}

// classifyIndustry returns the first industry bucket whose keywords appear in
// the text, or nil when nothing matches.
func classifyIndustry(text string) *industryEntry {
	t := strings.ToLower(text)
	for i := range industryTable {
		for _, kw := range industryTable[i].keywords {
			if strings.Contains(t, kw) {
				return &industryTable[i]
			}
		}
	}
	return nil
}

// lookupIndustryByName resolves an externally supplied industry label against
// the table (exact or keyword match), so enrichment can pin the bucket.
func lookupIndustryByName(name string) *industryEntry {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return nil
	}
	for i := range industryTable {
		if industryTable[i].name == n {
			return &industryTable[i]
		}
	}
	return classifyIndustry(n)
}

// Product type lexicons, matched in priority order: physical beats software
// beats service.
var physicalKeywords = []string{
	"shoes", "sneaker", "clothing", "apparel", "fashion", "furniture",
	"mattress", "jewelry", "watch", "bag", "backpack", "luggage",
	"eyewear", "glasses", "cosmetics", "skincare", "makeup", "perfume",
	"coffee bean", "snack", "beverage", "drink", "supplement",
	"equipment", "appliance", "hardware device", "gadget", "headphones",
	"bicycle", "bike", "scooter", "toy", "tool kit", "outdoor gear",
	"footwear", "accessories", "candle", "stationery",
}

var softwareKeywords = []string{
	"software", "saas", "app", "platform", "api", "crm", "erp",
	"analytics", "automation", "cloud", "cms", "plugin", "dashboard",
	"developer tool", "database", "ai assistant", "machine learning",
	"scheduling tool", "project management", "productivity tool",
	"integration", "no-code", "low-code", "devops", "observability",
}

var serviceKeywordsHint = []string{
	"service", "agency", "consulting", "firm", "studio", "clinic",
	"repair", "rental", "delivery", "training", "coaching", "salon",
	"insurance", "legal", "accounting", "cleaning", "moving",
}

// classifyProduct prefers the externally supplied classification, then falls
// back to the keyword lexicons, defaulting to service.
func classifyProduct(enriched *models.EnrichedContext, text string) models.ProductType {
	if enriched != nil {
		switch models.ProductType(strings.ToLower(enriched.ProductType)) {
		case models.ProductPhysical:
			return models.ProductPhysical
		case models.ProductSoftware:
			return models.ProductSoftware
		case models.ProductService:
			return models.ProductService
		}
	}
	t := strings.ToLower(text)
	for _, kw := range physicalKeywords {
		if strings.Contains(t, kw) {
			return models.ProductPhysical
		}
	}
	for _, kw := range softwareKeywords {
		if strings.Contains(t, kw) {
			return models.ProductSoftware
		}
	}
	return models.ProductService
}

var physicalDims = []models.Dimension{
	models.DimQuality, models.DimStyle, models.DimComfort,
	models.DimDurability, models.DimPrice, models.DimReputation,
}

var softwareDims = []models.Dimension{
	models.DimQuality, models.DimFeatures, models.DimPerformance,
	models.DimEaseOfUse, models.DimPrice, models.DimReputation,
}

// genericServiceDims is the fallback when no industry bucket matches.
var genericServiceDims = []models.Dimension{
	models.DimQuality, DimReliability, models.DimPrice,
	DimCustomerService, models.DimReputation,
}

// genericTerminology is the last-resort triple for unmatched industries.
var genericTerminology = models.Terminology{Singular: "service", Plural: "companies", Verb: "hire"}
