package querygen

import "visibility-scan-pipeline/models"

// dimensionTemplates supplies category-level questions for every dimension.
// The first template per dimension is used to guarantee coverage; the rest
// top up the budget. Placeholders: {brand}, {category}, {singular},
// {plural}, {verb}, {region}.
var dimensionTemplates = map[models.Dimension][]string{
	models.DimGeneral: {
		"What should I know before choosing a {category} {singular}?",
		"Who are the main players in the {category} market?",
	},
	models.DimQuality: {
		"Which {category} {plural} offer the best overall quality?",
		"What is the highest quality {category} {singular} available?",
	},
	models.DimPrice: {
		"Which {category} {plural} offer the best value for money?",
		"What are the most affordable {category} options?",
	},
	models.DimReputation: {
		"Which {category} {plural} have the best reputation?",
		"Which {category} {plural} do customers trust the most?",
	},
	models.DimStyle: {
		"Which {category} brands are known for great design and style?",
		"Who makes the most stylish {category}?",
	},
	models.DimComfort: {
		"Which {category} brands are the most comfortable?",
		"What {category} is best known for comfort?",
	},
	models.DimDurability: {
		"Which {category} brands last the longest?",
		"What is the most durable {category} you can buy?",
	},
	models.DimFeatures: {
		"Which {category} {plural} have the most complete feature set?",
		"What {category} {singular} offers the best features?",
	},
	models.DimPerformance: {
		"Which {category} {plural} perform the best?",
		"What is the fastest and most reliable {category} {singular}?",
	},
	models.DimEaseOfUse: {
		"Which {category} {plural} are the easiest to use?",
		"What {category} {singular} has the best user experience?",
	},
	models.DimCoverage: {
		"Which {category} {plural} have the widest coverage?",
		"Who covers the most ground in {category}?",
	},
	models.DimLocation: {
		"What are the best {category} options near me?",
		"Which local {category} {plural} are worth considering?",
	},
	models.DimComparison: {
		"How do the leading {category} {plural} compare?",
		"What are the main differences between popular {category} {plural}?",
	},
	DimClaimsProcess: {
		"Which {category} {plural} handle claims most smoothly?",
		"Who has the fastest claims process for {category}?",
	},
	DimCoverageOptions: {
		"Which {category} {plural} offer the most flexible coverage options?",
		"Who offers the broadest {category} coverage?",
	},
	DimRates: {
		"Which {category} {plural} offer the most competitive rates?",
		"Who has the best prices for {category}?",
	},
	DimCustomerService: {
		"Which {category} {plural} have the best customer service?",
		"Who is known for outstanding support in {category}?",
	},
	DimFleetQuality: {
		"Which {category} {plural} have the newest and best maintained vehicles?",
		"Whose fleet is the most reliable for {category}?",
	},
	DimPickupConvenience: {
		"Which {category} {plural} make pickup and drop-off easiest?",
		"Who offers the most convenient locations for {category}?",
	},
	DimFees: {
		"Which {category} {plural} charge the lowest fees?",
		"Who is most upfront about fees in {category}?",
	},
	DimRewards: {
		"Which {category} {plural} offer the best rewards?",
		"Whose rewards program is the most generous for {category}?",
	},
	DimApprovalProcess: {
		"Which {category} {plural} have the simplest approval process?",
		"Who approves {category} applications fastest?",
	},
	DimExpertise: {
		"Which {category} {plural} have the deepest expertise?",
		"Who are the most experienced {category} {plural}?",
	},
	DimCaseResults: {
		"Which {category} {plural} have the strongest track record of results?",
		"Who wins the most cases in {category}?",
	},
	DimResponsiveness: {
		"Which {category} {plural} respond the fastest?",
		"Who is the most responsive {category} {singular}?",
	},
	DimLocalKnowledge: {
		"Which {category} {plural} know the local market best?",
		"Who has the strongest local presence in {category}?",
	},
	DimListings: {
		"Which {category} {plural} have the best listings?",
		"Who has the widest selection of {category} listings?",
	},
	DimRoomQuality: {
		"Which {plural} have the best rooms?",
		"Where are the nicest rooms for {category}?",
	},
	DimAmenities: {
		"Which {plural} offer the best amenities?",
		"Who has the most complete amenities in {category}?",
	},
	DimPunctuality: {
		"Which {plural} are the most punctual?",
		"Who is the most dependable on timing in {category}?",
	},
	DimRoutes: {
		"Which {plural} fly the most useful routes?",
		"Who has the best route network in {category}?",
	},
	DimItineraries: {
		"Which {category} {plural} design the best itineraries?",
		"Who plans the most memorable {category} trips?",
	},
	DimMenuQuality: {
		"Which {plural} have the best menu?",
		"Where is the best food in {category}?",
	},
	DimAmbiance: {
		"Which {plural} have the best atmosphere?",
		"Where is the best ambiance for {category}?",
	},
	DimDeliverySpeed: {
		"Which {category} {plural} deliver the fastest?",
		"Who has the quickest delivery for {category}?",
	},
	DimSelection: {
		"Which {category} {plural} have the widest selection?",
		"Who offers the most choice in {category}?",
	},
	DimFreshness: {
		"Which {category} {plural} have the freshest products?",
		"Who is known for freshness in {category}?",
	},
	DimClassVariety: {
		"Which {plural} offer the widest variety of classes?",
		"Who has the best class schedule for {category}?",
	},
	DimTrainers: {
		"Which {plural} have the best trainers?",
		"Where are the most qualified {category} trainers?",
	},
	DimResults: {
		"Which {category} {plural} deliver the best results?",
		"Who gets clients the best outcomes in {category}?",
	},
	DimHygiene: {
		"Which {plural} have the highest hygiene standards?",
		"Who is the cleanest {category} {singular}?",
	},
	DimTreatmentQuality: {
		"Which {plural} deliver the best treatments?",
		"Where is the best treatment quality for {category}?",
	},
	DimAppointmentEase: {
		"Which {plural} make booking appointments easiest?",
		"Who has the shortest wait for {category} appointments?",
	},
	DimCareQuality: {
		"Which {plural} provide the best care?",
		"Who delivers the highest standard of {category} care?",
	},
	DimCurriculum: {
		"Which {category} {plural} have the strongest curriculum?",
		"Whose {category} curriculum is the most up to date?",
	},
	DimInstructors: {
		"Which {category} {plural} have the best instructors?",
		"Where are the most experienced {category} instructors?",
	},
	DimSafety: {
		"Which {category} {plural} have the best safety record?",
		"Who takes safety most seriously in {category}?",
	},
	DimThoroughness: {
		"Which {category} {plural} are the most thorough?",
		"Who does the most meticulous {category} work?",
	},
	DimScheduling: {
		"Which {category} {plural} are the most flexible with scheduling?",
		"Who makes scheduling easiest for {category}?",
	},
	DimReliability: {
		"Which {category} {plural} are the most reliable?",
		"Who can you count on most for {category}?",
	},
	DimWorkmanship: {
		"Which {category} {plural} do the best work?",
		"Whose workmanship stands out in {category}?",
	},
	DimTransparency: {
		"Which {category} {plural} are the most transparent about pricing?",
		"Who is the most honest {category} {singular}?",
	},
	DimInventory: {
		"Which {plural} have the best inventory?",
		"Who has the widest {category} inventory?",
	},
	DimNetworkCoverage: {
		"Which {plural} have the best network coverage?",
		"Whose {category} network is the most reliable?",
	},
	DimPlans: {
		"Which {plural} offer the best plans?",
		"Who has the most flexible {category} plans?",
	},
	DimUptime: {
		"Which {category} {plural} have the best uptime?",
		"Who is the most dependable {category} {singular} for uptime?",
	},
	DimSupport: {
		"Which {category} {plural} offer the best technical support?",
		"Whose support team is the most helpful in {category}?",
	},
	DimCampaignResults: {
		"Which {category} {plural} deliver the best campaign results?",
		"Who drives the best return on ad spend in {category}?",
	},
	DimCreativity: {
		"Which {category} {plural} are the most creative?",
		"Whose {category} work is the most original?",
	},
	DimCandidateQuality: {
		"Which {category} {plural} source the best candidates?",
		"Who places the strongest candidates in {category}?",
	},
	DimSpeed: {
		"Which {category} {plural} are the fastest?",
		"Who turns {category} work around quickest?",
	},
	DimMonitoring: {
		"Which {category} {plural} offer the best monitoring?",
		"Whose {category} monitoring is the most comprehensive?",
	},
	DimCoordination: {
		"Which {category} {plural} run the smoothest events?",
		"Who coordinates {category} best?",
	},
	DimSecurity: {
		"Which {category} {plural} are the most secure?",
		"Who has the strongest security in {category}?",
	},
	DimIntegrations: {
		"Which {category} {plural} have the best integrations?",
		"What {category} {singular} connects best with other tools?",
	},
}

// fillerTemplates top up large budgets once every dimension is covered.
var fillerTemplates = []struct {
	text string
	dim  models.Dimension
}{
	{"Which {category} {singular} would you {verb}?", models.DimReputation},
	{"What {category} {plural} are popular right now?", models.DimGeneral},
	{"Which {category} {plural} are best for beginners?", models.DimEaseOfUse},
	{"Which {category} {plural} do professionals prefer?", models.DimReputation},
	{"What mistakes should I avoid when picking a {category} {singular}?", models.DimGeneral},
	{"Which {category} {plural} are underrated?", models.DimGeneral},
	{"Which up-and-coming {category} {plural} should I watch?", models.DimGeneral},
	{"Which {category} {plural} offer the best experience overall?", models.DimQuality},
	{"Which {category} {plural} are worth paying more for?", models.DimPrice},
	{"Who sets the standard in {category}?", models.DimReputation},
}
