package domain

// Domain identifies a specialist knowledge area. Each domain owns at
// most one knowledge index and exactly one specialist configuration.
type Domain string

// The built-in specialist domains.
const (
	DomainGeneral    Domain = "general"
	DomainRealEstate Domain = "real_estate"
	DomainMedical    Domain = "medical"
	DomainAIML       Domain = "ai_ml"
	DomainSales      Domain = "sales"
	DomainEducation  Domain = "education"
)

// SpecialistConfig parameterises one specialist agent. Specialists are
// a data table, not a type hierarchy: one agent implementation reads
// its behaviour from this struct.
type SpecialistConfig struct {
	// Domain is the identifier this specialist answers for.
	Domain Domain

	// DisplayName is the human-readable name.
	DisplayName string

	// Description summarises what the specialist covers.
	Description string

	// SystemPrompt frames every LLM call made on behalf of this
	// specialist. It may be overridden via the prompt store.
	SystemPrompt string

	// Keywords drive the routing heuristic: a query mentioning any of
	// these terms raises this domain's confidence.
	Keywords []string

	// Tools lists the capability names this specialist may invoke.
	// Unknown names are skipped with a warning at dispatch time.
	Tools []string

	// Temperature for generation. Zero means the LLM default.
	Temperature float64

	// Retrieval enables knowledge-index lookups for this specialist.
	// The general specialist has no index and answers from tools alone.
	Retrieval bool
}

// DefaultSpecialists returns the built-in specialist registry, keyed
// in a stable order (the first entry is the fallback domain).
func DefaultSpecialists() []SpecialistConfig {
	return []SpecialistConfig{
		{
			Domain:      DomainGeneral,
			DisplayName: "General Assistant",
			Description: "General queries, weather, calculations, and everyday questions",
			SystemPrompt: "You are a helpful general assistant with access to tools for " +
				"weather, calculations, and the current time. Use a tool result when one " +
				"is provided instead of guessing.",
			Keywords: []string{
				"weather", "temperature", "forecast", "rain", "sunny",
				"calculate", "math", "time", "timezone", "what time",
				"hello", "hi", "how are you", "thank",
			},
			Tools:       []string{"weather", "calculator", "clock"},
			Temperature: 0.7,
			Retrieval:   false,
		},
		{
			Domain:      DomainRealEstate,
			DisplayName: "Real Estate Expert",
			Description: "Property listings, market analysis, and real estate investments",
			SystemPrompt: "You are a real estate expert assistant with deep knowledge of " +
				"property valuation, market trends, investment strategy, and financing. " +
				"Ground your answers in the provided knowledge-base passages.",
			Keywords: []string{
				"property", "house", "apartment", "real estate",
				"mortgage", "rent", "buy house", "sell house", "housing", "valuation",
			},
			Tools:       []string{"weather", "calculator"},
			Temperature: 0.7,
			Retrieval:   true,
		},
		{
			Domain:      DomainMedical,
			DisplayName: "Medical Assistant",
			Description: "Medical information and health-related guidance",
			SystemPrompt: "You are a medical information assistant. Explain symptoms, " +
				"treatments, and wellness topics using the provided knowledge-base " +
				"passages, and always remind users to consult a healthcare professional.",
			Keywords: []string{
				"sick", "ill", "pain", "symptom", "disease", "health",
				"medical", "doctor", "medicine", "treatment", "diagnosis",
			},
			Tools:       []string{"calculator"},
			Temperature: 0.5,
			Retrieval:   true,
		},
		{
			Domain:      DomainAIML,
			DisplayName: "AI/ML Expert",
			Description: "Artificial intelligence and machine learning topics",
			SystemPrompt: "You are an AI/ML expert assistant covering machine learning " +
				"algorithms, deep learning, NLP, and computer vision. Be technical and " +
				"precise, grounded in the provided knowledge-base passages.",
			Keywords: []string{
				"ai", "ml", "machine learning", "neural", "deep learning",
				"model", "algorithm", "training", "dataset", "nlp", "computer vision",
			},
			Tools:       []string{"calculator"},
			Temperature: 0.7,
			Retrieval:   true,
		},
		{
			Domain:      DomainSales,
			DisplayName: "Sales Strategist",
			Description: "Sales strategies, customer relations, and business development",
			SystemPrompt: "You are a sales strategy expert. Advise on sales techniques, " +
				"CRM, lead qualification, metrics, and negotiation, grounded in the " +
				"provided knowledge-base passages.",
			Keywords: []string{
				"sales", "customer", "client", "revenue", "deal",
				"lead", "crm", "pipeline", "quota", "prospect",
			},
			Tools:       []string{"calculator"},
			Temperature: 0.7,
			Retrieval:   true,
		},
		{
			Domain:      DomainEducation,
			DisplayName: "Education Advisor",
			Description: "Educational guidance and learning resources",
			SystemPrompt: "You are an education advisor. Help with learning strategies, " +
				"curriculum planning, study tips, and exam preparation, grounded in the " +
				"provided knowledge-base passages.",
			Keywords: []string{
				"learn", "study", "education", "course", "teach",
				"school", "university", "exam", "homework", "curriculum",
			},
			Tools:       []string{"calculator"},
			Temperature: 0.7,
			Retrieval:   true,
		},
	}
}
