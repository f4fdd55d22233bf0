package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptClassifier asks the LLM to name the best domain for a query.
	// The template expects %s (domain list) and %s (query) placeholders.
	PromptClassifier = "classifier"

	// PromptSynthesis merges several specialist answers into one.
	// The template expects %s (query) and %s (labelled answers) placeholders.
	PromptSynthesis = "synthesis"

	// PromptToolArgs asks the LLM to extract tool arguments from a query.
	// The template expects %s (tool schema) and %s (query) placeholders.
	PromptToolArgs = "tool_args"
)

// SpecialistPromptName returns the prompt-store key for overriding one
// specialist's system prompt, e.g. "specialist_medical".
func SpecialistPromptName(domain string) string {
	return "specialist_" + domain
}
