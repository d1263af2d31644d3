package catalog

import "postforge/internal/core"

// Post schema identifiers. The long variants share instruction text with
// their short counterparts; only the length guidance in the generation prompt
// differs.
const (
	SchemaInformative     = "informative"
	SchemaExperience      = "experience"
	SchemaCuriosity       = "curiosity"
	SchemaDefault         = "default"
	SchemaLongInformative = "long-informative"
	SchemaLongExperience  = "long-experience"
	SchemaLongCuriosity   = "long-curiosity"
)

var schemas = []core.PostSchemaTemplate{
	{
		ID:          SchemaInformative,
		Name:        "Informative",
		Description: "Educational content that shares knowledge, insights, and industry trends",
	},
	{
		ID:          SchemaExperience,
		Name:        "Experience",
		Description: "Personal stories, lessons learned, and professional experiences",
	},
	{
		ID:          SchemaCuriosity,
		Name:        "Curiosity",
		Description: "Thought-provoking questions, polls, and conversation starters",
	},
	{
		ID:          SchemaDefault,
		Name:        "Default",
		Description: "Balanced content with a mix of information and engagement",
	},
	{
		ID:          SchemaLongInformative,
		Name:        "Long Informative",
		Description: "In-depth educational content with detailed analysis, data, and actionable insights",
	},
	{
		ID:          SchemaLongExperience,
		Name:        "Long Experience",
		Description: "Extended personal stories or case studies with comprehensive lessons and reflections",
	},
	{
		ID:          SchemaLongCuriosity,
		Name:        "Long Curiosity",
		Description: "Deep-dive questions, explorations, or debates to spark extended discussion and engagement",
	},
}

const informativeInstructions = `Use an informative tone. Focus on educating the audience with valuable insights, data, and industry knowledge.
Include facts, statistics, or research findings when relevant.
Structure the post to clearly communicate key points and takeaways.
End with a thought-provoking question or call to action for readers to learn more.`

const experienceInstructions = `Use a personal, storytelling tone. Share experiences, lessons learned, or professional journey insights.
Start with a compelling hook about a personal challenge or achievement.
Include specific details that make the story authentic and relatable.
End with the key lesson or insight gained from the experience.`

const curiosityInstructions = `Use a curious, thought-provoking tone. Focus on asking interesting questions or presenting surprising perspectives.
Start with a thought-provoking question or surprising statement.
Present information that challenges conventional wisdom or offers a new perspective.
End by inviting readers to share their thoughts or experiences on the topic.`

const defaultInstructions = `Use a balanced, professional tone that combines information with engagement.
Include both factual information and personal perspective.
Structure the post to be clear, concise, and engaging.
End with either a question, call to action, or key takeaway.`

var schemaInstructions = map[string]string{
	SchemaInformative:     informativeInstructions,
	SchemaLongInformative: informativeInstructions,
	SchemaExperience:      experienceInstructions,
	SchemaLongExperience:  experienceInstructions,
	SchemaCuriosity:       curiosityInstructions,
	SchemaLongCuriosity:   curiosityInstructions,
	SchemaDefault:         defaultInstructions,
}

// Schemas returns all post schema templates.
func Schemas() []core.PostSchemaTemplate {
	out := make([]core.PostSchemaTemplate, len(schemas))
	copy(out, schemas)
	return out
}

// SchemaInstructions resolves a schema id to its style-instruction block.
// Unknown ids fall back to the default instructions.
func SchemaInstructions(id string) string {
	if instructions, ok := schemaInstructions[id]; ok {
		return instructions
	}
	return defaultInstructions
}

// IsLongSchema reports whether the schema asks for long-form content. Long
// schemas only change the word-count guidance given to the model.
func IsLongSchema(id string) bool {
	switch id {
	case SchemaLongInformative, SchemaLongExperience, SchemaLongCuriosity:
		return true
	}
	return false
}
