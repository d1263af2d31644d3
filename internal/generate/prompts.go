package generate

import (
	"fmt"
	"strings"

	"postforge/internal/catalog"
	"postforge/internal/core"
)

// Profile fallbacks used when a field is empty, so prompts always carry a
// plausible persona.
const (
	fallbackCareer    = "technology"
	fallbackInterests = "professional development"
	fallbackIdeals    = "innovation and growth"
)

func careerOrDefault(p core.UserProfile) string {
	if p.Career != "" {
		return p.Career
	}
	return fallbackCareer
}

func interestsOrDefault(p core.UserProfile) string {
	if p.Interests != "" {
		return p.Interests
	}
	return fallbackInterests
}

func idealsOrDefault(p core.UserProfile) string {
	if p.Ideals != "" {
		return p.Ideals
	}
	return fallbackIdeals
}

func langOrDefault(p core.UserProfile) string {
	if p.Lang != "" {
		return core.LangName(p.Lang)
	}
	return core.LangName("en")
}

// wordGuidance returns the per-post length guidance for a schema. Long schema
// variants differ from their short counterparts only here.
func wordGuidance(schemaID string) string {
	if catalog.IsLongSchema(schemaID) {
		return "600-1200 words"
	}
	return "150-600 words"
}

func topicsPrompt(profile core.UserProfile, referencesContent, extraInstructions string, amount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Generate %d trending and relevant professional topics for a LinkedIn post.
The user works in %s.
Their interests include: %s.
Their professional values include: %s.
`, amount, careerOrDefault(profile), interestsOrDefault(profile), idealsOrDefault(profile))

	if referencesContent != "" {
		fmt.Fprintf(&b, "\nHere is content from reference links that should inform the topics:\n%s\n", referencesContent)
	}
	if extraInstructions != "" {
		fmt.Fprintf(&b, "\nFollow these extra instructions if provided:\n%s\n", extraInstructions)
	}

	fmt.Fprintf(&b, `
For each topic, provide:
1. A concise title (5-7 words)
2. A brief description (1-2 sentences)

The title and description language should be %s.
Format the response as a JSON array with objects containing 'title' and 'description' fields.
Just return the JSON array, no other text:
[
  {
    "title": "Topic 1",
    "description": "Description for topic 1"
  },
  {
    "title": "Topic 2",
    "description": "Description for topic 2"
  }
]`, langOrDefault(profile))

	return b.String()
}

func postsBatchPrompt(topic core.Topic, profile core.UserProfile, schemaID, referencesContent, extraInstructions string, amount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Generate %d engaging LinkedIn posts about "%s".
The user works in %s.
Their interests include: %s.
Their professional values include: %s.

%s
`, amount, topic.Title, careerOrDefault(profile), interestsOrDefault(profile), idealsOrDefault(profile), catalog.SchemaInstructions(schemaID))

	if referencesContent != "" {
		fmt.Fprintf(&b, "\nUse this content from reference links as background material:\n%s\n", referencesContent)
	}

	fmt.Fprintf(&b, `
For each post:
1. Make it professional and engaging
2. Include relevant hashtags
3. Keep it between %s
4. Make it sound authentic and personal
5. Include a suggested image description that could be used to search for or generate an image with AI
`, wordGuidance(schemaID))

	if extraInstructions != "" {
		fmt.Fprintf(&b, "\nFollow these extra instructions if provided:\n%s\n", extraInstructions)
	}

	fmt.Fprintf(&b, `
DO NOT include the image suggestion in the post content.
The content language should be %s.
Format the response as a JSON array with objects containing:
- 'title': A short headline for the post
- 'content': The final LinkedIn post
- 'image_suggestion': A brief description of an image that would complement the post
Just return the JSON array, no other text:
[
  {
    "title": "Post 1 title",
    "content": "Post 1 content",
    "image_suggestion": "Post 1 image suggestion"
  },
  {
    "title": "Post 2 title",
    "content": "Post 2 content",
    "image_suggestion": "Post 2 image suggestion"
  }
]`, langOrDefault(profile))

	return b.String()
}

func reasoningPrompt(topic core.Topic, profile core.UserProfile, schemaID string, amount int) string {
	return fmt.Sprintf(`For the topic "%s", the user works in %s.
Their interests include: %s.
Their professional values include: %s.

%s

Generate a step-by-step chain-of-thought reasoning for creating %d engaging LinkedIn posts about this topic.
For each, consider:
1. The target audience for the post
2. What aspects of the topic are most relevant to the user's field
3. How to frame the topic to align with the user's professional values
4. The structure: hook, main points, call to action
5. What hashtags would increase visibility
6. What kind of image would complement the post

Format the response as a JSON array of %d strings, one reasoning per future post.
Just return the JSON array, no other text:
[
  "Step-by-step reasoning for post 1",
  "Step-by-step reasoning for post 2"
]`,
		topic.Title, careerOrDefault(profile), interestsOrDefault(profile), idealsOrDefault(profile),
		catalog.SchemaInstructions(schemaID), amount, amount)
}

func singlePostPrompt(topic core.Topic, profile core.UserProfile, schemaID, reasoning, referencesContent, extraInstructions string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Generate one engaging LinkedIn post about "%s".
The user works in %s.
Their interests include: %s.
Their professional values include: %s.

%s

Use the following chain-of-thought reasoning to write the post:
%s
`, topic.Title, careerOrDefault(profile), interestsOrDefault(profile), idealsOrDefault(profile),
		catalog.SchemaInstructions(schemaID), reasoning)

	if referencesContent != "" {
		fmt.Fprintf(&b, "\nUse this content from reference links as background material:\n%s\n", referencesContent)
	}
	if extraInstructions != "" {
		fmt.Fprintf(&b, "\nFollow these extra instructions if provided:\n%s\n", extraInstructions)
	}

	fmt.Fprintf(&b, `
For the post:
1. Make it professional and engaging
2. Include relevant hashtags
3. Keep it between %s
4. Make it sound authentic and personal
5. Include a suggested image description that could be used to search for or generate an image with AI

DO NOT include the image suggestion in the post content.
The content language should be %s.
Format the response as a single JSON object containing:
- 'title': A short headline for the post
- 'content': The final LinkedIn post
- 'image_suggestion': A brief description of an image that would complement the post
Just return the JSON object, no other text:
{
  "title": "Post title",
  "content": "Post content",
  "image_suggestion": "Post image suggestion"
}`, wordGuidance(schemaID), langOrDefault(profile))

	return b.String()
}

func scoringPrompt(posts []postData) string {
	var postsList strings.Builder
	for i, post := range posts {
		fmt.Fprintf(&postsList, "Post %d: %s\n\n", i+1, post.Content)
	}

	return fmt.Sprintf(`For each LinkedIn post, act as a critical evaluator and predict engagement metrics on a scale of 0.0 to 1.0:

Posts:
%s
For each post, provide these scores:
1. engagement_score: Likelihood of getting likes, comments, and shares
2. attractiveness_score: Visual appeal and readability
3. interest_score: How interesting the content is
4. relevance_score: Relevance to professional audience
5. shareability_score: Likelihood of being shared
6. professional_score: Level of professionalism

Return one object per post, in the same order as the posts above.
Format the response as a JSON array with objects containing all score fields.
Just return the JSON array, no other text:
[
  {
    "engagement_score": 0.8,
    "attractiveness_score": 0.7,
    "interest_score": 0.9,
    "relevance_score": 0.85,
    "shareability_score": 0.75,
    "professional_score": 0.9
  }
]`, postsList.String())
}
