package provider

import (
	"fmt"
	"strings"

	"github.com/visearch/visearch/domain/retrieval"
)

// maxContextCaptions caps how many retrieved captions feed a description
// prompt; more adds noise without improving the output.
const maxContextCaptions = 5

// maxImagePromptCaptions caps captions in an image-generation prompt, which
// image models truncate aggressively.
const maxImagePromptCaptions = 3

// descriptionSystemPrompt primes the text generator for rich descriptions.
const descriptionSystemPrompt = "You are an expert image description assistant. " +
	"Create rich, detailed, and engaging descriptions based on the captions provided."

// BuildDescriptionPrompt assembles the system and user prompts for generating
// a detailed description from a query and its retrieved results.
func BuildDescriptionPrompt(query string, results []retrieval.Result) (system, user string) {
	captions := topCaptions(results, maxContextCaptions)

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nCaptions:\n", query)
	for i, cap := range captions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, cap)
	}
	b.WriteString("\nCreate a detailed, comprehensive description (5-7 sentences). Include:\n")
	b.WriteString("- Main subject and primary action\n")
	b.WriteString("- Setting, environment, and background details\n")
	b.WriteString("- Colors, lighting, and visual elements\n")
	b.WriteString("- Atmosphere, mood, and overall impression\n")
	b.WriteString("- Any notable objects, people, or features\n")
	b.WriteString("- Spatial relationships and composition\n\nDescription:")

	return descriptionSystemPrompt, b.String()
}

// BuildImagePrompt assembles an image-generation prompt from a query and its
// retrieved results: the query followed by the top captions, comma-joined.
func BuildImagePrompt(query string, results []retrieval.Result) string {
	captions := topCaptions(results, maxImagePromptCaptions)
	if query != "" {
		captions = append([]string{query}, captions...)
	}
	return strings.Join(captions, ", ")
}

// topCaptions returns the first n result captions, flattened across
// results in rank order.
func topCaptions(results []retrieval.Result, n int) []string {
	captions := retrieval.FlattenLabels(results)
	if n < len(captions) {
		captions = captions[:n]
	}
	return captions
}
