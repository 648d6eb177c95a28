package provider_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/visearch/visearch/domain/retrieval"
	"github.com/visearch/visearch/infrastructure/provider"
)

func resultsWithCaptions(captions ...[]string) []retrieval.Result {
	results := make([]retrieval.Result, len(captions))
	for i, labels := range captions {
		name := fmt.Sprintf("img_%06d.jpg", i)
		results[i] = retrieval.NewResult(i+1, i, int64(i), name, 0.9, labels, "")
	}
	return results
}

func TestBuildDescriptionPrompt(t *testing.T) {
	system, user := provider.BuildDescriptionPrompt("a dog in the park", resultsWithCaptions(
		[]string{"a brown dog playing with a ball"},
		[]string{"a happy dog running in the grass"},
	))

	assert.Contains(t, system, "image description assistant")
	assert.Contains(t, user, "Query: a dog in the park")
	assert.Contains(t, user, "1. a brown dog playing with a ball")
	assert.Contains(t, user, "2. a happy dog running in the grass")
	assert.Contains(t, user, "Description:")
	assert.NotContains(t, user, "img_000000.jpg")
}

func TestBuildDescriptionPromptFlattensMultiCaptionResults(t *testing.T) {
	_, user := provider.BuildDescriptionPrompt("query", resultsWithCaptions(
		[]string{"first caption", "second caption"},
		[]string{"third caption"},
	))

	assert.Contains(t, user, "1. first caption")
	assert.Contains(t, user, "2. second caption")
	assert.Contains(t, user, "3. third caption")
}

func TestBuildDescriptionPromptCapsCaptions(t *testing.T) {
	var captions [][]string
	for i := 0; i < 8; i++ {
		captions = append(captions, []string{fmt.Sprintf("caption %d", i)})
	}

	_, user := provider.BuildDescriptionPrompt("query", resultsWithCaptions(captions...))
	assert.Contains(t, user, "5. caption 4")
	assert.NotContains(t, user, "caption 5")
}

func TestBuildImagePrompt(t *testing.T) {
	prompt := provider.BuildImagePrompt("a dog in the park", resultsWithCaptions(
		[]string{"a brown dog"}, []string{"a running dog"}, []string{"a playing dog"}, []string{"an extra dog"},
	))
	assert.Equal(t, "a dog in the park, a brown dog, a running dog, a playing dog", prompt)
}

func TestBuildImagePromptWithoutQuery(t *testing.T) {
	prompt := provider.BuildImagePrompt("", resultsWithCaptions([]string{"a brown dog"}, []string{"a running dog"}))
	assert.Equal(t, "a brown dog, a running dog", prompt)
}
