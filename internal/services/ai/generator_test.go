package ai

import (
	"context"
	"errors"
	"testing"

	"ezproduct/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	answers map[string]func() (string, error)
	calls   []string
	prompts []string
}

func (f *fakeModel) GenerateContent(_ context.Context, model, prompt string) (string, error) {
	f.calls = append(f.calls, model)
	f.prompts = append(f.prompts, prompt)
	if fn, ok := f.answers[model]; ok {
		return fn()
	}
	return "", &APIError{StatusCode: 404, Status: "NOT_FOUND", Message: "models/" + model + " is not found for API version v1beta"}
}

const threeSizes = "```json\n" + `{"title": "Yoga Mat", "descriptionHtml": "<p>mat</p>", "variants": [
 {"size": "S", "price": 20, "sku": "YOG001-S"},
 {"size": "M", "price": 25, "sku": "YOG001-M"},
 {"size": "L", "price": 30, "sku": "YOG001-L"}], "tags": ["yoga"]}` + "\n```"

func TestCandidatesOverrideFirstAndDeduped(t *testing.T) {
	g := NewGenerator(&fakeModel{}, "gemini-1.5-flash", logger.Nop(), nil)
	assert.Equal(t, []string{
		"gemini-1.5-flash",
		"gemini-1.5-pro-latest",
		"gemini-1.5-pro",
		"gemini-1.5-flash-latest",
		"gemini-2.0-flash",
	}, g.Candidates())

	g = NewGenerator(&fakeModel{}, "", logger.Nop(), nil)
	assert.Equal(t, DefaultModels, g.Candidates())
}

func TestGenerateFallsBackOnModelNotFound(t *testing.T) {
	model := &fakeModel{answers: map[string]func() (string, error){
		"gemini-1.5-flash": func() (string, error) { return threeSizes, nil },
	}}
	g := NewGenerator(model, "", logger.Nop(), nil)

	p, err := g.Generate(context.Background(), Request{Keywords: "Yoga Mat", SizeOptions: "S,M,L", BrandName: "YogaBrand"})
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-1.5-pro-latest", "gemini-1.5-pro", "gemini-1.5-flash-latest", "gemini-1.5-flash"}, model.calls)
	require.Len(t, p.Variants, 3)
	assert.Equal(t, "S", p.Variants[0].Size)
	assert.Equal(t, "L", p.Variants[2].Size)
	assert.Contains(t, model.prompts[0], "S, M, L")
	assert.Contains(t, model.prompts[0], "YOGXXX-<size>")
}

func TestGenerateFailsFastOnAuthAndQuota(t *testing.T) {
	for name, apiErr := range map[string]error{
		"unauthorized": &APIError{StatusCode: 401, Status: "UNAUTHENTICATED", Message: "request is missing credentials"},
		"quota":        &APIError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "Quota exceeded"},
		"bad key":      &APIError{StatusCode: 400, Status: "INVALID_ARGUMENT", Message: "API key not valid. Please pass a valid API key."},
	} {
		t.Run(name, func(t *testing.T) {
			model := &fakeModel{answers: map[string]func() (string, error){
				"gemini-1.5-pro-latest": func() (string, error) { return "", apiErr },
			}}
			g := NewGenerator(model, "", logger.Nop(), nil)

			_, err := g.Generate(context.Background(), Request{Keywords: "Mug"})
			require.Error(t, err)

			var genErr *GenerationError
			require.True(t, errors.As(err, &genErr))
			assert.True(t, genErr.FailFast)
			assert.Equal(t, []string{"gemini-1.5-pro-latest"}, model.calls)
		})
	}
}

func TestGenerateTriesNextOnOtherErrors(t *testing.T) {
	model := &fakeModel{answers: map[string]func() (string, error){
		"gemini-1.5-pro-latest": func() (string, error) { return "no json here", nil },
		"gemini-1.5-pro":        func() (string, error) { return "", errors.New("connection reset") },
		"gemini-1.5-flash-latest": func() (string, error) {
			return `{"title": "Mug", "descriptionHtml": "<p/>", "variants": [{"size": "One Size", "price": 12, "sku": "EZ001-OS"}]}`, nil
		},
	}}
	g := NewGenerator(model, "", logger.Nop(), nil)

	p, err := g.Generate(context.Background(), Request{Keywords: "Mug"})
	require.NoError(t, err)
	assert.Len(t, model.calls, 3)
	assert.Equal(t, "Mug", p.Title)
}

func TestGenerateExhaustedListsTriedModels(t *testing.T) {
	model := &fakeModel{}
	g := NewGenerator(model, "custom-model", logger.Nop(), nil)

	_, err := g.Generate(context.Background(), Request{Keywords: "Mug"})
	require.Error(t, err)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.False(t, genErr.FailFast)
	assert.Len(t, genErr.Tried, 6)
	assert.Contains(t, err.Error(), "Tried: custom-model, gemini-1.5-pro-latest")
	assert.Contains(t, err.Error(), "Last error:")
}

func TestGenerateRequiresKeywords(t *testing.T) {
	model := &fakeModel{}
	g := NewGenerator(model, "", logger.Nop(), nil)

	_, err := g.Generate(context.Background(), Request{Keywords: "   "})
	require.Error(t, err)
	assert.Empty(t, model.calls)
}

func TestPromptMentionsImageAndAutoSizing(t *testing.T) {
	p := buildPrompt(Request{Keywords: "Pet Collar", ImageURL: "https://example.com/c.jpg", ProductNotes: "leather"})
	assert.Contains(t, p, "https://example.com/c.jpg")
	assert.Contains(t, p, "2 to 4 variants")
	assert.Contains(t, p, "leather")
	assert.Contains(t, p, "EZXXX-<size>")
}

const offSizes = `{"title": "Yoga Mat", "descriptionHtml": "<p>mat</p>", "variants": [
 {"size": "Small", "price": 20, "sku": "YOG001-S"},
 {"size": "Large", "price": 30, "sku": "YOG001-L"},
 {"size": "XL", "price": 35, "sku": "YOG001-XL"},
 {"size": "XXL", "price": 40, "sku": "YOG001-XXL"}], "tags": ["yoga"]}`

const shuffledSizes = `{"title": "Yoga Mat", "descriptionHtml": "<p>mat</p>", "variants": [
 {"size": "xl", "price": 35, "sku": "YOG001-XL"},
 {"size": "l", "price": 30, "sku": "YOG001-L"},
 {"size": "m", "price": 25, "sku": "YOG001-M"},
 {"size": "s", "price": 20, "sku": "YOG001-S"}], "tags": ["yoga"]}`

func TestGenerateRejectsAnswerWithoutRequestedSizes(t *testing.T) {
	model := &fakeModel{answers: map[string]func() (string, error){
		"gemini-1.5-pro-latest": func() (string, error) { return offSizes, nil },
		"gemini-1.5-pro":        func() (string, error) { return shuffledSizes, nil },
	}}
	g := NewGenerator(model, "", logger.Nop(), nil)

	p, err := g.Generate(context.Background(), Request{Keywords: "Yoga Mat", SizeOptions: "S,M,L"})
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-1.5-pro-latest", "gemini-1.5-pro"}, model.calls)
	require.Len(t, p.Variants, 3)
	assert.Equal(t, "s", p.Variants[0].Size)
	assert.Equal(t, "m", p.Variants[1].Size)
	assert.Equal(t, "l", p.Variants[2].Size)
	assert.Equal(t, "YOG001-L", p.Variants[2].SKU)
}

func TestGenerateFailsWhenNoModelHonoursSizes(t *testing.T) {
	answers := make(map[string]func() (string, error))
	for _, name := range DefaultModels {
		answers[name] = func() (string, error) { return offSizes, nil }
	}
	g := NewGenerator(&fakeModel{answers: answers}, "", logger.Nop(), nil)

	_, err := g.Generate(context.Background(), Request{Keywords: "Yoga Mat", SizeOptions: "S,M,L"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.False(t, genErr.FailFast)
	assert.Len(t, genErr.Tried, len(DefaultModels))
	assert.Contains(t, err.Error(), "S, M")
}

func TestKeepRequestedSizesIgnoresRepeatedLabels(t *testing.T) {
	p := &GeneratedProduct{Variants: []Variant{{Size: "M"}, {Size: "S"}}}
	require.NoError(t, keepRequestedSizes(p, []string{"s", "S", "m"}))
	require.Len(t, p.Variants, 2)
	assert.Equal(t, "S", p.Variants[0].Size)
	assert.Equal(t, "M", p.Variants[1].Size)
}
