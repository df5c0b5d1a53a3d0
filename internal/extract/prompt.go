package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/txintel/txintel/internal/model"
)

// DefaultTaskPrompt is the standing instruction for financial document
// extraction. Callers may override it per request via Params.TaskPrompt.
const DefaultTaskPrompt = `Extract financial information from the document including merchant details, transaction amounts, items purchased, payment information, and tax details.

Use exact text for extractions. Do not paraphrase or overlap entities.
Extract entities in order of appearance.
Provide meaningful attributes for each entity to add context.`

// buildSystemPrompt produces the system message. Strict schema mode forbids
// any output outside the JSON object.
func buildSystemPrompt(strictSchema bool) string {
	prompt := `You are a financial document entity extractor. Respond with a JSON object of the form {"extractions": [{"extraction_class": "...", "extraction_text": "...", "attributes": {...}}]}.`
	if strictSchema {
		prompt += ` You MUST respond with ONLY the JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }.`
	}
	return prompt
}

// buildUserPrompt assembles the task description, the few-shot examples, and
// the document to process into one prompt.
func buildUserPrompt(document, taskPrompt string, examples []model.ExampleDocument) string {
	if strings.TrimSpace(taskPrompt) == "" {
		taskPrompt = DefaultTaskPrompt
	}

	var b strings.Builder
	b.WriteString(taskPrompt)
	b.WriteString("\n\n")

	for i, example := range examples {
		fmt.Fprintf(&b, "Example %d input:\n%s\n\n", i+1, strings.TrimSpace(example.Text))
		fmt.Fprintf(&b, "Example %d output:\n%s\n\n", i+1, exampleJSON(example.Entities))
	}

	b.WriteString("Document to process:\n")
	b.WriteString(document)

	return b.String()
}

// exampleJSON renders an example's expected entities in the response schema.
func exampleJSON(entities []model.Entity) string {
	payload := struct {
		Extractions []model.Entity `json:"extractions"`
	}{Extractions: entities}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return `{"extractions": []}`
	}
	return string(data)
}
