package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Action is one of the AI transforms offered in the UI
type Action int

const (
	ActionRepair Action = iota
	ActionSchema
	ActionExplain
	ActionQuery
	ActionConvert
	ActionGenerate
)

func (a Action) String() string {
	switch a {
	case ActionRepair:
		return "Fix JSON"
	case ActionSchema:
		return "Generate Schema"
	case ActionExplain:
		return "Explain"
	case ActionQuery:
		return "Ask"
	case ActionConvert:
		return "Convert"
	case ActionGenerate:
		return "Generate Data"
	default:
		return "Unknown"
	}
}

const repairPrompt = `You are a JSON repair tool. Your task is to fix the following invalid JSON string.
Rules:
1. Output ONLY the valid JSON. No markdown, no "here is the fixed json", no explanations.
2. If it is already valid, return it as is.
3. Format it nicely with 2 spaces indentation.

Invalid JSON:
%s`

const schemaInstructions = `You are a TypeScript expert. Generate a TypeScript interface for this JSON.
Rules:
1. Output ONLY the TypeScript code. No markdown fences.
2. Use 'Root' as the main interface name.
3. Use nice indentation.`

const explainInstructions = `Explain this JSON data in simple terms.
Rules:
1. Be concise. High-level summary of what this data represents.
2. Mention key fields if important.
3. No markdown formatting, just plain text or simple bullet points.`

const queryInstructions = `Answer the question about the JSON below.
Rules:
1. Answer using only the data in the JSON.
2. When the answer is a value or a subset of the data, output it as valid JSON.
3. No markdown formatting.

Question: %s`

const convertInstructions = `Convert this JSON to %s.
Rules:
1. Output ONLY the converted document. No markdown fences, no explanations.
2. Keep every field and value.`

const generateInstructions = `Generate JSON data matching this description.
Rules:
1. Output ONLY valid JSON. No markdown fences, no explanations.
2. Use realistic values.
3. Format it nicely with 2 spaces indentation.

Description: %s`

var fenceRegex = regexp.MustCompile("```[A-Za-z]*\\n?|```")

// StripFences removes markdown code fences a model adds despite the prompt
func StripFences(text string) string {
	return strings.TrimSpace(fenceRegex.ReplaceAllString(text, ""))
}

// Repair asks the model to turn invalid JSON into valid, indented JSON
func (c *Client) Repair(ctx context.Context, text string) (string, error) {
	return c.run(ctx, fmt.Sprintf(repairPrompt, text))
}

// Schema asks for TypeScript interfaces rooted at Root
func (c *Client) Schema(ctx context.Context, text string) (string, error) {
	return c.run(ctx, withDocument(schemaInstructions, text))
}

// Explain asks for a short plain-text summary of the document
func (c *Client) Explain(ctx context.Context, text string) (string, error) {
	return c.run(ctx, withDocument(explainInstructions, text))
}

// Query answers a natural language question about the document
func (c *Client) Query(ctx context.Context, text, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question is empty")
	}
	return c.run(ctx, withDocument(fmt.Sprintf(queryInstructions, question), text))
}

// Convert asks the model to rewrite the document in another format, e.g.
// "XML" or "CSV", for targets the local converter does not handle
func (c *Client) Convert(ctx context.Context, text, format string) (string, error) {
	format = strings.TrimSpace(format)
	if format == "" {
		return "", fmt.Errorf("target format is empty")
	}
	return c.run(ctx, withDocument(fmt.Sprintf(convertInstructions, format), text))
}

// GenerateData asks the model for a new JSON document matching description
func (c *Client) GenerateData(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("description is empty")
	}
	return c.run(ctx, fmt.Sprintf(generateInstructions, description))
}

func (c *Client) run(ctx context.Context, prompt string) (string, error) {
	out, err := c.Generate(ctx, c.model, prompt)
	if err != nil {
		return "", err
	}
	return StripFences(out), nil
}

func withDocument(instructions, text string) string {
	return instructions + "\n\nJSON:\n" + text
}
