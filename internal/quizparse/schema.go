package quizparse

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const envelopeSchema = `{
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {"type": "array"}
	}
}`

const questionSchema = `{
	"type": "object",
	"required": ["question", "correctAnswer"],
	"properties": {
		"question": {"type": "string", "pattern": "\\S"},
		"options": {"$ref": "#/$defs/choices"},
		"choices": {"$ref": "#/$defs/choices"},
		"correctAnswer": {
			"oneOf": [
				{"type": "integer", "minimum": 0, "maximum": 3},
				{"type": "string", "pattern": "^\\s*[0-3]\\s*$"}
			]
		}
	},
	"anyOf": [
		{"required": ["options"]},
		{"required": ["choices"]}
	],
	"$defs": {
		"choices": {
			"type": "array",
			"minItems": 4,
			"maxItems": 4,
			"items": {"type": "string"}
		}
	}
}`

var (
	envelope = mustCompile("quiz-envelope", envelopeSchema)
	question = mustCompile("quiz-question", questionSchema)
)

func mustCompile(name, def string) *jsonschema.Schema {
	s, err := compile(name, def)
	if err != nil {
		panic(err)
	}
	return s
}

func compile(name, def string) (*jsonschema.Schema, error) {
	var parsed any
	if err := json.Unmarshal([]byte(def), &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource %q: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", name, err)
	}
	return compiled, nil
}
