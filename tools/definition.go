package tools

import (
	"github.com/invopop/jsonschema"
)

// Input is the single-argument shape every tool advertises to the model.
type Input struct {
	Input string `json:"input" jsonschema_description:"The single string argument passed to the tool."`
}

// ToolDefinition describes one tool the model may call.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(input string) (string, error)
}

// Descriptor is the (name, description) pair shown to the model.
type Descriptor struct {
	Name        string
	Description string
}

// InputSchema is shared by all demo tools.
var InputSchema = GenerateSchema[Input]()

// GenerateSchema reflects T into an inline JSON schema without $schema/$id
// headers so it can be embedded in provider tool declarations.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""
	schema.ID = ""
	return schema
}
