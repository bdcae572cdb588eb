package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	jsvalidate "github.com/santhosh-tekuri/jsonschema/v5"
)

// deriveSchema renders the JSON Schema for a tool's args struct. The
// struct's json tags drive property names and the required list (fields
// without omitempty are required); jsonschema tags carry descriptions.
func deriveSchema[A any]() string {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		ExpandedStruct: true,
		DoNotReference: true,
		// Models pad argument objects with extra keys; rejecting them
		// outright turns a harmless quirk into a failed iteration.
		AllowAdditionalProperties: true,
	}
	var zero A
	s := r.Reflect(&zero)
	s.Version = ""

	out, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("tools: reflect args schema: %v", err))
	}
	return string(out)
}

// compileSchema compiles a derived schema for argument validation.
// Schemas come from our own structs, so a compile failure is a bug.
func compileSchema(name, schemaJSON string) *jsvalidate.Schema {
	c := jsvalidate.NewCompiler()
	c.Draft = jsvalidate.Draft2020
	url := name + ".schema.json"
	if err := c.AddResource(url, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("tools: add schema resource for %s: %v", name, err))
	}
	compiled, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("tools: compile schema for %s: %v", name, err))
	}
	return compiled
}

// decodeArgs validates a model-emitted argument map against the tool's
// schema and decodes it into the typed args struct. The map is round-
// tripped through JSON first so validation always sees canonical JSON
// shapes regardless of how the caller built the map.
func decodeArgs[A any](toolName string, schema *jsvalidate.Schema, args map[string]any) (A, error) {
	var out A
	if args == nil {
		args = map[string]any{}
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("encode %s arguments: %w", toolName, err)
	}
	var canonical any
	if err := json.Unmarshal(raw, &canonical); err != nil {
		return out, fmt.Errorf("decode %s arguments: %w", toolName, err)
	}
	if err := schema.Validate(canonical); err != nil {
		return out, fmt.Errorf("invalid arguments for %s: %s", toolName, flattenValidationError(err))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s arguments: %w", toolName, err)
	}
	return out, nil
}

// flattenValidationError reduces a jsonschema validation tree to a
// single line suitable for feeding back to the model.
func flattenValidationError(err error) string {
	var ve *jsvalidate.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	leaves := validationLeaves(ve)
	parts := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if loc == "" {
			parts = append(parts, leaf.Message)
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", loc, leaf.Message))
		}
	}
	if len(parts) == 0 {
		return ve.Message
	}
	return strings.Join(parts, "; ")
}

func validationLeaves(ve *jsvalidate.ValidationError) []*jsvalidate.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsvalidate.ValidationError{ve}
	}
	var leaves []*jsvalidate.ValidationError
	for _, cause := range ve.Causes {
		leaves = append(leaves, validationLeaves(cause)...)
	}
	return leaves
}
