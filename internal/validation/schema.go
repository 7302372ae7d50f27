// Package validation compiles the embedded JSON Schemas and reports
// path-level violations for scenario files, submissions, and tool
// arguments.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/schemas"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

var (
	submissionSchema *jsonschema.Schema
	scenarioSchema   *jsonschema.Schema
	toolArgSchemas   map[string]*jsonschema.Schema
)

func init() {
	submissionSchema = MustCompile(schemas.SubmissionSchemaJSON, "submission.schema.json")
	scenarioSchema = MustCompile(schemas.ScenarioSchemaJSON, "scenario.schema.json")

	toolArgSchemas = make(map[string]*jsonschema.Schema, len(schemas.ToolArgSchemas))
	for tool, raw := range schemas.ToolArgSchemas {
		toolArgSchemas[tool] = MustCompile(raw, "tools/"+tool+".json")
	}
}

// MustCompile compiles an embedded schema document, panicking on failure.
// Embedded schemas are part of the binary; a compile failure is a build bug.
func MustCompile(raw string, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateSubmission checks a decoded submission document against the
// submission schema.
func ValidateSubmission(instance any) []models.SchemaIssue {
	return validateInstance(submissionSchema, instance)
}

// ValidateScenarioBytes checks raw scenario YAML against the scenario schema.
func ValidateScenarioBytes(data []byte) []models.SchemaIssue {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []models.SchemaIssue{{Path: "/", Message: fmt.Sprintf("YAML parse error: %v", err)}}
	}
	return validateInstance(scenarioSchema, convertToJSONCompatible(doc))
}

// ValidateToolArgs checks tool-call arguments against the tool's argument
// schema. The second return reports whether the tool is known at all.
func ValidateToolArgs(tool string, args map[string]any) ([]models.SchemaIssue, bool) {
	sch, ok := toolArgSchemas[tool]
	if !ok {
		return nil, false
	}
	return validateInstance(sch, convertToJSONCompatible(args)), true
}

// KnownTools returns the fixed tool whitelist derived from the embedded
// argument schemas.
func KnownTools() []string {
	tools := make([]string, 0, len(toolArgSchemas))
	for tool := range toolArgSchemas {
		tools = append(tools, tool)
	}
	return tools
}

func validateInstance(schema *jsonschema.Schema, instance any) []models.SchemaIssue {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []models.SchemaIssue{{Path: "/", Message: fmt.Sprintf("schema: %v", err)}}
	}
	var issues []models.SchemaIssue
	collectSchemaErrors(ve, &issues)
	return issues
}

func collectSchemaErrors(ve *jsonschema.ValidationError, issues *[]models.SchemaIssue) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*issues = append(*issues, models.SchemaIssue{
			Path:    loc,
			Message: ve.ErrorKind.LocalizedString(defaultPrinter),
		})
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, issues)
	}
}

// convertToJSONCompatible converts YAML-decoded values to JSON-compatible
// types. yaml.v3 decodes maps as map[string]any which is fine; nested
// values still need the recursive walk.
func convertToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = convertToJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = convertToJSONCompatible(v2)
		}
		return result
	case int:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return val
	}
}
