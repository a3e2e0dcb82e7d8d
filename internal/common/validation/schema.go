// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins the field errors into one line.
func (r *ValidationResult) Error() string {
	if r.Valid {
		return ""
	}
	msg := ""
	for i, e := range r.Errors {
		if i > 0 {
			msg += "; "
		}
		msg += e.Field + ": " + e.Message
	}
	return msg
}

// JobSchema describes one job record as written to a catalog file.
const JobSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "company", "location", "description"],
  "properties": {
    "title":       {"type": "string", "pattern": "\\S"},
    "company":     {"type": "string", "pattern": "\\S"},
    "location":    {"type": "string", "pattern": "\\S"},
    "description": {"type": "string", "pattern": "\\S"},
    "skills": {
      "type": "array",
      "items": {"type": "string", "pattern": "\\S"}
    },
    "employmentType": {
      "type": "string",
      "enum": ["Full-time", "Part-time", "Contract", "Internship"]
    },
    "postedDate": {"type": "string", "format": "date-time"}
  },
  "additionalProperties": false
}`

var (
	jobSchemaOnce sync.Once
	jobSchema     *gojsonschema.Schema
	jobSchemaErr  error
)

func compiledJobSchema() (*gojsonschema.Schema, error) {
	jobSchemaOnce.Do(func() {
		jobSchema, jobSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(JobSchema))
	})
	return jobSchema, jobSchemaErr
}

// ValidateJob checks a decoded job document (map or struct) against JobSchema.
func ValidateJob(doc interface{}) (*ValidationResult, error) {
	schema, err := compiledJobSchema()
	if err != nil {
		return nil, fmt.Errorf("compile job schema: %w", err)
	}
	return validate(schema, gojsonschema.NewGoLoader(doc))
}

// ValidateJobJSON is ValidateJob over raw JSON.
func ValidateJobJSON(raw []byte) (*ValidationResult, error) {
	schema, err := compiledJobSchema()
	if err != nil {
		return nil, fmt.Errorf("compile job schema: %w", err)
	}
	return validate(schema, gojsonschema.NewBytesLoader(raw))
}

// Validate checks data against an arbitrary schema given as a Go map.
func Validate(schemaMap map[string]interface{}, data interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schemaMap), gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

func validate(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out
}
