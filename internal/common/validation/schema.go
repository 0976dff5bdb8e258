package validation

import (
	"encoding/json"
	"fmt"
	"strings"

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

// LoanApplicationSchema constrains the predict form before it is sent to the backend.
const LoanApplicationSchema = `{
  "type": "object",
  "required": ["age", "monthly_income", "loan_amount", "home_ownership", "loan_intent"],
  "properties": {
    "age":                  {"type": "integer", "minimum": 18, "maximum": 120},
    "monthly_income":       {"type": "number", "minimum": 0},
    "loan_amount":          {"type": "number", "exclusiveMinimum": 0},
    "home_ownership":       {"type": "string", "enum": ["RENT", "OWN", "MORTGAGE", "OTHER"]},
    "loan_intent":          {"type": "string", "enum": ["PERSONAL", "EDUCATION", "MEDICAL", "VENTURE", "HOMEIMPROVEMENT", "DEBTCONSOLIDATION"]},
    "prior_default":        {"type": "boolean"},
    "employment_years":     {"type": "number", "minimum": 0},
    "credit_history_years": {"type": "number", "minimum": 0},
    "owner_user_id":        {"type": "integer", "minimum": 0}
  }
}`

var loanApplicationLoader = gojsonschema.NewStringLoader(LoanApplicationSchema)

// ValidateLoanApplication checks any JSON-encodable form value against LoanApplicationSchema.
func ValidateLoanApplication(form interface{}) (*ValidationResult, error) {
	return ValidateDocument(loanApplicationLoader, form)
}

// ValidateDocument round-trips data through JSON so struct tags decide field names.
func ValidateDocument(schema gojsonschema.JSONLoader, data interface{}) (*ValidationResult, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		field := e.Field()
		if field == "(root)" {
			if missing, ok := e.Details()["property"].(string); ok {
				field = missing
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
