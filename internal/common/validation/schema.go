package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"careerlens/internal/common/errors"
	"careerlens/pkg/contracts"
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

// ValidateDocument checks a raw JSON document against a JSON schema.
func ValidateDocument(document []byte, schema map[string]interface{}) (*ValidationResult, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return validateWith(compiled, document)
}

func validateWith(schema *gojsonschema.Schema, document []byte) (*ValidationResult, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// ContractValidator validates response bodies against the contract registry. Schemas are
// compiled on first use and cached.
type ContractValidator struct {
	registry *contracts.Registry
	mu       sync.RWMutex
	compiled map[string]*gojsonschema.Schema
}

func NewContractValidator(registry *contracts.Registry) *ContractValidator {
	return &ContractValidator{
		registry: registry,
		compiled: make(map[string]*gojsonschema.Schema),
	}
}

// Validate returns a CONTRACT_VIOLATION error when body does not satisfy the contract.
// Unknown contract IDs are not validated.
func (v *ContractValidator) Validate(contractID string, body []byte) error {
	schema, err := v.schema(contractID)
	if err != nil {
		return err
	}
	if schema == nil {
		return nil
	}

	result, err := validateWith(schema, body)
	if err != nil {
		return errors.NewDecodeFailedError(contractID, err)
	}
	if !result.Valid {
		return errors.NewContractViolationError(contractID, result.GetErrorMessages())
	}
	return nil
}

func (v *ContractValidator) schema(contractID string) (*gojsonschema.Schema, error) {
	v.mu.RLock()
	s, ok := v.compiled[contractID]
	v.mu.RUnlock()
	if ok {
		return s, nil
	}

	contract, found := v.registry.Get(contractID)
	if !found || contract.ResponseSchema == nil {
		return nil, nil
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(contract.ResponseSchema))
	if err != nil {
		return nil, fmt.Errorf("compile contract %s: %w", contractID, err)
	}

	v.mu.Lock()
	v.compiled[contractID] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateURL accepts http and https URLs only.
func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}
