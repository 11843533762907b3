// pkg/contracts/schema.go
package contracts

// Registry describes the response contracts of the CareerLens API.
type Registry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Contracts   []Contract `json:"contracts"`
}

// Contract binds one gateway operation to the JSON schema of its success body.
type Contract struct {
	ID             string                 `json:"id"`
	Method         string                 `json:"method"`
	Path           string                 `json:"path"`
	Description    string                 `json:"description"`
	ResponseSchema map[string]interface{} `json:"responseSchema"`
	ErrorCodes     []string               `json:"errorCodes"`
	Tags           []string               `json:"tags"`
}
