package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/common/errors"
	"careerlens/pkg/contracts"
)

func defaultValidator(t *testing.T) *ContractValidator {
	t.Helper()
	reg, err := contracts.Default()
	require.NoError(t, err)
	return NewContractValidator(reg)
}

func TestContractValidator_Recommendations(t *testing.T) {
	v := defaultValidator(t)

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "full record",
			body: `[{"internship":{"id":"a1","company":"Acme","role":"Intern","skills":["Go"]},"match_score":87,"matched_skills":["Go"]}]`,
		},
		{
			name: "numeric id and null fields",
			body: `[{"internship":{"id":12,"company":null,"location":null},"match_score":null,"matched_skills":null}]`,
		},
		{
			name: "empty list",
			body: `[]`,
		},
		{
			name:    "missing internship",
			body:    `[{"match_score":50}]`,
			wantErr: true,
		},
		{
			name:    "object instead of array",
			body:    `{"detail":"nope"}`,
			wantErr: true,
		},
		{
			name:    "skills is a string",
			body:    `[{"internship":{"id":"a","skills":"Go, SQL"}}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(contracts.RecommendationsList, []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeContractViolation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestContractValidator_ApplicationsRejectUnknownStatus(t *testing.T) {
	v := defaultValidator(t)

	err := v.Validate(contracts.ApplicationsList, []byte(`[{"id":"1","internship_id":"x","status":"Ghosted"}]`))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeContractViolation, errors.CodeOf(err))

	assert.NoError(t, v.Validate(contracts.ApplicationsList, []byte(`[{"id":"1","internship_id":"x","status":"Offer"}]`)))
}

func TestContractValidator_UnknownContractPasses(t *testing.T) {
	v := defaultValidator(t)
	assert.NoError(t, v.Validate("does.not.exist", []byte(`not json`)))
}

func TestContractValidator_InvalidJSON(t *testing.T) {
	v := defaultValidator(t)
	err := v.Validate(contracts.BookmarksCheck, []byte(`{`))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDecodeFailed, errors.CodeOf(err))
}

func TestValidateDocument(t *testing.T) {
	schema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"bookmarked"},
		"properties": map[string]interface{}{
			"bookmarked": map[string]interface{}{"type": "boolean"},
		},
	}

	result, err := ValidateDocument([]byte(`{"bookmarked":"yes"}`), schema)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bookmarked", result.Errors[0].Field)
	assert.Equal(t, "INVALID_TYPE", result.Errors[0].Code)
	assert.NotEmpty(t, result.GetErrorMessages())

	result, err = ValidateDocument([]byte(`{"bookmarked":true}`), schema)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateEmailAndURL(t *testing.T) {
	assert.True(t, ValidateEmail("ada@example.com"))
	assert.False(t, ValidateEmail("ada@"))
	assert.True(t, ValidateURL("https://internshala.com/internship/detail/1"))
	assert.False(t, ValidateURL("javascript:alert(1)"))
	assert.False(t, ValidateURL(""))
}
