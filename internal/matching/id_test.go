package matching

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputAcceptsStringAndIntegerIDs(t *testing.T) {
	body := `{
		"requiredQualifications": [{"id": 1, "name": "Go", "isMatched": true}, {"id": "r-2", "name": "SQL"}],
		"preferredQualifications": [{"id": 3, "name": "Redis"}, {"id": null, "name": "gRPC"}],
		"experiences": [{"id": 10, "title": "Backend", "duration": 12, "similarity": 30}]
	}`
	var in Input
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Equal(t, ID("1"), in.Required[0].ID)
	assert.Equal(t, ID("r-2"), in.Required[1].ID)
	assert.Equal(t, ID("3"), in.Preferred[0].ID)
	assert.Equal(t, ID(""), in.Preferred[1].ID)
	assert.Equal(t, ID("10"), in.Experiences[0].ID)
	require.NoError(t, ValidateInput(in))

	out, err := json.Marshal(AnalyzeInput(in).RequiredQualifications[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Go","isMatched":true}`, string(out))
}

func TestIntegerAndStringIDsCollide(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{
		"requiredQualifications": [{"id": 7, "name": "Go"}],
		"preferredQualifications": [{"id": "7", "name": "Redis"}]
	}`), &in))
	assert.ErrorIs(t, ValidateInput(in), ErrInvalidInput)
}

func TestIDRejectsOtherJSONTypes(t *testing.T) {
	for _, raw := range []string{`1.5`, `true`, `{"v":1}`, `[1]`} {
		var id ID
		assert.Error(t, json.Unmarshal([]byte(raw), &id), raw)
	}
}
