package docs

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestReadDoc(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Contains(t, doc["paths"], "/validate-json")
	assert.Equal(t, "Invoice QC API", doc["info"].(map[string]any)["title"])
}

func TestSwaggerJSON_MismasRutas(t *testing.T) {
	raw, err := os.ReadFile("swagger.json")
	require.NoError(t, err)
	var file map[string]any
	require.NoError(t, json.Unmarshal(raw, &file))

	generated, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(generated), &doc))

	assert.Equal(t, doc["paths"], file["paths"])
}
