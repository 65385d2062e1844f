package http_test

import (
	"encoding/json"
	"net/http"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

// Cada ruta registrada bajo /api aparece en docs/swagger.json con su método.
func TestSwagger_DocumentaTodasLasRutas(t *testing.T) {
	raw, err := os.ReadFile("../../../docs/swagger.json")
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	c := newAPI(t)
	checked := 0
	for _, r := range c.app.GetRoutes(true) {
		if r.Method == http.MethodHead || !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		path := pathParam.ReplaceAllString(strings.TrimSuffix(r.Path, "/"), "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "falta la ruta %s", path) {
			assert.Contains(t, ops, strings.ToLower(r.Method), "falta %s %s", r.Method, path)
		}
		checked++
	}
	assert.GreaterOrEqual(t, checked, 17)
}
