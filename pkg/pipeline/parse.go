package pipeline

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/observability"
)

// Parse decodes an entity mapping. Besides a JSON object it accepts a JSON
// string whose content is the object, as some clients send the mapping
// pre-encoded. Parse never fails; degraded values are reported as issues.
func Parse(ctx context.Context, data []byte) (*hierarchy.Graph, []hierarchy.ParseIssue) {
	data = unquoteObject(data)
	g, issues := hierarchy.Decode(data)
	observability.Pipeline().OnParse(ctx, g.Len(), len(issues))
	return g, issues
}

// ParseMap builds a graph from an already decoded mapping.
func ParseMap(ctx context.Context, m map[string]any) (*hierarchy.Graph, []hierarchy.ParseIssue) {
	g, issues := hierarchy.FromMap(m)
	observability.Pipeline().OnParse(ctx, g.Len(), len(issues))
	return g, issues
}

func unquoteObject(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return data
	}
	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return data
	}
	return []byte(inner)
}
