package nocodb

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/mcptools/pkg/errors"
	api "github.com/matzehuels/mcptools/pkg/integrations/nocodb"
)

const defaultLimit = 25

type retrieveInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	Fields    string `json:"fields,omitempty" jsonschema:"Comma-separated field names"`
	Where     string `json:"where,omitempty" jsonschema:"Filter such as (Status,eq,active)"`
	Sort      string `json:"sort,omitempty" jsonschema:"Field to sort by; prefix with - for descending"`
	Limit     *int   `json:"limit,omitempty" jsonschema:"Page size, 25 by default"`
	Offset    int    `json:"offset,omitempty" jsonschema:"Number of records to skip"`
}

func (e *Endpoint) retrieveRecords(ctx context.Context, _ *mcp.CallToolRequest, in retrieveInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("retrieve records", "base", in.BaseID, "table", in.TableName)
	limit := defaultLimit
	if in.Limit != nil {
		limit = *in.Limit
	}
	recs, params, err := e.client.RetrieveRecords(ctx, in.BaseID, in.TableName, api.Query{
		Fields: in.Fields,
		Where:  in.Where,
		Sort:   in.Sort,
		Limit:  limit,
		Offset: in.Offset,
	})
	if err != nil {
		return e.reply("retrieve records", result{}, err)
	}
	r := success("RETRIEVE_RECORDS", list(recs), "Retrieved %d records", len(recs)).WithMetadata(map[string]any{
		"record_count": len(recs),
		"query_params": flatten(params),
	})
	return e.reply("retrieve records", r, nil)
}

func flatten(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k := range v {
		out[k] = v.Get(k)
	}
	return out
}

type countInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	Where     string `json:"where,omitempty" jsonschema:"Filter such as (Status,eq,active)"`
}

func (e *Endpoint) countRecords(ctx context.Context, _ *mcp.CallToolRequest, in countInput) (*mcp.CallToolResult, result, error) {
	n, err := e.client.CountRecords(ctx, in.BaseID, in.TableName, in.Where)
	return e.reply("count records", success("COUNT_RECORDS", map[string]any{"count": n}, "Found %d records", n), err)
}

type createRecordsInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	Records   any    `json:"records" jsonschema:"A record object or an array of record objects"`
}

func (e *Endpoint) createRecords(ctx context.Context, _ *mcp.CallToolRequest, in createRecordsInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("create records", "base", in.BaseID, "table", in.TableName)
	records, err := objects("records", in.Records)
	if err != nil {
		return e.reply("create records", result{}, err)
	}
	created, err := e.client.CreateRecords(ctx, in.BaseID, in.TableName, records)
	return e.reply("create records", success("CREATE_RECORDS", list(created), "Created %d records", len(created)), err)
}

type updateRecordsInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	Updates   any    `json:"updates" jsonschema:"An {id, data} object or an array of them"`
}

func (e *Endpoint) updateRecords(ctx context.Context, _ *mcp.CallToolRequest, in updateRecordsInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("update records", "base", in.BaseID, "table", in.TableName)
	updates, err := recordUpdates(in.Updates)
	if err != nil {
		return e.reply("update records", result{}, err)
	}
	updated, err := e.client.UpdateRecords(ctx, in.BaseID, in.TableName, updates)
	return e.reply("update records", success("UPDATE_RECORDS", list(updated), "Updated %d records", len(updated)), err)
}

type deleteRecordsInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	RecordIDs any    `json:"record_ids" jsonschema:"A record id or an array of record ids"`
}

func (e *Endpoint) deleteRecords(ctx context.Context, _ *mcp.CallToolRequest, in deleteRecordsInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("delete records", "base", in.BaseID, "table", in.TableName)
	ids, err := recordIDs(in.RecordIDs)
	if err != nil {
		return e.reply("delete records", result{}, err)
	}
	n, err := e.client.DeleteRecords(ctx, in.BaseID, in.TableName, ids)
	return e.reply("delete records", success("DELETE_RECORDS", map[string]any{"deleted_count": n}, "Deleted %d records", n), err)
}

// objects accepts one object or an array of objects.
func objects(what string, v any) ([]map[string]any, error) {
	switch v := v.(type) {
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "%s[%d] must be an object, got %T", what, i, item)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be an object or an array of objects", what)
	}
}

func recordUpdates(v any) ([]api.RecordUpdate, error) {
	items, err := objects("updates", v)
	if err != nil {
		return nil, err
	}
	out := make([]api.RecordUpdate, 0, len(items))
	for i, item := range items {
		id, ok := item["id"]
		if !ok || id == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "updates[%d] has no id", i)
		}
		data, ok := item["data"].(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "updates[%d].data must be an object", i)
		}
		out = append(out, api.RecordUpdate{ID: id, Data: data})
	}
	return out, nil
}

func recordIDs(v any) ([]any, error) {
	switch v := v.(type) {
	case string, float64, json.Number:
		return []any{v}, nil
	case []any:
		if len(v) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "record_ids must not be empty")
		}
		for i, id := range v {
			switch id.(type) {
			case string, float64, json.Number:
			default:
				return nil, errors.New(errors.ErrCodeInvalidInput, "record_ids[%d] must be a string or number, got %T", i, id)
			}
		}
		return v, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "record_ids must be a string or an array of strings")
	}
}
