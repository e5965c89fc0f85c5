package nocodb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/integrations"
)

// truncatePageSize is the page size used to collect ids before a truncate.
const truncatePageSize = 100

type recordsResponse struct {
	Records []Record `json:"records"`
}

// RetrieveRecords reads records of a table. It returns the records and the
// query parameters that were sent.
func (c *Client) RetrieveRecords(ctx context.Context, baseID, table string, q Query) ([]Record, url.Values, error) {
	if q.Limit < 0 || q.Offset < 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "limit and offset must not be negative")
	}
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return nil, nil, err
	}
	params := q.values()

	var resp recordsResponse
	req := integrations.Request{Method: http.MethodGet, URL: c.dataURL(baseID, id, "records"), Query: params}
	if _, err := c.call(ctx, "RETRIEVE_RECORDS", req, &resp); err != nil {
		return nil, params, err
	}
	if resp.Records == nil {
		resp.Records = []Record{}
	}
	return resp.Records, params, nil
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("pageSize", strconv.Itoa(q.Limit))
		if q.Offset > 0 {
			v.Set("page", strconv.Itoa(q.Offset/q.Limit+1))
		}
	}
	if q.Fields != "" {
		v.Set("fields", q.Fields)
	}
	if q.Where != "" {
		v.Set("where", q.Where)
	}
	if q.Sort != "" {
		field, dir := q.Sort, "asc"
		if strings.HasPrefix(field, "-") {
			field, dir = field[1:], "desc"
		}
		data, _ := json.Marshal([]map[string]string{{"field": field, "direction": dir}})
		v.Set("sort", string(data))
	}
	return v
}

// CountRecords counts records, optionally filtered by a where expression.
func (c *Client) CountRecords(ctx context.Context, baseID, table, where string) (int, error) {
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return 0, err
	}
	req := integrations.Request{Method: http.MethodGet, URL: c.dataURL(baseID, id, "count")}
	if where != "" {
		req.Query = url.Values{"where": {where}}
	}
	var resp struct {
		Count json.Number `json:"count"`
	}
	if _, err := c.call(ctx, "COUNT_RECORDS", req, &resp); err != nil {
		return 0, err
	}
	n, err := resp.Count.Int64()
	if err != nil && resp.Count != "" {
		return 0, errors.Wrap(errors.ErrCodeAPI, err, "unexpected count %q", resp.Count)
	}
	return int(n), nil
}

// CreateRecords inserts records given as field maps.
func (c *Client) CreateRecords(ctx context.Context, baseID, table string, records []map[string]any) ([]Record, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no records given")
	}
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return nil, err
	}
	payload := make([]map[string]any, len(records))
	for i, rec := range records {
		payload[i] = map[string]any{"fields": rec}
	}
	var resp recordsResponse
	req := integrations.Request{Method: http.MethodPost, URL: c.dataURL(baseID, id, "records"), Body: payload}
	if _, err := c.call(ctx, "CREATE_RECORDS", req, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// UpdateRecords patches records by id.
func (c *Client) UpdateRecords(ctx context.Context, baseID, table string, updates []RecordUpdate) ([]Record, error) {
	if len(updates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no updates given")
	}
	payload := make([]map[string]any, len(updates))
	for i, u := range updates {
		if u.ID == nil || u.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "update %d has no id", i)
		}
		payload[i] = map[string]any{"id": u.ID, "fields": u.Data}
	}
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return nil, err
	}
	var resp recordsResponse
	req := integrations.Request{Method: http.MethodPatch, URL: c.dataURL(baseID, id, "records"), Body: payload}
	if _, err := c.call(ctx, "UPDATE_RECORDS", req, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// DeleteRecords deletes records by id and returns how many were removed.
func (c *Client) DeleteRecords(ctx context.Context, baseID, table string, ids []any) (int, error) {
	if len(ids) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no record ids given")
	}
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return 0, err
	}
	return c.deleteByID(ctx, "DELETE_RECORDS", baseID, id, ids)
}

func (c *Client) deleteByID(ctx context.Context, op, baseID, tableID string, ids []any) (int, error) {
	payload := make([]map[string]any, len(ids))
	for i, id := range ids {
		payload[i] = map[string]any{"id": id}
	}
	var resp recordsResponse
	req := integrations.Request{Method: http.MethodDelete, URL: c.dataURL(baseID, tableID, "records"), Body: payload}
	status, err := c.call(ctx, op, req, &resp)
	if err != nil {
		return 0, err
	}
	if status == http.StatusNoContent || resp.Records == nil {
		return len(payload), nil
	}
	return len(resp.Records), nil
}

// TruncateTable deletes every record of a table and returns how many were
// removed.
func (c *Client) TruncateTable(ctx context.Context, baseID, table string) (int, error) {
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return 0, err
	}

	var ids []any
	seen := map[string]bool{}
	for page := 1; ; page++ {
		var resp recordsResponse
		req := integrations.Request{
			Method: http.MethodGet,
			URL:    c.dataURL(baseID, id, "records"),
			Query:  url.Values{"page": {strconv.Itoa(page)}, "pageSize": {strconv.Itoa(truncatePageSize)}},
		}
		if _, err := c.call(ctx, "TRUNCATE_TABLE", req, &resp); err != nil {
			return 0, err
		}
		fresh := 0
		for _, rec := range resp.Records {
			rid, ok := recordID(rec)
			if !ok || seen[rid] {
				continue
			}
			seen[rid] = true
			ids = append(ids, rid)
			fresh++
		}
		// A server that ignores paging repeats the first page.
		if len(resp.Records) < truncatePageSize || fresh == 0 {
			break
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := c.deleteByID(ctx, "TRUNCATE_TABLE", baseID, id, ids)
	if err != nil {
		return 0, err
	}
	c.logger.Info("truncated table", "base", baseID, "table", table, "records", n)
	return n, nil
}

func recordID(rec Record) (string, bool) {
	for _, k := range []string{"id", "Id", "ID"} {
		if v, ok := rec[k]; ok && v != nil {
			return fmt.Sprint(v), true
		}
	}
	return "", false
}
