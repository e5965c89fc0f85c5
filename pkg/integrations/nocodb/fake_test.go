package nocodb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/mcptools/pkg/cache"
)

const (
	testBase  = "p_test"
	testToken = "secret"
)

// fakeNocoDB is an in-memory stand-in for the NocoDB meta and data APIs.
type fakeNocoDB struct {
	mu        sync.Mutex
	tables    []*Table
	records   map[string][]Record
	nextID    int
	listCalls int
	lastQuery url.Values
	lastBody  any
}

func newFake() *fakeNocoDB {
	return &fakeNocoDB{records: map[string][]Record{}}
}

func (f *fakeNocoDB) id(prefix string) string {
	f.nextID++
	return prefix + strconv.Itoa(f.nextID)
}

// addTable registers a table with an auto-increment "Id" primary key plus
// the given column titles.
func (f *fakeNocoDB) addTable(title, typ string, columns ...string) *Table {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &Table{ID: f.id("m"), Title: title, Type: typ}
	t.Columns = append(t.Columns, Column{ID: f.id("c"), Title: "Id", UIDT: "ID", PK: true, AI: true, RQD: true})
	for _, name := range columns {
		t.Columns = append(t.Columns, Column{ID: f.id("c"), Title: name, UIDT: "SingleLineText"})
	}
	f.tables = append(f.tables, t)
	return t
}

func (f *fakeNocoDB) table(id string) *Table {
	for _, t := range f.tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (f *fakeNocoDB) column(id string) *Column {
	for _, t := range f.tables {
		for i := range t.Columns {
			if t.Columns[i].ID == id {
				return &t.Columns[i]
			}
		}
	}
	return nil
}

func (f *fakeNocoDB) seed(tableID string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for range n {
		f.nextID++
		f.records[tableID] = append(f.records[tableID], Record{"id": f.nextID, "fields": map[string]any{"Name": fmt.Sprint("row ", f.nextID)}})
	}
}

func (f *fakeNocoDB) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/meta/bases/{base}/tables", f.listTables)
	mux.HandleFunc("POST /api/v2/meta/bases/{base}/tables", f.createTable)
	mux.HandleFunc("GET /api/v2/meta/tables/{id}", f.getTable)
	mux.HandleFunc("PATCH /api/v2/meta/tables/{id}", f.patchTable)
	mux.HandleFunc("DELETE /api/v2/meta/tables/{id}", f.deleteTable)
	mux.HandleFunc("POST /api/v2/meta/tables/{id}/columns", f.createColumn)
	mux.HandleFunc("PATCH /api/v2/meta/columns/{id}", f.patchColumn)
	mux.HandleFunc("DELETE /api/v2/meta/columns/{id}", f.deleteColumn)
	mux.HandleFunc("GET /api/v3/data/{base}/{table}/records", f.listRecords)
	mux.HandleFunc("GET /api/v3/data/{base}/{table}/count", f.countRecords)
	mux.HandleFunc("POST /api/v3/data/{base}/{table}/records", f.createRecords)
	mux.HandleFunc("PATCH /api/v3/data/{base}/{table}/records", f.updateRecords)
	mux.HandleFunc("DELETE /api/v3/data/{base}/{table}/records", f.deleteRecords)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xc-token") != testToken {
			http.Error(w, `{"msg":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastQuery = r.URL.Query()
		f.lastBody = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
		}
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeNocoDB) listTables(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("base") != testBase {
		http.Error(w, `{"msg":"Base '`+r.PathValue("base")+`' not found"}`, http.StatusNotFound)
		return
	}
	f.listCalls++
	list := make([]Table, len(f.tables))
	for i, t := range f.tables {
		list[i] = Table{ID: t.ID, Title: t.Title, Type: t.Type}
	}
	writeJSON(w, map[string]any{"list": list})
}

func (f *fakeNocoDB) createTable(w http.ResponseWriter, r *http.Request) {
	body, _ := f.lastBody.(map[string]any)
	t := &Table{ID: f.id("m"), Title: body["title"].(string), TableName: body["table_name"].(string), Type: "table"}
	t.Description, _ = body["description"].(string)
	for _, raw := range body["columns"].([]any) {
		col := raw.(map[string]any)
		t.Columns = append(t.Columns, Column{ID: f.id("c"), Title: col["title"].(string), UIDT: col["uidt"].(string)})
	}
	f.tables = append(f.tables, t)
	writeJSON(w, t)
}

func (f *fakeNocoDB) getTable(w http.ResponseWriter, r *http.Request) {
	t := f.table(r.PathValue("id"))
	if t == nil {
		http.Error(w, `{"msg":"Table not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, t)
}

func (f *fakeNocoDB) patchTable(w http.ResponseWriter, r *http.Request) {
	t := f.table(r.PathValue("id"))
	if t == nil {
		http.Error(w, `{"msg":"Table not found"}`, http.StatusNotFound)
		return
	}
	body, _ := f.lastBody.(map[string]any)
	if v, ok := body["title"].(string); ok {
		t.Title = v
	}
	if v, ok := body["description"].(string); ok {
		t.Description = v
	}
	writeJSON(w, map[string]any{"msg": "The table has been updated successfully"})
}

func (f *fakeNocoDB) deleteTable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.tables = slices.DeleteFunc(f.tables, func(t *Table) bool { return t.ID == id })
	writeJSON(w, true)
}

func (f *fakeNocoDB) createColumn(w http.ResponseWriter, r *http.Request) {
	t := f.table(r.PathValue("id"))
	body, _ := f.lastBody.(map[string]any)
	col := Column{ID: f.id("c"), Title: body["title"].(string), UIDT: body["uidt"].(string)}
	t.Columns = append(t.Columns, col)
	writeJSON(w, col)
}

func (f *fakeNocoDB) patchColumn(w http.ResponseWriter, r *http.Request) {
	col := f.column(r.PathValue("id"))
	if col == nil {
		http.Error(w, `{"msg":"Column not found"}`, http.StatusNotFound)
		return
	}
	body, _ := f.lastBody.(map[string]any)
	if v, ok := body["title"].(string); ok {
		col.Title = v
	}
	if v, ok := body["meta"].(map[string]any); ok {
		col.Meta = v
	}
	writeJSON(w, col)
}

func (f *fakeNocoDB) deleteColumn(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, t := range f.tables {
		t.Columns = slices.DeleteFunc(t.Columns, func(c Column) bool { return c.ID == id })
	}
	writeJSON(w, true)
}

func (f *fakeNocoDB) listRecords(w http.ResponseWriter, r *http.Request) {
	recs := f.records[r.PathValue("table")]
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if size <= 0 {
		size = 25
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	start := max(page-1, 0) * size
	end := min(start+size, len(recs))
	out := []Record{}
	if start < len(recs) {
		out = recs[start:end]
	}
	writeJSON(w, map[string]any{"records": out})
}

func (f *fakeNocoDB) countRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"count": len(f.records[r.PathValue("table")])})
}

func (f *fakeNocoDB) createRecords(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	var out []Record
	for _, raw := range f.lastBody.([]any) {
		f.nextID++
		rec := Record{"id": f.nextID, "fields": raw.(map[string]any)["fields"]}
		f.records[table] = append(f.records[table], rec)
		out = append(out, Record{"id": f.nextID})
	}
	writeJSON(w, map[string]any{"records": out})
}

func (f *fakeNocoDB) updateRecords(w http.ResponseWriter, r *http.Request) {
	var out []Record
	for _, raw := range f.lastBody.([]any) {
		out = append(out, Record{"id": raw.(map[string]any)["id"]})
	}
	writeJSON(w, map[string]any{"records": out})
}

func (f *fakeNocoDB) deleteRecords(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	drop := map[string]bool{}
	for _, raw := range f.lastBody.([]any) {
		drop[fmt.Sprint(raw.(map[string]any)["id"])] = true
	}
	var out []Record
	f.records[table] = slices.DeleteFunc(f.records[table], func(rec Record) bool {
		if drop[fmt.Sprint(rec["id"])] {
			out = append(out, Record{"id": rec["id"]})
			return true
		}
		return false
	})
	writeJSON(w, map[string]any{"records": out})
}

func newTestClient(t *testing.T, f *fakeNocoDB) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return newClientFor(t, srv, testToken)
}

func newClientFor(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	c, err := NewClient(Config{URL: srv.URL, Token: token}, cache.NewMemoryCache(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.SetHTTPClient(srv.Client())
	c.SetRetry(1, time.Millisecond)
	return c
}
