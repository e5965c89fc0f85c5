package nocodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/mcptools/pkg/errors"
)

// DefaultIndexType is recorded when an index spec names no type.
const DefaultIndexType = "BTREE"

var indexMetaKeys = []string{"indexed", "index_name", "index_type", "unique"}

// CreateIndex records an index on the given columns in their metadata. A
// failure on one column does not stop the others; each outcome is listed in
// the result's operations.
func (c *Client) CreateIndex(ctx context.Context, baseID, table string, spec IndexSpec) (*IndexResult, error) {
	if err := errors.ValidateIdentifier("index name", spec.Name); err != nil {
		return nil, err
	}
	if len(spec.Columns) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "index %q needs at least one column", spec.Name)
	}
	if spec.Type == "" {
		spec.Type = DefaultIndexType
	}
	spec.Type = strings.ToUpper(spec.Type)

	t, err := c.Table(ctx, baseID, table)
	if err != nil {
		return nil, err
	}

	res := &IndexResult{
		IndexName: spec.Name,
		TableName: table,
		Columns:   spec.Columns,
		Unique:    spec.Unique,
		Type:      spec.Type,
	}
	for _, name := range spec.Columns {
		col, ok := findColumn(t.Columns, name)
		if !ok {
			res.Operations = append(res.Operations, fmt.Sprintf("Column '%s' not found", name))
			continue
		}
		meta := col.Meta.Clone()
		meta["index_name"] = spec.Name
		done := fmt.Sprintf("Index metadata added to '%s'", name)
		if spec.Unique {
			meta["unique"] = true
			done = fmt.Sprintf("Unique constraint created on '%s'", name)
		} else {
			meta["indexed"] = true
			meta["index_type"] = spec.Type
		}
		if _, err := c.AlterColumn(ctx, col.ID, map[string]any{"meta": meta}); err != nil {
			res.Operations = append(res.Operations, fmt.Sprintf("Failed to create index on '%s': %s", name, errors.UserMessage(err)))
			continue
		}
		res.Operations = append(res.Operations, done)
	}
	c.logger.Debug("created index", "table", table, "index", spec.Name, "succeeded", res.Succeeded())
	return res, nil
}

// DropIndex removes an index from the metadata of every column that
// carries it.
func (c *Client) DropIndex(ctx context.Context, baseID, table, indexName string) (*IndexResult, error) {
	if err := errors.ValidateIdentifier("index name", indexName); err != nil {
		return nil, err
	}
	t, err := c.Table(ctx, baseID, table)
	if err != nil {
		return nil, err
	}

	res := &IndexResult{IndexName: indexName, TableName: table}
	for _, col := range t.Columns {
		if col.Meta.String("index_name") != indexName {
			continue
		}
		meta := col.Meta.Clone()
		for _, k := range indexMetaKeys {
			delete(meta, k)
		}
		res.Columns = append(res.Columns, col.Title)
		if _, err := c.AlterColumn(ctx, col.ID, map[string]any{"meta": meta}); err != nil {
			res.Operations = append(res.Operations, fmt.Sprintf("Failed to drop index from '%s': %s", col.Title, errors.UserMessage(err)))
			continue
		}
		res.Operations = append(res.Operations, fmt.Sprintf("Index removed from '%s'", col.Title))
	}
	if len(res.Operations) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "Index '%s' not found on table '%s'", indexName, table)
	}
	return res, nil
}

// ListIndexes lists primary keys and the indexes recorded in column
// metadata.
func (c *Client) ListIndexes(ctx context.Context, baseID, table string) ([]Index, error) {
	t, err := c.Table(ctx, baseID, table)
	if err != nil {
		return nil, err
	}
	out := []Index{}
	for _, col := range t.Columns {
		if col.PK {
			out = append(out, Index{
				IndexName:       "PRIMARY_KEY_" + col.Title,
				ColumnName:      col.Title,
				IndexType:       "PRIMARY",
				Unique:          true,
				SystemGenerated: true,
			})
		}
		switch {
		case col.Meta.Bool("unique"):
			out = append(out, Index{
				IndexName:  orDefault(col.Meta.String("index_name"), "UNIQUE_"+col.Title),
				ColumnName: col.Title,
				IndexType:  "UNIQUE",
				Unique:     true,
			})
		case col.Meta.Bool("indexed"):
			out = append(out, Index{
				IndexName:  orDefault(col.Meta.String("index_name"), "INDEX_"+col.Title),
				ColumnName: col.Title,
				IndexType:  orDefault(col.Meta.String("index_type"), DefaultIndexType),
			})
		}
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
