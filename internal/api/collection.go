package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/finvoy/spendsheet/internal/domain/record"
)

// CollectionClient performs CRUD and attachment operations against one
// record collection. The backing spreadsheet is implied by the session; row
// numbers are only valid against the most recent List result.
type CollectionClient struct {
	c    *Client
	path string
	// projectScoped marks collections whose attachment operations also
	// require the active project identifier.
	projectScoped bool
}

// Expenses returns the client for the expense collection.
func (c *Client) Expenses() *CollectionClient {
	return &CollectionClient{c: c, path: "/expenses"}
}

// Liabilities returns the client for the liability collection. Its
// attachment operations are project-scoped.
func (c *Client) Liabilities() *CollectionClient {
	return &CollectionClient{c: c, path: "/liabilities", projectScoped: true}
}

// Path returns the collection's resource path.
func (cc *CollectionClient) Path() string {
	return cc.path
}

// List fetches the full collection and assigns each record its sheet row:
// the first element sits just below the header row. A non-array body is
// tolerated as an empty collection and logged, never failed.
func (cc *CollectionClient) List(ctx context.Context) ([]record.Record, error) {
	var raw json.RawMessage
	if err := cc.c.do(ctx, http.MethodGet, cc.path, nil, nil, &raw); err != nil {
		return nil, err
	}

	var fields []record.Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		cc.c.logger.Warn("collection response is not an array, treating as empty",
			"path", cc.path, "error", err)
		return []record.Record{}, nil
	}

	records := make([]record.Record, len(fields))
	for i, f := range fields {
		records[i] = record.Record{Row: i + record.FirstDataRow, Fields: f}
	}
	return records, nil
}

// Create submits a new record. The created row number is not returned;
// callers must List again to learn it.
func (cc *CollectionClient) Create(ctx context.Context, fields record.Fields) error {
	return cc.c.do(ctx, http.MethodPost, cc.path, nil, fields, nil)
}

// Update replaces the record at row wholesale.
func (cc *CollectionClient) Update(ctx context.Context, row int, fields record.Fields) error {
	return cc.c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", cc.path, row), nil, fields, nil)
}

// Delete removes the record at row.
func (cc *CollectionClient) Delete(ctx context.Context, row int) error {
	return cc.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", cc.path, row), nil, nil, nil)
}
