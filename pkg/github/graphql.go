package github

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const graphQLEndpoint = "https://api.github.com/graphql"

// GraphQLClient posts queries against the GitHub GraphQL API. The board
// surface (Projects v2) is GraphQL-only, so the REST client can't cover
// it.
type GraphQLClient struct {
	ctx      context.Context
	httpc    *http.Client
	endpoint string
}

func NewGraphQLClient(ctx context.Context, httpc *http.Client) *GraphQLClient {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &GraphQLClient{
		ctx:      ctx,
		httpc:    httpc,
		endpoint: graphQLEndpoint,
	}
}

// Query runs one GraphQL query or mutation and returns the data payload.
// GraphQL-level errors are surfaced as Go errors even when the transport
// succeeds.
func (c *GraphQLClient) Query(query string, variables map[string]interface{}) (gjson.Result, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return gjson.Result{}, errors.Wrap(err, "could not marshal graphql request")
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, errors.Wrap(err, "could not build graphql request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return gjson.Result{}, errors.Wrap(err, "graphql request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, errors.Wrap(err, "could not read graphql response")
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, errors.Errorf("graphql request returned %s: %s", resp.Status, string(raw))
	}

	parsed := gjson.ParseBytes(raw)
	if gqlErrs := parsed.Get("errors"); gqlErrs.Exists() && len(gqlErrs.Array()) > 0 {
		return gjson.Result{}, errors.Errorf("graphql error: %s", gqlErrs.Array()[0].Get("message").String())
	}

	return parsed.Get("data"), nil
}
