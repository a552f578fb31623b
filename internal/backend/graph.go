package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Entity is a knowledge-graph node.
type Entity struct {
	ID   FlexString `json:"id"`
	Text string     `json:"text"`
	Type string     `json:"type"`
}

// Triple is a subject-relation-object statement. Subject and Object are
// entity texts, not ids.
type Triple struct {
	ID       FlexString `json:"id"`
	Subject  string     `json:"subject"`
	Relation string     `json:"relation"`
	Object   string     `json:"object"`
}

// GraphStats summarises the backend graph.
type GraphStats struct {
	Entities     int `json:"entities"`
	Triples      int `json:"triples"`
	Publications int `json:"publications"`
}

func (c *Client) Entities(ctx context.Context) ([]Entity, error) {
	raw, err := c.getList(ctx, "/graph/entities", nil, nil)
	if err != nil {
		return nil, err
	}
	entities, err := decodeList[Entity](raw, "entities", "results")
	if err != nil {
		return nil, fmt.Errorf("decoding entities: %w", err)
	}
	return entities, nil
}

func (c *Client) Triples(ctx context.Context) ([]Triple, error) {
	raw, err := c.getList(ctx, "/graph/triples", nil, nil)
	if err != nil {
		return nil, err
	}
	triples, err := decodeList[Triple](raw, "triples", "results")
	if err != nil {
		return nil, fmt.Errorf("decoding triples: %w", err)
	}
	return triples, nil
}

func (c *Client) GraphStats(ctx context.Context) (*GraphStats, error) {
	var stats GraphStats
	if err := c.do(ctx, http.MethodGet, "/graph/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
