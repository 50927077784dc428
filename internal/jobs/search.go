package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ESSearcher runs posting queries against an Elasticsearch index.
type ESSearcher struct {
	client *elasticsearch.Client
	index  string
}

// NewESSearcher constructs an ESSearcher for the given index.
func NewESSearcher(client *elasticsearch.Client, index string) *ESSearcher {
	if strings.TrimSpace(index) == "" {
		index = "job_postings"
	}
	return &ESSearcher{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns posting ids ranked by relevance.
func (s *ESSearcher) Search(ctx context.Context, filter Filter) ([]string, error) {
	filter = filter.Normalize()
	body, err := json.Marshal(buildQuery(filter))
	if err != nil {
		return nil, err
	}

	from := filter.Offset
	size := filter.Limit
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// Index writes one posting document, replacing any previous version.
func (s *ESSearcher) Index(ctx context.Context, p Posting) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("elasticsearch index %s: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch index %s: %s", p.ID, res.Status())
	}
	return nil
}

func buildQuery(filter Filter) map[string]any {
	must := []any{}
	if filter.Query != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  filter.Query,
				"fields": []string{"title^3", "company^2", "description", "requiredQualifications", "preferredQualifications"},
			},
		})
	}
	var filters []any
	if len(filter.Keywords) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"keywords": filter.Keywords}})
	}
	if filter.Location != "" {
		filters = append(filters, map[string]any{"match": map[string]any{"location": filter.Location}})
	}
	boolQuery := map[string]any{"must": must}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"sort":  []any{"_score", map[string]any{"postedAt": "desc"}},
	}
}
