package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/necohost/pos/internal/models"
)

func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Menu, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Menu `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	menus := make([]models.Menu, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		menus[i] = hit.Source
	}
	return r.Hits.Total.Value, menus, nil
}

// IndexMenu writes (or rewrites) one menu document into the index.
func IndexMenu(ctx context.Context, es *elasticsearch.Client, index string, menu models.Menu) error {
	data, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("index menu: marshal: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(menu.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index menu %d: %w", menu.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index menu %d: %s", menu.ID, res.Status())
	}
	return nil
}

// DeleteMenu removes a menu document; a missing document is not an error.
func DeleteMenu(ctx context.Context, es *elasticsearch.Client, index string, menuID uint) error {
	res, err := es.Delete(
		index,
		strconv.FormatUint(uint64(menuID), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete menu %d from index: %w", menuID, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete menu %d from index: %s", menuID, res.Status())
	}
	return nil
}
