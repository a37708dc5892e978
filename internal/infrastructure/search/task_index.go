package search

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// TaskMapping is the index mapping used when the tasks index is first created.
const TaskMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "user_id":     {"type": "long"},
      "title":       {"type": "text"},
      "description": {"type": "text"},
      "priority":    {"type": "keyword"},
      "status":      {"type": "keyword"},
      "updated_at":  {"type": "date"}
    }
  }
}`

// TaskIndex keeps a searchable copy of task text in Elasticsearch.
// The index is never the source of truth: callers re-read hits from the store.
type TaskIndex struct {
	ES      *elasticsearch.Client
	Name    string
	Timeout time.Duration
}

func NewTaskIndex(es *elasticsearch.Client, index string) *TaskIndex {
	return &TaskIndex{ES: es, Name: index, Timeout: 3 * time.Second}
}

func (x *TaskIndex) Index(ctx context.Context, t *entity.Task) error {
	doc := map[string]any{
		"id":         t.ID,
		"user_id":    t.UserID,
		"title":      t.Title,
		"priority":   t.Priority,
		"status":     t.Status,
		"updated_at": t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.Description != nil {
		doc["description"] = *t.Description
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Name, DocumentID: strconv.FormatInt(t.ID, 10), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return &helpers.ESResponseError{Status: res.Status()}
	}
	return nil
}

func (x *TaskIndex) Remove(ctx context.Context, taskID int64) error {
	req := esapi.DeleteRequest{Index: x.Name, DocumentID: strconv.FormatInt(taskID, 10)}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 404 means it was never indexed; nothing to remove.
	if res.IsError() && res.StatusCode != 404 {
		return &helpers.ESResponseError{Status: res.Status()}
	}
	return nil
}

// Search returns ids of the user's tasks matching q, best match first.
func (x *TaskIndex) Search(ctx context.Context, userID int64, q string, size int) ([]int64, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"title^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id": userID}},
				},
			},
		},
		"size":    size,
		"_source": []string{"id"},
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Name), x.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, &helpers.ESResponseError{Status: res.Status()}
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
