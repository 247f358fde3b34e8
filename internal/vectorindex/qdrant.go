package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// pointNamespace derives stable Qdrant point ids from arbitrary entity ids.
var pointNamespace = uuid.MustParse("6f1c3d52-8d0e-4d8a-9a55-0b7f2f6f9e31")

// QdrantConfig contains connection details for a Qdrant collection.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// QdrantIndex is a minimal REST client to a Qdrant collection using cosine
// distance. The collection is created on first upsert.
type QdrantIndex struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu          sync.Mutex
	initialized bool
}

// NewQdrantIndex creates a Qdrant-backed index
func NewQdrantIndex(cfg QdrantConfig) *QdrantIndex {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "candidates"
	}
	return &QdrantIndex{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// PointID maps an entity id to the UUID Qdrant stores it under.
func PointID(entityID string) string {
	if id, err := uuid.Parse(entityID); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(pointNamespace, []byte(entityID)).String()
}

// Upsert stores the entry, creating the collection if needed.
func (q *QdrantIndex) Upsert(ctx context.Context, entry Entry) error {
	if entry.EntityID == "" {
		return errors.New("entity id is required")
	}
	if len(entry.Vector) == 0 {
		return errors.New("vector is empty")
	}
	if err := q.ensureCollection(ctx, len(entry.Vector)); err != nil {
		return err
	}

	jobIDs := entry.JobIDs
	if jobIDs == nil {
		jobIDs = []string{}
	}
	body := map[string]any{
		"points": []map[string]any{{
			"id":     PointID(entry.EntityID),
			"vector": entry.Vector,
			"payload": map[string]any{
				"entity_id": entry.EntityID,
				"job_ids":   jobIDs,
			},
		}},
	}
	return q.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points?wait=true", q.collection), body, nil)
}

type qdrantSearchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Query searches the collection. Qdrant reports cosine similarity, which is
// shifted by ScoreOffset into the package's raw score convention.
func (q *QdrantIndex) Query(ctx context.Context, vector []float64, filter QueryFilter, opts QueryOptions) ([]Hit, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	req := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"with_payload":    true,
		"score_threshold": opts.MinSimilarity,
	}
	if filter.JobID != "" {
		req["filter"] = map[string]any{
			"must": []map[string]any{{
				"key":   "job_ids",
				"match": map[string]any{"value": filter.JobID},
			}},
		}
	}

	var resp qdrantSearchResponse
	if err := q.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/search", q.collection), req, &resp); err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		id, _ := r.Payload["entity_id"].(string)
		if id == "" {
			continue
		}
		hits = append(hits, Hit{EntityID: id, RawScore: r.Score + ScoreOffset})
	}
	return hits, nil
}

func (q *QdrantIndex) ensureCollection(ctx context.Context, dimension int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.initialized {
		return nil
	}

	var existing struct {
		Result any `json:"result"`
	}
	if err := q.do(ctx, http.MethodGet, "/collections/"+q.collection, nil, &existing); err == nil {
		q.initialized = true
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := q.do(ctx, http.MethodPut, "/collections/"+q.collection, body, nil); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", q.collection, err)
	}
	q.initialized = true
	return nil
}

func (q *QdrantIndex) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal qdrant request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.url+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build qdrant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
