// Package search talks to the Elasticsearch review index used by the hybrid
// review search: a BM25 keyword leg, an optional vector leg, and bulk
// indexing from the database.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"

	applog "commerce/internal/log"
)

// ErrDisabled is returned when no Elasticsearch URL is configured.
var ErrDisabled = errors.New("elasticsearch not configured")

// Doc is one review as stored in the index.
type Doc struct {
	ReviewID     string    `json:"review_id"`
	ReviewText   string    `json:"review_text"`
	Rating       float64   `json:"rating"`
	HelpfulCount int       `json:"helpful_count"`
	ProductNo    string    `json:"product_no"`
	ProductName  string    `json:"product_name"`
	ProductBrand string    `json:"product_brand"`
	MemberID     string    `json:"member_id"`
	CreatedAt    time.Time `json:"created_at"`
	Embedding    []float32 `json:"review_embedding,omitempty"`
}

type Hit struct {
	ID    string
	Score float64
	Doc   Doc
}

// Embedder turns text into the vector space of review_embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

type Client struct {
	es    *elasticsearch.Client
	index string
}

// New returns a disabled client when cfg.URL is empty.
func New(cfg Config) (*Client, error) {
	if cfg.Index == "" {
		cfg.Index = "reviews"
	}
	if cfg.URL == "" {
		return &Client{index: cfg.Index}, nil
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Client{es: es, index: cfg.Index}, nil
}

func (c *Client) Enabled() bool { return c != nil && c.es != nil }

func (c *Client) Index() string {
	if c == nil {
		return ""
	}
	return c.index
}

// Ping checks the cluster answers. A disabled client is healthy.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

// Keyword runs the BM25 leg. It over-fetches 2*size so the merge has room.
func (c *Client) Keyword(ctx context.Context, query string, page, size int) ([]Hit, error) {
	return c.search(ctx, KeywordQuery(query, page, size))
}

// Vector runs the cosine-similarity leg. Scores are shifted back to [-1, 1].
func (c *Client) Vector(ctx context.Context, vec []float32, size int) ([]Hit, error) {
	hits, err := c.search(ctx, VectorQuery(vec, size))
	if err != nil {
		return nil, err
	}
	for i := range hits {
		hits[i].Score -= 1.0
	}
	return hits, nil
}

func (c *Client) search(ctx context.Context, body map[string]any) ([]Hit, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(esutil.NewJSONReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]Hit, error) {
	var resp struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Score  float64 `json:"_score"`
				Source Doc     `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	out := make([]Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		id := h.Source.ReviewID
		if id == "" {
			id = h.ID
		}
		out = append(out, Hit{ID: id, Score: h.Score, Doc: h.Source})
	}
	return out, nil
}

// Count reports how many reviews are indexed.
func (c *Client) Count(ctx context.Context) (int, error) {
	if !c.Enabled() {
		return 0, ErrDisabled
	}
	res, err := c.es.Count(c.es.Count.WithContext(ctx), c.es.Count.WithIndex(c.index))
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("elasticsearch error: %s", res.String())
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, err
	}
	return body.Count, nil
}

// EnsureIndex creates the review index with its mapping when missing.
func (c *Client) EnsureIndex(ctx context.Context, dims int) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(esutil.NewJSONReader(IndexMapping(dims))),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", c.index, res.String())
	}
	applog.Info(nil, "search.index.created", map[string]any{"index": c.index})
	return nil
}

// BulkIndex writes docs keyed by review id and returns how many were indexed.
func (c *Client) BulkIndex(ctx context.Context, docs []Doc) (int, error) {
	if !c.Enabled() {
		return 0, ErrDisabled
	}
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     c.es,
		Index:      c.index,
		NumWorkers: 2,
		FlushBytes: 1 << 20,
	})
	if err != nil {
		return 0, err
	}
	for _, d := range docs {
		b, err := json.Marshal(d)
		if err != nil {
			_ = bi.Close(ctx)
			return 0, fmt.Errorf("encode review %s: %w", d.ReviewID, err)
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: d.ReviewID,
			Body:       bytes.NewReader(b),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err == nil {
					err = fmt.Errorf("%s: %s", res.Error.Type, res.Error.Reason)
				}
				applog.Error(nil, "search.bulk.item.fail", err, map[string]any{"review_id": item.DocumentID})
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return 0, err
		}
	}
	if err := bi.Close(ctx); err != nil {
		return 0, err
	}
	st := bi.Stats()
	return int(st.NumIndexed), nil
}
