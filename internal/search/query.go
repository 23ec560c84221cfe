package search

// KeywordQuery weights review text over product name over brand and adds a
// phrase boost on the review text.
func KeywordQuery(query string, page, size int) map[string]any {
	if page < 1 {
		page = 1
	}
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{
						"multi_match": map[string]any{
							"query":     query,
							"fields":    []string{"review_text^3", "product_name^2", "product_brand"},
							"type":      "best_fields",
							"fuzziness": "AUTO",
						},
					},
					map[string]any{
						"match_phrase": map[string]any{
							"review_text": map[string]any{"query": query, "boost": 2.0},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"size": size * 2,
		"from": (page - 1) * size,
		"sort": []any{
			map[string]any{"_score": map[string]any{"order": "desc"}},
			map[string]any{"rating": map[string]any{"order": "desc"}},
			map[string]any{"helpful_count": map[string]any{"order": "desc"}},
		},
	}
}

// VectorQuery scores every review by cosine similarity + 1 and drops anything
// below 1.1.
func VectorQuery(vec []float32, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"script_score": map[string]any{
				"query": map[string]any{"match_all": map[string]any{}},
				"script": map[string]any{
					"source": "cosineSimilarity(params.query_vector, 'review_embedding') + 1.0",
					"params": map[string]any{"query_vector": vec},
				},
			},
		},
		"size":      size * 2,
		"min_score": 1.1,
	}
}

// IndexMapping is the review index definition. dims <= 0 leaves out the
// vector field.
func IndexMapping(dims int) map[string]any {
	props := map[string]any{
		"review_id":     map[string]any{"type": "keyword"},
		"review_text":   map[string]any{"type": "text"},
		"rating":        map[string]any{"type": "float"},
		"helpful_count": map[string]any{"type": "integer"},
		"product_no":    map[string]any{"type": "keyword"},
		"product_name":  map[string]any{"type": "text"},
		"product_brand": map[string]any{"type": "text"},
		"member_id":     map[string]any{"type": "keyword"},
		"created_at":    map[string]any{"type": "date"},
	}
	if dims > 0 {
		props["review_embedding"] = map[string]any{"type": "dense_vector", "dims": dims, "index": true, "similarity": "cosine"}
	}
	return map[string]any{"mappings": map[string]any{"properties": props}}
}
