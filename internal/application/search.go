package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
)

// ProfileIndexer mirrors approved profiles into Elasticsearch so the browse
// endpoint can search them. Indexing is best-effort; postgres remains the
// source of truth.
type ProfileIndexer struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewProfileIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *ProfileIndexer {
	return &ProfileIndexer{ES: es, Index: index, Logger: logger}
}

func (ix *ProfileIndexer) enabled() bool {
	return ix != nil && ix.ES != nil && ix.Index != ""
}

func (ix *ProfileIndexer) IndexProfile(ctx context.Context, p *entity.Profile) error {
	if !ix.enabled() {
		return nil
	}
	doc := map[string]any{
		"id":             p.ID,
		"name":           p.Name,
		"gender":         p.Gender,
		"marital_status": p.MaritalStatus,
		"religion":       p.Religion,
		"country":        p.Country,
		"mother_tongue":  p.MotherTongue,
		"occupation":     p.Occupation,
		"height_cm":      p.HeightCM,
		"is_approved":    p.IsApproved,
		"updated_at":     p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: ix.Index, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		if ix.Logger != nil {
			ix.Logger.WithError(err).WithField("profile_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && ix.Logger != nil {
		ix.Logger.WithField("status", res.Status()).WithField("profile_id", p.ID).Warn("es index response error")
	}
	return nil
}

func (ix *ProfileIndexer) DeleteProfile(ctx context.Context, profileID string) error {
	if !ix.enabled() {
		return nil
	}
	req := esapi.DeleteRequest{Index: ix.Index, DocumentID: profileID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		if ix.Logger != nil {
			ix.Logger.WithError(err).WithField("profile_id", profileID).Warn("es delete failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	return nil
}

// Search performs a multi_match over the indexed demographic fields,
// restricted to approved profiles.
func (ix *ProfileIndexer) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if !ix.enabled() {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"name^2", "occupation", "country", "religion", "mother_tongue"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"is_approved": true},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(c),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
