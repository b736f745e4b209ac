package resolver

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/albapepper/homerlab/internal/config"
)

// PurgeFailedAnalyses deletes failure placeholders older than
// FailedAnalysisTTL and returns how many were removed.
func (r *Resolver) PurgeFailedAnalyses(ctx context.Context) (int, error) {
	docs, err := r.store.List(ctx, config.AnalysisCacheCollection)
	if err != nil {
		return 0, fmt.Errorf("list analyses: %w", err)
	}

	now := r.now()
	purged := 0
	for _, d := range docs {
		var a struct {
			Failed bool `json:"failed"`
		}
		if json.Unmarshal(d.Body, &a) != nil || !a.Failed || d.Age(now) < FailedAnalysisTTL {
			continue
		}
		if err := r.store.Delete(ctx, d.Collection, d.Key); err != nil {
			return purged, fmt.Errorf("delete analysis %s: %w", d.Key, err)
		}
		purged++
	}
	return purged, nil
}
