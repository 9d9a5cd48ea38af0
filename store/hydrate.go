package store

import (
	"context"
	"errors"

	"github.com/plantfabric/assetkit/tree"
)

// Hydrate fetches the attachment bytes for every Document ref in the
// snapshot. Each distinct key is fetched at most once per pass, no
// matter how many nodes reference it; there is no ordering between
// fetches of different keys. Keys the store no longer has are silently
// absent from the result. Any other store failure aborts the pass.
func Hydrate(ctx context.Context, s tree.Snapshot, st Store) (map[string][]byte, error) {
	out := make(map[string][]byte)
	seen := make(map[string]bool)

	for _, n := range s.Nodes {
		for _, doc := range n.Documents {
			if doc.Key == "" || seen[doc.Key] {
				continue
			}
			seen[doc.Key] = true

			data, err := st.Get(ctx, doc.Key)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out[doc.Key] = data
		}
	}

	return out, nil
}
