package flann

import (
	"context"
	"encoding/gob"

	"github.com/ceccocats/flann/index/hkmeans"
	"github.com/ceccocats/flann/persist"
)

// Codec is implemented by anything that can round-trip through gob, the
// contract package index/hkmeans.Index satisfies via GobEncode/GobDecode.
type Codec interface {
	gob.GobEncoder
	gob.GobDecoder
}

// SaveIndex serializes idx and writes it, zstd-compressed, to store under
// name.
func SaveIndex(ctx context.Context, store persist.Store, name string, idx Codec) error {
	raw, err := idx.GobEncode()
	if err != nil {
		return err
	}
	compressed, err := persist.Compress(raw)
	if err != nil {
		return err
	}
	return store.Save(ctx, name, compressed)
}

// LoadIndex reads name from store, decompresses it, and decodes it into
// idx. idx must already be constructed (via hkmeans.New) against the same
// dataset the forest was originally built over.
func LoadIndex(ctx context.Context, store persist.Store, name string, idx Codec) error {
	compressed, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	raw, err := persist.Decompress(compressed)
	if err != nil {
		return err
	}
	return idx.GobDecode(raw)
}

var _ Codec = (*hkmeans.Index)(nil)
