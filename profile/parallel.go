package profile

import (
	"context"

	"github.com/iquod/wod/codec"
	"github.com/iquod/wod/workpool"
)

// DecodeIndexed decodes the records described by index concurrently, each from
// its own cursor over a non-overlapping slice of data. Profiles are returned in
// index order. Error offsets are positions in data. The batch fails as a whole on the first decoding error or when
// cfg.Timeout elapses.
func DecodeIndexed(ctx context.Context, data []byte, index []IndexEntry, cfg workpool.Config, opts ...DecodeOption) ([]Profile, error) {
	dec, err := NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return workpool.Map(ctx, cfg, index, func(_ context.Context, e IndexEntry) (Profile, error) {
		p, _, err := dec.DecodeOne(codec.NewCursorAt(data[:e.End], e.Offset))
		return p, err
	})
}

// DecodeParallel indexes data and decodes every record with DecodeIndexed.
func DecodeParallel(ctx context.Context, data []byte, cfg workpool.Config, opts ...DecodeOption) ([]Profile, error) {
	index, err := BuildIndex(data)
	if err != nil {
		return nil, err
	}

	return DecodeIndexed(ctx, data, index, cfg, opts...)
}
