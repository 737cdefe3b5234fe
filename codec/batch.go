package codec

import (
	"golang.org/x/sync/errgroup"

	"asn1codec.dev/asn1"
)

// EncodeBatch encodes each value in vs under rule concurrently, one goroutine
// per value via [errgroup.Group], and returns the results in the same order
// as vs. Each value gets its own backend instance and byte buffer, so no
// state is shared across goroutines. If any encode fails, EncodeBatch returns
// the first error (by errgroup's first-error-wins rule) and a nil slice.
func EncodeBatch[T any](cfg Config, rule asn1.CodecRule, vs []T) ([][]byte, error) {
	out := make([][]byte, len(vs))
	var g errgroup.Group
	for i, v := range vs {
		i, v := i, v
		g.Go(func() error {
			b, err := Encode(cfg, rule, v)
			if err != nil {
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeBatch decodes each element of bufs under rule concurrently into a
// freshly allocated *T, returning the results in the same order as bufs. Like
// EncodeBatch, every goroutine owns its own decoder and destination value.
func DecodeBatch[T any](cfg Config, rule asn1.CodecRule, bufs [][]byte) ([]*T, error) {
	out := make([]*T, len(bufs))
	var g errgroup.Group
	for i, b := range bufs {
		i, b := i, b
		g.Go(func() error {
			var v T
			if err := Decode(cfg, rule, b, &v); err != nil {
				return err
			}
			out[i] = &v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
