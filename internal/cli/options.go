package cli

import (
	"context"

	"romkit/internal/pkgmeta"
	"romkit/internal/romcheck"
)

// LatestFetcher reports the newest published version of a package.
type LatestFetcher interface {
	Latest(ctx context.Context, name string) (string, error)
}

// Option injects collaborators, mainly for tests.
type Option func(*options)

type options struct {
	verifier romcheck.Verifier
	querier  pkgmeta.Querier
	latest   LatestFetcher
}

// WithVerifier replaces the configured ROM verifier.
func WithVerifier(v romcheck.Verifier) Option {
	return func(o *options) {
		o.verifier = v
	}
}

// WithQuerier replaces the interpreter-backed package querier.
func WithQuerier(q pkgmeta.Querier) Option {
	return func(o *options) {
		o.querier = q
	}
}

// WithLatestFetcher replaces the PyPI client.
func WithLatestFetcher(f LatestFetcher) Option {
	return func(o *options) {
		o.latest = f
	}
}
