package preflight

import (
	"context"

	"golang.org/x/sys/unix"

	"romkit/internal/config"
	"romkit/internal/pkgmeta"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, querier pkgmeta.Querier) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckInterpreter(cfg.Python.Interpreter),
		CheckDirectoryAccess("ROM directory", cfg.Paths.RomsDir, unix.R_OK|unix.X_OK),
		CheckEnginePackage(ctx, querier, cfg.Engine.Package, cfg.Engine.Registry, cfg.Engine.Image),
	}

	if cfg.UsesCatalog() {
		results = append(results, CheckCatalog(cfg.Verifier.CatalogPath))
	} else if cfg.Engine.ArenaPackage != "" {
		results = append(results, CheckPackage(ctx, querier, cfg.Engine.ArenaPackage))
	}

	if cfg.Cache.Enabled {
		results = append(results, CheckCacheDirectory(cfg.Cache.Path))
	}

	return results
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
