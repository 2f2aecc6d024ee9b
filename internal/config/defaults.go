package config

// Verifier backends.
const (
	BackendPython  = "python"
	BackendCatalog = "catalog"
)

const (
	defaultConfigPath     = "~/.config/romkit/config.toml"
	defaultRomsDir        = "~/.diambra/roms"
	defaultCatalogPath    = "~/.config/romkit/catalog.toml"
	defaultCacheFile      = "romkit.db"
	defaultBackend        = BackendPython
	defaultEnginePackage  = "diambra-engine"
	defaultArenaPackage   = "diambra-arena"
	defaultPyPIURL        = "https://pypi.org/pypi"
	defaultRegistry       = "docker.io"
	defaultEngineImage    = "diambra/engine"
	defaultRequestTimeout = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RomsDir:  defaultRomsDir,
			CacheDir: defaultCacheDir(),
		},
		Verifier: Verifier{
			Backend:     defaultBackend,
			CatalogPath: defaultCatalogPath,
		},
		Cache: Cache{
			Enabled: false,
		},
		Engine: Engine{
			Package:        defaultEnginePackage,
			ArenaPackage:   defaultArenaPackage,
			PyPIURL:        defaultPyPIURL,
			Registry:       defaultRegistry,
			Image:          defaultEngineImage,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
