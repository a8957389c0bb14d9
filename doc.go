// Package powerfulcases resolves named power-system test case bundles to
// local directories of data files (grid topology, dynamic-model parameters),
// downloading remote cases into a per-user cache on first use.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the Manager interface - Applications can use
//     NewManager to create a Manager that loads cases, lists collections,
//     downloads remote cases, and manages the cache.
//
//  2. Embeddable CLI via NewCommand - Parent CLI tools can attach a complete
//     "cases" subcommand tree to their Cobra root command, providing commands
//     like "mytool cases list", "mytool cases download", etc.
//
// # Loading cases
//
// A case is loaded by bare name ("ieee14"), by collection-qualified name
// ("ieee-transmission/ieee14"), or by a path to a local directory. Bare names
// are searched across every bundled collection and the remote registry at
// once; if the same name exists in more than one place the load fails with
// ErrAmbiguousCase and the qualified form must be used.
//
//	mgr, _ := powerfulcases.NewManager(powerfulcases.Config{CasesDir: "testdata/cases"})
//	bundle, _ := mgr.Load(ctx, "ieee14")
//	raw, _ := bundle.Raw()                                    // default psse_raw file
//	dyr, _ := bundle.File("dyr", powerfulcases.WithVariant("genrou"))
//
// # Manifests
//
// Each case directory carries a manifest.toml describing its files (format,
// version, variant, default marker, bundled includes) and credits. When no
// manifest exists, one is inferred from the directory's file extensions.
// The manifest reader accepts a deliberately lenient TOML subset so that
// hand-edited manifests load; see the grammar notes in toml.go.
//
// # Cache
//
// Remote cases are downloaded under a per-user cache directory:
//   - Linux: $XDG_CACHE_HOME/powerfulcases/ or ~/.cache/powerfulcases/
//   - macOS: ~/Library/Caches/powerfulcases/
//   - Windows: %LOCALAPPDATA%\powerfulcases\
//
// The location can be overridden via Config.CacheDir or the
// POWERFULCASES_CACHE_DIR environment variable. A cached case is considered
// valid only when its directory contains manifest.toml, so an interrupted
// download is re-fetched on the next load.
//
// # Thread Safety
//
// Manager methods may be called concurrently; the registry snapshot and
// downloads are serialized internally. Operations are otherwise synchronous
// blocking I/O with no background tasks.
package powerfulcases
