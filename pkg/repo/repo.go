package repo

import (
	"fmt"
	"path/filepath"

	"github.com/odvcencio/gitodb/pkg/config"
	"github.com/odvcencio/gitodb/pkg/object"
	"github.com/odvcencio/gitodb/pkg/object/badgerdb"
	"go.uber.org/zap"
)

// GitDirName is the repository metadata directory inside the root.
const GitDirName = ".git"

// badgerDirName holds the Badger database when core.backend is "badger".
const badgerDirName = "gitodb-badger"

// Repo represents an opened repository. The root is always explicit; no
// operation consults the process working directory.
type Repo struct {
	RootDir string         // working directory root
	GitDir  string         // .git/ directory
	Store   *object.Store  // content-addressed object store
	Config  *config.Config // settings loaded from .git/gitodb.toml

	log *zap.Logger
}

// Option configures Open and Init.
type Option func(*openOptions)

type openOptions struct {
	log        *zap.Logger
	configPath string
}

// WithLogger sets the logger passed down to the store and walker.
func WithLogger(l *zap.Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithConfigFile reads settings from path instead of .git/gitodb.toml.
func WithConfigFile(path string) Option {
	return func(o *openOptions) {
		o.configPath = path
	}
}

// Open opens the repository rooted at path. path itself must contain
// .git/objects; parent directories are not searched.
func Open(path string, opts ...Option) (*Repo, error) {
	o := openOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}
	gitDir := filepath.Join(abs, GitDirName)

	loose, err := object.NewLoose(filepath.Join(gitDir, "objects"))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	var cfg *config.Config
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(filepath.Join(gitDir, config.FileName))
	}
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	var backend object.Backend = loose
	if cfg.Core.Backend == config.BackendBadger {
		backend, err = badgerdb.Open(filepath.Join(gitDir, badgerDirName))
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
	}

	o.log.Debug("repository opened",
		zap.String("root", abs),
		zap.String("backend", cfg.Core.Backend),
	)
	return &Repo{
		RootDir: abs,
		GitDir:  gitDir,
		Config:  cfg,
		Store: object.NewStore(backend,
			object.WithLogger(o.log),
			object.WithCompressionLevel(cfg.Core.Compression),
		),
		log: o.log,
	}, nil
}

// Close releases the object store backend.
func (r *Repo) Close() error {
	return r.Store.Close()
}
