package builder

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/repository"
	"github.com/lexyai/drafter/internal/usecase/precedent"
	"go.uber.org/zap"
)

// setupLookup picks where stored outlines come from: the database when one is
// configured, else the precedent files, else none (prefetched outlines only).
// The returned purge func, when not nil, drops outlines cached below the lookup.
func setupLookup(cfg *config.Config, db *pgxpool.Pool, logger *zap.Logger) (precedent.LookupFunc, func(), error) {
	switch {
	case db != nil:
		logger.Info("Using database precedent lookup")
		return repository.NewPrecedentPostgres(db, cfg.PrecedentCfg.MaxSections).Lookup, nil, nil

	case cfg.HasPrecedentFiles():
		manifest, err := loadManifest(cfg.PrecedentCfg)
		if err != nil {
			return nil, nil, err
		}

		loader, err := precedent.NewLoader(cfg.PrecedentCfg.LoaderCacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("create precedent loader: %w", err)
		}

		logger.Info("Using file precedent lookup", zap.Int("precedents", len(manifest.Precedents)))
		return precedent.NewFileSource(manifest, loader, cfg.PrecedentCfg.MaxSections).Lookup, loader.Purge, nil

	default:
		logger.Info("No precedent source configured, only prefetched outlines are used")
		return nil, nil, nil
	}
}

func loadManifest(cfg config.PrecedentConfig) (*precedent.Manifest, error) {
	if cfg.Manifest != "" {
		return precedent.LoadManifest(cfg.Manifest)
	}
	return precedent.ManifestFromDir(cfg.Dir)
}
