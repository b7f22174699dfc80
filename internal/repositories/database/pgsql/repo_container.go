package pgsql

import (
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider keeps the cache map in Postgres and reads sources through source.
func NewRepositoryProvider(dbPool *pgxpool.Pool, source portsrepo.SourceRepository) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Source:     source,
		CacheEntry: newPgxCacheEntryRepository(dbPool),
	}
}
