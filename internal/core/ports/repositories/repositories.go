package repositories

// RepositoryProvider holds the persistence entry point needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UnitOfWork UnitOfWork
}
