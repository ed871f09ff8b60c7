package repositories

// RepositoryProvider holds all storage dependencies needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Store DocumentStore
	Cache Cache // optional
}
