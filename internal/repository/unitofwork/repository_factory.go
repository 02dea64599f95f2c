package unitofwork

import "context"

// RepositoryFactory hands out request-scoped units of work. Services depend
// on this instead of *gorm.DB so tests can swap in in-memory fakes.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
