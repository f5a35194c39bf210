package repository

import (
	"context"

	domainrepo "passport/internal/domain/repository"
)

// StubRepositoryFactory hands out fixed repository mocks inside a transaction.
type StubRepositoryFactory struct {
	Accounts      domainrepo.AccountRepository
	RefreshTokens domainrepo.RefreshTokenRepository
}

func (f *StubRepositoryFactory) AccountRepo() domainrepo.AccountRepository {
	return f.Accounts
}

func (f *StubRepositoryFactory) RefreshTokenRepo() domainrepo.RefreshTokenRepository {
	return f.RefreshTokens
}

// StubTransactionManager runs the callback directly against the stub factory,
// with no real transaction underneath. Commit/rollback semantics are covered
// by the postgres implementation; use-case tests only need the pass-through.
type StubTransactionManager struct {
	Factory *StubRepositoryFactory
}

func (m *StubTransactionManager) Execute(_ context.Context, fn func(domainrepo.RepositoryFactory) error) error {
	return fn(m.Factory)
}
