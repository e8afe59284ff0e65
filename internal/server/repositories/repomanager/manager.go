package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophfit/internal/dbx"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/history"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/plans"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// use the same repositories inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Plans(db dbx.DBTX) plans.Repository
	History(db dbx.DBTX) history.Repository
}
