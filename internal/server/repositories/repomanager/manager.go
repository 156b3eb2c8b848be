package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/feedbackportal/internal/dbx"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/acknowledgements"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/comments"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/requests"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/tags"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either a *sql.DB or a *sql.Tx,
// so services can compose several of them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Feedback(db dbx.DBTX) feedback.Repository
	Tags(db dbx.DBTX) tags.Repository
	Acknowledgements(db dbx.DBTX) acknowledgements.Repository
	Comments(db dbx.DBTX) comments.Repository
	Requests(db dbx.DBTX) requests.Repository
}
