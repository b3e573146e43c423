package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/mbolis/grace-register/config"
	"github.com/mbolis/grace-register/link"
	"github.com/mbolis/grace-register/registration"
	"github.com/mbolis/grace-register/store"
	"github.com/mbolis/grace-register/textgen"
)

// App bundles everything the handlers share. It is built once in main.
type App struct {
	DB *sql.DB
	*oauth.BearerServer
	config.Config

	Configs       *store.ConfigStore
	Submissions   *store.SubmissionStore
	Resolver      *link.Resolver
	Registrations *registration.Service
	Writer        *textgen.Writer
}
