// Package server wires the chatgraph core together: configuration, the
// database handle, repositories, and the services the mutation dispatch
// layer embeds. The dispatch layer itself (GraphQL engine, transport,
// session handling) lives outside this module.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/chatgraph/internal/logging"
	"github.com/dmitrijs2005/chatgraph/internal/server/config"
	"github.com/dmitrijs2005/chatgraph/internal/server/dataloader"
	"github.com/dmitrijs2005/chatgraph/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chatgraph/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	userService   *services.UserService
	personService *services.PersonService
}

func NewApp(c *config.Config) (*App, error) {

	s := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(s)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	us := services.NewUserService(db, rm, c)
	ps := services.NewPersonService(db, rm, c)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		repomanager:   rm,
		userService:   us,
		personService: ps,
	}, nil
}

// Users exposes the mutation orchestrator to the embedding dispatch layer.
func (app *App) Users() *services.UserService { return app.userService }

// Persons exposes the profile/avatar service to the embedding dispatch layer.
func (app *App) Persons() *services.PersonService { return app.personService }

// NewPersonLoader opens a fresh batch window. The dispatch layer must call
// this once per inbound request and share the loader across that request's
// resolvers.
func (app *App) NewPersonLoader() *dataloader.PersonLoader {
	return services.NewPersonByEmailLoader(app.db, app.repomanager)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run pings the database, applies migrations, and then blocks until the
// context is cancelled or an interrupt arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return
	}

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, err.Error())
		return
	}

	app.logger.Info(ctx, "Ready")

	<-ctx.Done()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	app.logger.Info(ctx, "Stopped")
}
