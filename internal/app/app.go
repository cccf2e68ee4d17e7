package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"

	"newsdesk/internal/config"
	"newsdesk/internal/infrastructure/ident"
	"newsdesk/internal/infrastructure/search"
	"newsdesk/internal/infrastructure/storage"
	"newsdesk/internal/infrastructure/unfurl"
	"newsdesk/internal/infrastructure/upload"
	"newsdesk/internal/logging"
	"newsdesk/internal/rest"
	"newsdesk/internal/usecase"
)

// Application wires configs to use cases and the HTTP surface.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repository := storage.NewPostgresRepository(db)
	articleSearch := search.NewPostgresSearch(db)

	uploads, err := upload.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("init upload store: %w", err)
	}

	editor := usecase.NewEditorService(usecase.EditorDeps{
		Repository: repository,
		Search:     articleSearch,
		Uploads:    uploads,
		Unfurler:   unfurl.NewClient(nil),
		Allocator:  ident.NewUUIDAllocator(),
		Widgets:    usecase.DefaultWidgets(),
		Logger:     logging.Component(baseLogger, "editor"),
	})

	restServer := rest.NewServer(editor, repository, cfg.Editor.SearchDebounce(),
		logging.Component(baseLogger, "rest"))

	mux := restServer.Routes()
	mux.Handle("GET /media/", http.StripPrefix("/media/",
		http.FileServer(http.Dir(cfg.Uploads.Dir))))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		db:     db,
		server: &http.Server{Addr: cfg.Server.Addr, Handler: mux},
	}, nil
}

// Run serves HTTP until the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown(context.Background())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

// Shutdown stops the HTTP server and closes the database.
func (a *Application) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if closeErr := a.db.Close(); err == nil {
		err = closeErr
	}
	return err
}
