// Package cli implements the interactive ClosetKeeper shell: account
// commands, wardrobe collection commands, and image ingestion.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/annavlsk/closetkeeper/internal/catalog"
	"github.com/annavlsk/closetkeeper/internal/clientdb"
	"github.com/annavlsk/closetkeeper/internal/config"
	"github.com/annavlsk/closetkeeper/internal/docstore"
	"github.com/annavlsk/closetkeeper/internal/entitlement"
	"github.com/annavlsk/closetkeeper/internal/filex"
	"github.com/annavlsk/closetkeeper/internal/identity"
	"github.com/annavlsk/closetkeeper/internal/logging"
	"github.com/annavlsk/closetkeeper/internal/media"
	"github.com/annavlsk/closetkeeper/internal/serverdb"
	"github.com/annavlsk/closetkeeper/internal/session"
	"github.com/annavlsk/closetkeeper/internal/users"
)

type App struct {
	config    *config.Config
	session   *session.Manager
	facade    *catalog.Facade
	evaluator *entitlement.Evaluator
	ingestor  *media.Ingestor
	reader    *bufio.Reader

	// cursors remembers the continuation point of the last listing per kind
	// so "more <kind>" can resume it.
	cursors map[catalog.Kind]string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	remoteDB, err := serverdb.Open(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error connecting to catalog database: %s", err.Error())
		return nil, err
	}

	if _, err := filex.EnsureDir(filepath.Dir(c.LocalDBPath)); err != nil {
		log.Printf("error preparing local data directory: %s", err.Error())
		return nil, err
	}

	localDB, err := clientdb.Open(ctx, c.LocalDBPath)
	if err != nil {
		log.Printf("error initializing local database: %s", err.Error())
		return nil, err
	}

	userRepo := users.NewPostgresRepository(remoteDB)
	provider := identity.NewPostgresProvider(userRepo,
		[]byte(c.SecretKey), []byte(c.FederatedSecret), c.AccessTokenValidityDuration, logger)
	cache := identity.NewCache(localDB, logger)
	sess := session.NewManager(cache, provider, logger)

	evaluator := entitlement.NewEvaluator(entitlement.NewPostgresRecordSource(remoteDB), logger)
	store := docstore.NewPostgresStore(remoteDB)
	facade := catalog.NewFacade(store, evaluator, c.PageSize, logger)

	var stripper media.BackgroundStripper
	if c.RemoveBGAPIKey != "" {
		stripper = media.NewRemoveBGClient(c.RemoveBGEndpoint, c.RemoveBGAPIKey, http.DefaultClient)
	}
	storage := media.NewS3Storage(c, http.DefaultClient)
	ingestor := media.NewIngestor(storage, stripper, logger)

	return &App{
		config:    c,
		session:   sess,
		facade:    facade,
		evaluator: evaluator,
		ingestor:  ingestor,
		reader:    bufio.NewReader(os.Stdin),
		cursors:   map[catalog.Kind]string{},
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.session.Stop()

	if p, err := a.session.Start(ctx); err != nil {
		log.Printf("session restore failed: %s", err.Error())
	} else if p != nil {
		log.Printf("Welcome back, %s", displayName(p))
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

func (a *App) owner() *identity.Principal {
	return a.session.Current()
}

func displayName(p *identity.Principal) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}
