package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/client/capability"
	"github.com/dmitrijs2005/gophfit/internal/client/config"
	"github.com/dmitrijs2005/gophfit/internal/client/localdb"
	"github.com/dmitrijs2005/gophfit/internal/client/mirror"
	"github.com/dmitrijs2005/gophfit/internal/client/pipeline"
	"github.com/dmitrijs2005/gophfit/internal/client/planner"
	"github.com/dmitrijs2005/gophfit/internal/client/reconcile"
	"github.com/dmitrijs2005/gophfit/internal/client/remote"
	"github.com/dmitrijs2005/gophfit/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophfit/internal/client/session"
	"github.com/dmitrijs2005/gophfit/internal/filex"
	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/models"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	sess      *session.Store
	pipe      *pipeline.Pipeline
	recon     *reconcile.Reconciler
	store     remote.Store
	generator planner.Generator
	reader    *bufio.Reader
	out       io.Writer
	closers   []func() error

	mu   sync.Mutex
	mode Mode
	chat []models.ChatMessage
}

// NewApp wires the client: local database, mirror, remote store, AI
// generator, reconciler and mutation pipeline.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, err
	}

	if err := filex.EnsureParentDir(c.DBPath); err != nil {
		return nil, err
	}
	db, err := localdb.Open(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}
	app := &App{
		config:  c,
		logger:  logger,
		sess:    session.NewStore(),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []func() error{db.Close},
		mode:    ModeDisabled,
	}

	kvRepo := kv.NewSQLiteRepository(db)

	m, err := newMirror(ctx, kvRepo, c.MirrorPassphrase, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	if c.RemoteBackend == config.BackendGRPC {
		grpcStore, err := remote.NewGRPCStore(ctx, c.ServerEndpointAddr, kvRepo, logger,
			remote.WithCallTimeout(c.RemoteCallTimeout))
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.store = grpcStore
		app.closers = append(app.closers, grpcStore.Close)
		app.mode = ModeOffline
	}

	if gen, err := newGenerator(c, logger); err != nil {
		logger.Warn(ctx, "AI features disabled", "error", err)
	} else {
		app.generator = gen
	}

	app.recon = reconcile.New(app.sess, m, app.store, logger, reconcile.WithFetchTimeout(c.RemoteCallTimeout))
	app.pipe = pipeline.New(app.sess, m, app.store, logger, pipeline.WithCallTimeout(c.RemoteCallTimeout))
	return app, nil
}

func newMirror(ctx context.Context, store mirror.Store, passphrase string, l logging.Logger) (*mirror.Mirror, error) {
	if passphrase == "" {
		return mirror.New(store, l), nil
	}
	codec, err := mirror.NewSealingCodec(ctx, store, passphrase)
	if err != nil {
		return nil, fmt.Errorf("mirror key: %w", err)
	}
	return mirror.New(store, l, mirror.WithCodec(codec)), nil
}

func newGenerator(c *config.Config, l logging.Logger) (planner.Generator, error) {
	pool, err := capability.NewCredentialPool(c.AIKeys, capability.StrategyByName(c.CredentialStrategy))
	if err != nil {
		return nil, err
	}
	caller := capability.NewCaller(pool, l,
		capability.WithAttempts(c.AIAttempts),
		capability.WithBaseDelay(c.AIBaseDelay),
		capability.WithAttemptTimeout(c.AIAttemptTimeout),
	)

	var model planner.Model
	switch c.AIProvider {
	case config.ProviderOpenAI:
		model = planner.NewOpenAIModel(c.AIModel)
	case config.ProviderGemini, "":
		model = planner.NewGeminiModel(c.AIModel)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", c.AIProvider)
	}
	return planner.NewService(model, caller, l), nil
}

// Close releases the remote connection and the local database.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

// Run reconciles the session, starts the connectivity watcher and blocks in
// the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := a.recon.Listen()
	defer unsubscribe()

	a.start(ctx, a.config.StartURL)

	if pinger, ok := a.store.(remote.Pinger); ok {
		go a.StartOnlineStatusWatcher(ctx, pinger, a.config.OnlineCheckInterval)
	}

	fmt.Fprintln(a.out, "Welcome to GophFit (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// start runs the reconciler and reports where the session landed.
func (a *App) start(ctx context.Context, returnURL string) reconcile.Result {
	res := a.recon.Run(ctx, reconcile.StartOptions{ReturnURL: returnURL})
	for _, n := range res.Notices {
		fmt.Fprintln(a.out, n)
	}
	a.logger.Debug(ctx, "session started", "phase", res.Phase, "step", res.Step)
	return res
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, p remote.Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := p.Ping(pctx)
			cancel()

			if err != nil {
				if a.Mode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode() != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	st := a.sess.Get()
	s := ""
	switch {
	case st.Guest:
		s = "guest "
	case st.Identity != nil:
		s = st.Identity.Email + " "
	}
	if mode := a.Mode(); mode != "" {
		s += string(mode) + " "
	}
	return fmt.Sprintf("(%s%s)", s, st.Step)
}
