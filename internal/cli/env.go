package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/safewatch/safewatch/internal/config"
	"github.com/safewatch/safewatch/internal/gateway"
	"github.com/safewatch/safewatch/internal/log"
	"github.com/safewatch/safewatch/internal/session"
)

const stateFile = "state.db"

// env bundles the collaborators every command opens.
type env struct {
	home    string
	cfg     *config.Config
	logger  *log.Logger
	store   *session.Store
	session *session.Session
	gw      *gateway.Client
}

func resolveHome() (string, error) {
	if homeDir != "" {
		return homeDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return home, nil
}

// loadConfig reads config.yaml, falling back to defaults when it does not
// exist. A malformed file is an error.
func loadConfig(home string) (*config.Config, error) {
	cfg, err := config.ReadConfig(home)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.DevelopmentURL = serverURL
		cfg.Server.ProductionURL = serverURL
	}
	return cfg, nil
}

func openEnv(ctx context.Context) (*env, error) {
	home, err := resolveHome()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(home)
	if err != nil {
		return nil, err
	}

	stateDir := config.Dir(home)
	logger, err := log.NewLogger(stateDir)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	store, err := session.NewStore(filepath.Join(stateDir, stateFile))
	if err != nil {
		return nil, fmt.Errorf("opening state: %w", err)
	}

	gw := gateway.NewFromConfig(cfg, store, logger)
	if _, err := gw.Restore(ctx); err != nil {
		logger.Warn(log.EventSessionError, "restore cache", err)
	}

	return &env{
		home:    home,
		cfg:     cfg,
		logger:  logger,
		store:   store,
		session: session.New(store, logger),
		gw:      gw,
	}, nil
}

// Close releases the state database.
func (e *env) Close() error {
	return e.store.Close()
}

var errNoAccount = errors.New("no account selected; run: safewatch select <id>")

// account returns the selected account id or errNoAccount.
func (e *env) account(ctx context.Context) (string, error) {
	id, ok := e.session.Load(ctx)
	if !ok {
		return "", errNoAccount
	}
	return id, nil
}
