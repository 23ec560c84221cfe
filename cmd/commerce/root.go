package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"commerce/internal/cache"
	"commerce/internal/config"
	"commerce/internal/http/handlers"
	"commerce/internal/repos"
	"commerce/internal/search"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "commerce",
		Short:        "Product recommendation storefront: server, jobs and terminal clients",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newCronCmd(),
		newReindexCmd(),
		newImportCmd(),
		newInitAdminCmd(),
		newBrowseCmd(),
		newChatCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
	)
	return root
}

// setupLogging tees the standard logger into cfg.LogFile when one is set.
func setupLogging(cfg config.Config) func() {
	if cfg.LogFile == "" {
		return func() {}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		return func() {}
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return func() {
		log.SetOutput(os.Stdout)
		f.Close()
	}
}

// stack is the wired backend shared by the server, jobs and admin commands.
type stack struct {
	cfg   config.Config
	db    *sqlx.DB
	cache *cache.Cache
	deps  *handlers.Deps
}

func openStack(cfg config.Config) (*stack, error) {
	db, err := repos.Open(cfg.Driver(), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	sc, err := search.New(search.Config{
		URL:      cfg.ElasticsearchURL,
		Username: cfg.ElasticsearchUser,
		Password: cfg.ElasticsearchPass,
		Index:    cfg.ReviewIndex,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	c := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	return &stack{cfg: cfg, db: db, cache: c, deps: handlers.NewDeps(db, cfg, c, sc)}, nil
}

func (s *stack) Close() {
	_ = s.cache.Close()
	_ = s.db.Close()
}

// withStack loads config, opens the backend, and hands it to fn.
func withStack(fn func(*stack) error) error {
	cfg := config.Load()
	defer setupLogging(cfg)()
	st, err := openStack(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
