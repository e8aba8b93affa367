package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/tishamal/righttoread/state"
	"github.com/tishamal/righttoread/store"
)

func initDatabase(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	env.Overwrite = cmd.Bool("overwrite")
	path := env.Cfg.Database.Path

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if !env.Overwrite {
			return fmt.Errorf("database file '%s' already exists, use --overwrite to replace it", path)
		}
		env.Log.Warn("Replacing existing database", zap.String("path", path))
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("unable to remove existing database: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// nothing to do
	default:
		return fmt.Errorf("unable to check database file '%s': %w", path, err)
	}

	st, err := store.Open(ctx, path, env.Log.Named("store"))
	if err != nil {
		return fmt.Errorf("unable to create record database: %w", err)
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("unable to close record database: %w", err)
	}

	env.Log.Info("Record database ready", zap.String("path", path))
	return nil
}
