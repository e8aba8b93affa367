package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tishamal/righttoread/server"
	"github.com/tishamal/righttoread/state"
	"github.com/tishamal/righttoread/storage"
	"github.com/tishamal/righttoread/store"
	"github.com/tishamal/righttoread/ttsapi"
)

func runServer(ctx context.Context, _ *cli.Command) (err error) {

	env := state.EnvFromContext(ctx)

	st, err := store.Open(ctx, env.Cfg.Database.Path, env.Log.Named("store"))
	if err != nil {
		return fmt.Errorf("unable to open record database: %w", err)
	}
	defer func() {
		if er := st.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close record database: %w", er))
		}
	}()

	tts := ttsapi.NewClient(&env.Cfg.TTS, env.Rpt, env.Log.Named("tts"))

	objects, err := storage.NewClient(ctx, &env.Cfg.Storage, env.Log.Named("storage"))
	if err != nil {
		return fmt.Errorf("unable to prepare object storage: %w", err)
	}

	srv := server.New(env.Cfg.Server.Listen, st, tts, objects, env.Log.Named("api"))
	if err = srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("admin API server failed: %w", err)
	}

	env.Log.Info("Admin API stopped", zap.Duration("uptime", env.Uptime()))
	return nil
}
