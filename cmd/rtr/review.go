package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tishamal/righttoread/common"
	"github.com/tishamal/righttoread/review"
	"github.com/tishamal/righttoread/state"
	"github.com/tishamal/righttoread/storage"
	"github.com/tishamal/righttoread/store"
	"github.com/tishamal/righttoread/ttsapi"
)

// changeScript is the JSON shape of the edits file passed to the review
// command. Moves are applied in order, voice and markup keys address
// positions in the order that results from the moves.
type changeScript struct {
	Reorder []struct {
		From int `json:"from"`
		To   int `json:"to"`
	} `json:"reorder"`
	Voice  map[string]string `json:"voice"`
	Markup map[string]string `json:"markup"`
}

func runReview(ctx context.Context, cmd *cli.Command) (err error) {

	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() != 1 {
		return errors.New("exactly one change script is expected")
	}

	speed, err := common.ParseAudioSpeed(cmd.String("speed"))
	if err != nil {
		return err
	}

	var script changeScript
	data, err := os.ReadFile(cmd.Args().Get(0))
	if err != nil {
		return fmt.Errorf("unable to read change script: %w", err)
	}
	if err := json.Unmarshal(data, &script); err != nil {
		return fmt.Errorf("unable to parse change script: %w", err)
	}

	st, err := store.Open(ctx, env.Cfg.Database.Path, env.Log.Named("store"))
	if err != nil {
		return fmt.Errorf("unable to open record database: %w", err)
	}
	defer func() {
		if er := st.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close record database: %w", er))
		}
	}()

	book, page := cmd.String("book"), int(cmd.Int("page"))

	ref, err := st.PageRef(ctx, book, page)
	if err != nil {
		return fmt.Errorf("unable to locate page: %w", err)
	}

	objects, err := storage.NewClient(ctx, &env.Cfg.Storage, env.Log.Named("storage"))
	if err != nil {
		return fmt.Errorf("unable to prepare object storage: %w", err)
	}

	loader := review.NewLoader(objects, env.Log.Named("loader"),
		review.WithDefaultVoice(env.Cfg.Review.DefaultVoice))

	snap, err := loader.Load(ctx, ref)
	if err != nil {
		return fmt.Errorf("unable to load page %d: %w", page, err)
	}

	sess := review.NewSession(snap)
	if err := applyScript(sess, speed, script, env.Cfg.Review.Voices); err != nil {
		return err
	}

	cs := sess.Diff(speed)
	if cs.IsEmpty() {
		env.Log.Info("Script produced no changes", zap.Int("page", page), zap.Stringer("speed", speed))
		return nil
	}

	notes := sess.VersionNotes(speed, cs)
	env.Log.Info("Change set ready", zap.Int("page", page), zap.Stringer("speed", speed), zap.String("notes", notes))

	if cmd.Bool("dry-run") {
		out, err := json.MarshalIndent(cs, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode change set: %w", err)
		}
		fmt.Fprintf(os.Stdout, "%s\n%s\n", out, notes)
		return nil
	}

	orch := review.NewOrchestrator(loader, ttsapi.NewClient(&env.Cfg.TTS, env.Rpt, env.Log.Named("tts")), env.Log.Named("save"))
	if err := orch.Save(ctx, sess, ref, book, speed); err != nil {
		return fmt.Errorf("unable to save page %d: %w", page, err)
	}
	return nil
}

func applyScript(sess *review.Session, speed common.AudioSpeed, script changeScript, voices []string) error {

	// operators may narrow or extend the offered catalogue in configuration
	if len(voices) == 0 {
		voices = review.AvailableVoices()
	}

	count := len(sess.Blocks(speed))
	for _, m := range script.Reorder {
		if m.From < 0 || m.From >= count || m.To < 0 || m.To >= count {
			return fmt.Errorf("move %d -> %d is out of range, page has %d blocks", m.From, m.To, count)
		}
		sess.Reorder(speed, m.From, m.To)
	}

	blockAt := func(pos string) (review.BlockID, error) {
		n, err := strconv.Atoi(pos)
		if err != nil || n < 0 || n >= count {
			return "", fmt.Errorf("position %q is out of range, page has %d blocks", pos, count)
		}
		return sess.Blocks(speed)[n].ID, nil
	}

	for pos, voice := range script.Voice {
		if !slices.Contains(voices, voice) {
			return fmt.Errorf("unknown voice %q, supported: %v", voice, voices)
		}
		id, err := blockAt(pos)
		if err != nil {
			return err
		}
		sess.SetVoice(id, voice)
	}

	for pos, markup := range script.Markup {
		id, err := blockAt(pos)
		if err != nil {
			return err
		}
		sess.SetMarkup(id, markup)
	}
	return nil
}
