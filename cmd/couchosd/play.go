package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/app"
	"github.com/depeter/couchosd/internal/config"
	"github.com/depeter/couchosd/internal/jellyfin"
	"github.com/depeter/couchosd/internal/looper"
	"github.com/depeter/couchosd/internal/player"
)

// reportDrainTimeout bounds how long shutdown waits for the last playback reports.
const reportDrainTimeout = 5 * time.Second

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("item", "i", "", "Jellyfin item id to play, queued with the rest of its season")
	playCmd.Flags().DurationP("start", "s", 0, "start position, e.g. 1m30s")
}

var playCmd = &cobra.Command{
	Use:   "play [url...]",
	Short: "Play files, URLs or a Jellyfin item",
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, _ := cmd.Flags().GetString("item")
		start, _ := cmd.Flags().GetDuration("start")
		if len(args) == 0 && itemID == "" {
			return errors.New("play: give urls or --item")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return play(ctx, cfg, log, app.Source{URLs: args, Start: start}, itemID)
	},
}

func play(ctx context.Context, cfg *config.Config, log *zap.Logger, src app.Source, itemID string) error {
	loop := looper.New(clockwork.NewRealClock())

	var reporter *jellyfin.Reporter
	if itemID != "" {
		client, err := connect(cfg)
		if err != nil {
			return err
		}
		if err := queueItem(ctx, client, itemID, &src); err != nil {
			return err
		}
		reporter = jellyfin.NewReporter(client, loop.Clock(), log.Named("report"))
		reportCtx, cancelReports := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- reporter.Run(reportCtx) }()
		defer func() {
			reporter.Close()
			select {
			case <-done:
			case <-time.After(reportDrainTimeout):
				log.Warn("playback reports not sent before exit")
			}
			cancelReports()
		}()
	}

	var (
		mpv     *player.MPV
		session *app.Session
	)
	defer func() {
		if mpv != nil {
			mpv.Close()
		}
	}()

	// mpv embeds into the game window, which exists once the first frame runs.
	startSession := func() (*app.Session, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wid, err := player.FocusedWindow()
		if err != nil {
			log.Warn("no window to embed into, mpv opens its own", zap.Error(err))
		}
		mpv, err = player.New(cfg, loop, log.Named("mpv"), player.Options{WindowID: wid})
		if err != nil {
			return nil, err
		}
		panel := player.NewTrackPanel(mpv, log.Named("tracks"))
		session = app.NewSession(app.Deps{
			Config:   cfg,
			Loop:     loop,
			Log:      log.Named("session"),
			Backend:  mpv,
			Screen:   player.NewOSD(mpv, panel, log.Named("osd")),
			Panel:    panel,
			Reporter: reporter,
		})
		if err := session.Start(src); err != nil {
			return nil, err
		}
		return session, nil
	}

	go func() {
		<-ctx.Done()
		loop.Post(func() {
			if session != nil {
				session.Stop()
			}
		})
	}()

	game, err := app.NewGame(cfg, startSession, app.WatchRemote(ctx, log.Named("remote")), log)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle("CouchOSD")
	ebiten.SetWindowIcon(app.Icons())
	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)
	ebiten.SetRunnableOnUnfocused(true)
	return ebiten.RunGame(game)
}

func connect(cfg *config.Config) (*jellyfin.Client, error) {
	if cfg.Server.URL == "" || cfg.Server.Token == "" {
		return nil, errors.New("not signed in to a Jellyfin server, run couchosd login first")
	}
	client := jellyfin.NewClient(cfg.Server.URL)
	client.SetToken(cfg.Server.Token, cfg.Server.UserID)
	return client, nil
}

// queueItem fills src with itemID and the rest of its season.
func queueItem(ctx context.Context, client *jellyfin.Client, itemID string, src *app.Source) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	item, err := client.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	q, err := client.LoadQueue(ctx, *item, nil)
	if err != nil {
		return err
	}
	src.Items = q.Items()
	src.Current = item.ID
	src.Streams = client
	return nil
}
