package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/phsym/console-slog"

	"github.com/schctl/nerdwm/internal/api"
	"github.com/schctl/nerdwm/internal/build"
	"github.com/schctl/nerdwm/internal/config"
	"github.com/schctl/nerdwm/internal/core"
	"github.com/schctl/nerdwm/internal/wm"
	"github.com/schctl/nerdwm/internal/x11"
	"github.com/schctl/nerdwm/pkg/sutureext"
)

type Options struct {
	Debug  bool   `doc:"enable debug"`
	API    bool   `doc:"serve the status api"`
	Host   string `doc:"host to listen on"`
	Port   int    `doc:"port to listen on" default:"8080"`
	Config string `doc:"config file" default:".nerdwm.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(config.NewYAML(configFilePath))
			if err != nil {
				return err
			}

			rawCfg, err := store.GetConfig()
			if err != nil {
				return err
			}
			cfg, err := config.Parse(rawCfg)
			if err != nil {
				return err
			}

			if options.Debug {
				pp.Println(rawCfg)
			}

			conn, err := x11.Connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			manager, err := wm.NewManager(conn, cfg)
			if err != nil {
				return err
			}

			super := sutureext.NewSimple("nerdwm")
			sutureext.Add(super, manager)
			if options.API {
				sutureext.Add(super, api.NewServer(core.Address(options.Host, options.Port), manager))
			}

			err = super.Serve(ctx)
			if errors.Is(err, wm.ErrQuit) {
				// The quit binding is a clean shutdown.
				return nil
			}
			return err
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
