package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/editorstate/counter"
	"github.com/delaneyj/editorstate/pkg/config"
	"github.com/delaneyj/editorstate/pkg/logging"
	"github.com/delaneyj/editorstate/pkg/statetree"
	"github.com/delaneyj/editorstate/pkg/teahost"
	"github.com/delaneyj/editorstate/pkg/ui"
	"github.com/urfave/cli/v3"
)

const (
	configKey     = "config"
	noBatchingKey = "no-batching"
	debounceKey   = "debounce"
	initialKey    = "initial"
	pressesKey    = "presses"
)

func main() {
	cmd := &cli.Command{
		Name:  "example",
		Usage: "Reactive counter editor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "Path to a YAML config file",
			},
			&cli.BoolFlag{
				Name:  noBatchingKey,
				Usage: "Re-render on every state change instead of batching",
			},
			&cli.DurationFlag{
				Name:  debounceKey,
				Usage: "Quiet period before a batched re-render",
			},
			&cli.IntFlag{
				Name:  initialKey,
				Usage: "Initial count",
				Value: 3,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the editor in the terminal",
				Action: run,
			},
			{
				Name:  "headless",
				Usage: "Press the increment button and print the resulting element tree",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  pressesKey,
						Usage: "Number of presses, made back to back",
						Value: 5,
					},
				},
				Action: headless,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if path := cmd.String(configKey); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if cmd.Bool(noBatchingKey) {
		cfg.Host.Batching = false
	}
	if d := cmd.Duration(debounceKey); d > 0 {
		cfg.Host.Debounce = d
	}
	logging.Configure(cfg.Logging)
	return cfg, nil
}

func open(cmd *cli.Command) (*config.Config, *statetree.Host, *ui.Box, *counter.Editor, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	root := ui.NewBox("root")
	editor := &counter.Editor{
		Initial: int(cmd.Int(initialKey)),
		Title:   "I am a bottom title.",
	}
	h, err := counter.Open(statetree.NewContext(), root, editor, statetree.WithConfig(cfg.Host))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, h, root, editor, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, h, root, _, err := open(cmd)
	if err != nil {
		return err
	}
	m := teahost.New(h, root, cfg.Host.TickInterval)
	if err := teahost.Run(m); err != nil {
		return err
	}
	return m.Err()
}

func headless(ctx context.Context, cmd *cli.Command) error {
	cfg, h, root, editor, err := open(cmd)
	if err != nil {
		return err
	}
	defer h.Close()

	presses := int(cmd.Int(pressesKey))
	for i := 0; i < presses; i++ {
		if !root.Press(counter.IncrementKey) {
			return fmt.Errorf("no button bound to %q", counter.IncrementKey)
		}
	}
	for h.Scheduler().Pending() {
		time.Sleep(cfg.Host.TickInterval)
		if err := h.Tick(time.Now()); err != nil {
			return err
		}
	}

	ui.Dump(os.Stdout, root)
	fmt.Printf("count=%d host re-renders=%d flushes=%d\n",
		editor.Count().Get(), h.RenderCount(), h.Scheduler().Flushes())
	return nil
}
