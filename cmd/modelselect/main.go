// Command modelselect splits, cross-validates, tunes and profiles learners
// on CSV data.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/modelselect/pkg/config"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

type app struct {
	loader *config.Loader
	cfg    *config.Config
	logger log.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{loader: config.NewLoader()}
	root := &cobra.Command{
		Use:           "modelselect",
		Short:         "Model selection for tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := a.loader.Load(path)
			if err != nil {
				return err
			}
			if err := log.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = log.GetLoggerWithName("cli").With(log.OperationKey, cmd.Name())
			return nil
		},
	}
	root.PersistentFlags().StringP("config", "c", "", "configuration file (yaml, toml or json)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().String("log-format", "console", "log format: json or console")
	a.bind(root, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	})

	root.AddCommand(
		a.splitCommand(),
		a.cvCommand(),
		a.tuneCommand(),
		a.curveCommand(),
	)
	return root
}

// bind maps configuration keys to flags of cmd.
func (a *app) bind(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if err := a.loader.BindFlag(key, flag); err != nil {
			panic(err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		log.GetLoggerWithName("cli").Error("command failed", err)
		stop()
		os.Exit(1)
	}
}
