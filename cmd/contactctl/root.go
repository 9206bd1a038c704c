package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"contactbook/contact"
	"contactbook/errs"
	"contactbook/pkg/config"
	"contactbook/pkg/logger"
	"contactbook/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// app carries what every subcommand needs. Tests replace loadConfig to point
// the CLI at a throwaway database.
type app struct {
	out        io.Writer
	output     string
	loadConfig func() (*config.Config, error)
	logger     *zap.Logger
}

func newApp(out io.Writer) *app {
	return &app{
		out:        out,
		output:     outputJSON,
		loadConfig: config.LoadConfig,
		logger:     logger.NOOPLogger,
	}
}

func newRootCmd(a *app) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "contactctl",
		Short:         "Manage contacts in the configured store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.output != outputJSON && a.output != outputYAML {
				return fmt.Errorf("unsupported output %q (want %s or %s)", a.output, outputJSON, outputYAML)
			}
			if verbose {
				l, err := logger.New("local", "debug")
				if err != nil {
					return err
				}
				a.logger = l
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputJSON, "output format: json or yaml")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log store operations to stderr")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newMigrateCmd(a),
	)
	return root
}

// withService opens the configured store for the duration of fn.
func (a *app) withService(ctx context.Context, fn func(contact.Service) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	repo, closeFn, err := storage.Open(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(contact.NewUsecase(repo, a.logger))
}

func (a *app) print(v interface{}) error {
	switch a.output {
	case outputYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// errorMessage prefers the user-facing message of application errors.
func errorMessage(err error) string {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
