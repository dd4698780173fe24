package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uniedit/uploader/internal/infra/config"
	"github.com/uniedit/uploader/internal/utils/logger"
)

// cli holds state shared by subcommands.
type cli struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// newRootCommand creates the root cobra command.
func newRootCommand(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "uploader",
		Short:         "Upload files directly to object storage",
		Long:          "uploader validates local files, requests a presigned URL for each from the credential broker and PUTs the bytes straight to storage.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: ./config.yaml, ./configs/config.yaml, /etc/uploader/config.yaml)")
	flags.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(c.newPutCommand(), c.newValidateCommand())
	return root
}

// load reads the dotenv file and configuration once per invocation.
func (c *cli) load() error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := "error"
	if c.verbose {
		level = "debug"
	}
	c.logger = logger.New(&logger.Config{Level: level, Format: "console", Output: c.errOut})
	return nil
}
