package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/uniedit/uploader/internal/adapter/outbound/authfetch"
	"github.com/uniedit/uploader/internal/adapter/outbound/broker"
	"github.com/uniedit/uploader/internal/adapter/outbound/objectput"
	"github.com/uniedit/uploader/internal/domain/upload"
	"github.com/uniedit/uploader/internal/infra/config"
	"github.com/uniedit/uploader/internal/infra/httpclient"
	"github.com/uniedit/uploader/internal/model"
)

var errFilesFailed = errors.New("some files failed")

// putFlags holds command line overrides of the client configuration.
type putFlags struct {
	brokerURL   string
	app         string
	folder      string
	concurrency int
	maxSize     int64
	types       []string
	exts        []string
}

func (c *cli) newPutCommand() *cobra.Command {
	var f putFlags

	cmd := &cobra.Command{
		Use:   "put FILE...",
		Short: "Upload files and print their public URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, c.cfg)
			return c.runPut(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.brokerURL, "broker-url", "", "credential broker base URL")
	flags.StringVar(&f.app, "app", "", "application namespace, e.g. question")
	flags.StringVar(&f.folder, "folder", "", "folder inside the application namespace")
	flags.IntVar(&f.concurrency, "concurrency", 0, "files uploaded per cohort")
	flags.Int64Var(&f.maxSize, "max-size", 0, "maximum file size in bytes")
	flags.StringSliceVar(&f.types, "type", nil, "allowed MIME type (repeatable)")
	flags.StringSliceVar(&f.exts, "ext", nil, "allowed file extension (repeatable)")
	return cmd
}

// apply copies explicitly set flags into cfg.
func (f *putFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("broker-url") {
		cfg.Client.BrokerURL = f.brokerURL
	}
	if flags.Changed("app") {
		cfg.Client.AppName = f.app
	}
	if flags.Changed("folder") {
		cfg.Client.Folder = f.folder
	}
	if flags.Changed("concurrency") {
		cfg.Client.Concurrency = f.concurrency
	}
	if flags.Changed("max-size") {
		cfg.Client.MaxSizeBytes = f.maxSize
	}
	if flags.Changed("type") {
		cfg.Client.AllowedTypes = f.types
	}
	if flags.Changed("ext") {
		cfg.Client.AllowedExtensions = f.exts
	}
}

func (c *cli) runPut(cmd *cobra.Command, paths []string) error {
	domain, err := c.newUploadDomain()
	if err != nil {
		return err
	}

	files := make([]model.UploadFile, 0, len(paths))
	failed := 0
	for _, path := range paths {
		file, err := upload.OpenLocalFile(path)
		if err != nil {
			printFailure(c.out, path, err)
			failed++
			continue
		}
		files = append(files, file)
	}

	printer := newProgressPrinter(c.out)
	result := domain.UploadAll(cmd.Context(), files, upload.WithBatchProgress(printer.handle))

	failedAt := make(map[int]error, len(result.Failed))
	for _, f := range result.Failed {
		failedAt[f.Index] = f.Err
	}
	next := 0
	for i, file := range files {
		if err, ok := failedAt[i]; ok {
			printFailure(c.out, file.Name(), err)
			continue
		}
		printSuccess(c.out, file.Name(), result.Succeeded[next])
		next++
	}

	failed += len(result.Failed)
	printSummary(c.out, len(result.Succeeded), failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFilesFailed, failed, len(paths))
	}
	return nil
}

// newUploadDomain wires the broker client and storage transport from configuration.
func (c *cli) newUploadDomain() (*upload.Domain, error) {
	cc := c.cfg.Client

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cc.Token, TokenType: "Bearer"})
	fetch := authfetch.NewClient(httpclient.New(c.cfg.HTTPClient), tokens, c.logger)

	brokerClient, err := broker.NewClient(fetch, &broker.Config{
		BaseURL:          cc.BrokerURL,
		FailureThreshold: cc.FailureThreshold,
		OpenTimeout:      cc.OpenTimeout,
	}, c.logger)
	if err != nil {
		return nil, err
	}

	transport := objectput.NewTransport(httpclient.NewUploadClient(c.cfg.HTTPClient), c.logger)

	return upload.NewDomain(brokerClient, transport, &upload.Config{
		Policy:      policyFromConfig(cc),
		Namespace:   upload.Namespace{AppName: cc.AppName, Folder: cc.Folder},
		Concurrency: cc.Concurrency,
	}, c.logger), nil
}

func policyFromConfig(cc config.ClientConfig) upload.Policy {
	return upload.Policy{
		MaxSizeBytes:      cc.MaxSizeBytes,
		AllowedMimeTypes:  cc.AllowedTypes,
		AllowedExtensions: cc.AllowedExtensions,
	}
}
