package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uniedit/uploader/internal/domain/upload"
)

func (c *cli) newValidateCommand() *cobra.Command {
	var f putFlags

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check files against the upload policy without uploading",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, c.cfg)
			return c.runValidate(args)
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&f.maxSize, "max-size", 0, "maximum file size in bytes")
	flags.StringSliceVar(&f.types, "type", nil, "allowed MIME type (repeatable)")
	flags.StringSliceVar(&f.exts, "ext", nil, "allowed file extension (repeatable)")
	return cmd
}

func (c *cli) runValidate(paths []string) error {
	policy := policyFromConfig(c.cfg.Client)

	failed := 0
	for _, path := range paths {
		file, err := upload.OpenLocalFile(path)
		if err == nil {
			err = policy.Validate(file)
		}
		if err != nil {
			printFailure(c.out, path, err)
			failed++
			continue
		}
		fmt.Fprintf(c.out, "%s %s %s\n", green("✓"), path, gray(file.MimeType()))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFilesFailed, failed, len(paths))
	}
	return nil
}
