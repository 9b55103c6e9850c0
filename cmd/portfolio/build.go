package main

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"portfolio/internal/build"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch articles once and write the static site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if out != "" {
				cfg.Build.PublicDir = out
			}
			b := &build.Builder{Cfg: cfg}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %s files from %s articles into %s\n",
				humanize.Comma(int64(res.Files)), humanize.Comma(int64(res.Articles)), cfg.Build.PublicDir)
			if len(res.Tags) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "common tags: %v\n", res.Tags)
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Path, w.Msg)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default build.public_dir)")
	return cmd
}
