package main

import (
	"encoding/json"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"io"
	"portfolio/internal/blog"
	"portfolio/internal/domain/content"
	"portfolio/internal/index"
	"portfolio/internal/ingest"
	"text/tabwriter"
	"time"
)

func newTagsCmd(root *rootOptions) *cobra.Command {
	var (
		limit   int
		cached  bool
		asJSON  bool
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Show tag counts of the current articles",
		Long: `Print tags ordered by how often they are used. Ties keep the order in
which the tags first appear. With --tag the listing is restricted to articles
having any of the given tags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			var (
				snap content.Snapshot
				err  error
			)
			if cached {
				snap, err = loadStored(cfg.Build.IndexPath)
			} else {
				var src ingest.Source
				if src, err = ingest.NewSource(cfg.Source); err == nil {
					snap, err = ingest.Fetch(cmd.Context(), src)
				}
			}
			if err != nil {
				return err
			}

			articles := blog.Filter(snap.Articles, blog.ParseSelection(filters))
			counts := blog.TagCounts(articles)
			if limit > 0 && len(counts) > limit {
				counts = counts[:limit]
			}
			if counts == nil {
				counts = []blog.TagCount{}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(counts)
			}
			return printTags(cmd.OutOrStdout(), snap, len(articles), counts)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", blog.CommonTagLimit, "number of tags to show, 0 for all")
	cmd.Flags().BoolVar(&cached, "cached", false, "read the stored snapshot instead of fetching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().StringSliceVarP(&filters, "tag", "t", nil, "only count articles having any of these tags")
	return cmd
}

func loadStored(path string) (content.Snapshot, error) {
	st, err := index.Open(index.OpenOptions{Path: path})
	if err != nil {
		return content.Snapshot{}, err
	}
	defer st.Close()
	return st.Load()
}

func printTags(w io.Writer, snap content.Snapshot, matched int, counts []blog.TagCount) error {
	fmt.Fprintf(w, "%d of %d articles from %s, fetched %s\n\n",
		matched, len(snap.Articles), snap.Source, humanize.RelTime(snap.FetchedAt, time.Now(), "ago", "from now"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tCOUNT")
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
	}
	return tw.Flush()
}
