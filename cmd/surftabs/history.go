package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vidyasagar/surftabs/internal/storage"
)

func newHistoryCmd(cfgPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recently visited pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStores(*cfgPath)
			if err != nil {
				return err
			}
			defer db.Close()
			visits, err := storage.NewVisitLog(db).Recent(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, v := range visits {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", v.VisitedAt.Format("2006-01-02 15:04"), v.URL, v.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}
