package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vidyasagar/surftabs/internal/storage"
	"github.com/vidyasagar/surftabs/internal/tabs"
)

func newBookmarksCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage saved bookmarks",
	}
	cmd.AddCommand(newBookmarksListCmd(cfgPath))
	cmd.AddCommand(newBookmarksAddCmd(cfgPath))
	cmd.AddCommand(newBookmarksRemoveCmd(cfgPath))
	return cmd
}

// withBookmarks opens the bookmark store for the duration of fn.
func withBookmarks(cfgPath string, fn func(*storage.BookmarkStore) error) error {
	db, err := openStores(cfgPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(storage.NewBookmarkStore(db))
}

func newBookmarksListCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookmarks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBookmarks(*cfgPath, func(bs *storage.BookmarkStore) error {
				list, err := bs.List()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, b := range list {
					_, _ = fmt.Fprintf(out, "%s\t%s\n", b.URL, b.Label())
				}
				return nil
			})
		},
	}
}

func newBookmarksAddCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url> [title]",
		Short: "Bookmark a URL",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := tabs.Resolve(args[0])
			if dest.Kind != tabs.KindWeb {
				return fmt.Errorf("not a web address: %q", args[0])
			}
			title := tabs.DeriveTitle(dest)
			if len(args) > 1 {
				title = strings.TrimSpace(args[1])
			}
			return withBookmarks(*cfgPath, func(bs *storage.BookmarkStore) error {
				added, err := bs.Add(dest.URL, title)
				if err != nil {
					return err
				}
				if !added {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "already bookmarked: %s\n", dest.URL)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bookmarked: %s\n", dest.URL)
				return nil
			})
		},
	}
}

func newBookmarksRemoveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <url>",
		Aliases: []string{"rm"},
		Short:   "Remove a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := tabs.Resolve(args[0]).URL
			return withBookmarks(*cfgPath, func(bs *storage.BookmarkStore) error {
				removed, err := bs.Remove(url)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no bookmark for %s", url)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed: %s\n", url)
				return nil
			})
		},
	}
}
