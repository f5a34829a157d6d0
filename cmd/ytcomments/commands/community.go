package commands

import (
	"context"
	"strings"
	"ytcomments/internal/serviceutil"
	"ytcomments/internal/store"
	"ytcomments/internal/youtube"

	"github.com/spf13/cobra"
)

var (
	communityFlags  outputFlags
	communityHandle string
)

func init() {
	communityFlags.register(communityCmd)
	communityCmd.Flags().StringVarP(&communityHandle, "community", "c", "", "Channel handle (with or without @) whose community posts to download.")
	communityCmd.MarkFlagRequired("community")
	rootCmd.AddCommand(communityCmd)
}

var communityCmd = &cobra.Command{
	Use:   "community --community <handle> --output <file>",
	Short: "Downloads the community posts of a channel.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		env, err := newEnvironment(ctx, communityFlags)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer env.Close()

		channel := strings.TrimPrefix(strings.TrimSpace(communityHandle), "@")
		err = download(ctx, env, communityFlags, job[youtube.Post]{
			kind:   "posts",
			noun:   "post(s)",
			target: channel,
			fetch:  env.downloader.Community(ctx, communityHandle),
			save: func(ctx context.Context, st *store.Store, batch []youtube.Post) error {
				return st.SavePosts(ctx, channel, batch)
			},
		})
		if err != nil {
			serviceutil.Fatal("failed to download community posts", err)
		}
	},
}
