package commands

import (
	"context"
	"ytcomments/internal/serviceutil"
	"ytcomments/internal/store"
	"ytcomments/internal/youtube"

	"github.com/spf13/cobra"
)

var (
	commentsFlags outputFlags
	youtubeId     string
	videoUrl      string
	sortBy        int
)

func init() {
	commentsFlags.register(commentsCmd)
	flags := commentsCmd.Flags()
	flags.StringVarP(&youtubeId, "youtubeid", "y", "", "ID of Youtube video for which to download the comments.")
	flags.StringVarP(&videoUrl, "url", "u", "", "Youtube URL for which to download the comments.")
	flags.IntVarP(&sortBy, "sort", "s", int(youtube.SortByRecent), "Whether to download popular (0) or recent comments (1).")
	commentsCmd.MarkFlagsOneRequired("youtubeid", "url")
	commentsCmd.MarkFlagsMutuallyExclusive("youtubeid", "url")
	rootCmd.AddCommand(commentsCmd)
}

var commentsCmd = &cobra.Command{
	Use:   "comments (--youtubeid <id> | --url <url>) --output <file>",
	Short: "Downloads the comments of a video.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		env, err := newEnvironment(ctx, commentsFlags)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer env.Close()

		sort := youtube.SortBy(sortBy)
		target := youtubeId
		fetch := env.downloader.Comments(ctx, youtubeId, sort)
		if videoUrl != "" {
			target = videoUrl
			id, ok := youtube.ParseVideoID(videoUrl)
			if ok {
				target = id
			}
			fetch = env.downloader.CommentsFromURL(ctx, videoUrl, sort)
		}

		err = download(ctx, env, commentsFlags, job[youtube.Comment]{
			kind:   "comments",
			noun:   "comment(s)",
			target: target,
			fetch:  fetch,
			save: func(ctx context.Context, st *store.Store, batch []youtube.Comment) error {
				return st.SaveComments(ctx, target, batch)
			},
		})
		if err != nil {
			serviceutil.Fatal("failed to download comments", err)
		}
	},
}
