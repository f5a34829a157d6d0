package commands

import (
	"context"
	"fmt"
	"os"
	"ytcomments/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath  *string
	verbose     *bool
	cookiesFile *string
)

var rootCmd = &cobra.Command{
	Use:   "ytcomments",
	Short: "ytcomments downloads youtube comments and community posts without the data api.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(os.Stderr, *verbose)
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.String("config", "", "Path to a json5 config file, ytcomments.json5 is searched for upwards from the working directory by default.")
	verbose = flags.BoolP("verbose", "v", false, "Log debug output.")
	cookiesFile = flags.String("cookies", "", "Path to a Netscape cookies.txt file to send with every request.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
