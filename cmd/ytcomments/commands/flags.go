package commands

import (
	"github.com/spf13/cobra"
)

type outputFlags struct {
	output   string
	pretty   bool
	limit    int
	language string
	debug    bool
	db       string
	natsUrl  string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Output filename (output format is line delimited JSON).")
	flags.BoolVarP(&f.pretty, "pretty", "p", false, "Write a single indented JSON document instead of line delimited JSON.")
	flags.IntVarP(&f.limit, "limit", "l", 0, "Stop after this many records, 0 downloads everything.")
	flags.StringVarP(&f.language, "language", "a", "", "Language for youtube generated text (e.g. en).")
	flags.BoolVarP(&f.debug, "debug", "d", false, "Dump every page and response under debug/.")
	flags.StringVar(&f.db, "db", "", "Also store records in this sqlite file or libsql url.")
	flags.StringVar(&f.natsUrl, "nats", "", "Also publish records to this NATS server.")
	cmd.MarkFlagRequired("output")
}
