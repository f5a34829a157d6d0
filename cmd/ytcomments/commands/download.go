package commands

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strconv"
	"time"
	"ytcomments/internal/output"
	"ytcomments/internal/publish"
	"ytcomments/internal/store"
	"ytcomments/internal/youtube"

	"github.com/jedib0t/go-pretty/v6/table"
)

// job describes one download: what is fetched and where it is kept.
type job[T any] struct {
	// kind names the records, it is the key of the pretty output document
	// and part of the NATS subject.
	kind   string
	noun   string
	target string
	fetch  iter.Seq2[T, error]
	save   func(ctx context.Context, st *store.Store, batch []T) error
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// unavailable tells apart the errors that only mean there is nothing to
// download from actual failures.
func unavailable(err error) bool {
	return errors.Is(err, youtube.ErrCommentsUnavailable) ||
		errors.Is(err, youtube.ErrConfigUnavailable)
}

func download[T any](ctx context.Context, env *environment, flags outputFlags, j job[T]) error {
	start := env.clock.Now()

	s := &sink[T]{}
	if flags.db != "" {
		st, err := store.Open(ctx, flags.db, env.clock)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
		s.save = func(ctx context.Context, batch []T) error {
			return j.save(ctx, st, batch)
		}
	}
	if flags.natsUrl != "" {
		publisher, err := publish.Connect(flags.natsUrl, env.tel)
		if err != nil {
			return err
		}
		defer publisher.Close()
		s.publisher = publisher
		s.subject = publish.Subject(j.kind, j.target)
	}

	// created last so a failing database or NATS connection leaves no
	// truncated output behind
	writer, err := output.Create[T](flags.output, flags.pretty, j.kind)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	s.writer = writer

	slog.Info("downloading", "kind", j.kind, "target", j.target)

	var fetchErr error
	for record, err := range j.fetch {
		if err != nil {
			fetchErr = err
			break
		}
		err = s.Write(ctx, record)
		if err != nil {
			fetchErr = err
			break
		}
		fmt.Fprintf(os.Stderr, "Downloaded %d %s\r", s.Count(), j.noun)
		if flags.limit > 0 && s.Count() >= flags.limit {
			break
		}
	}
	fmt.Fprintln(os.Stderr)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	err = s.Close(closeCtx)
	if err != nil {
		return err
	}

	switch {
	case fetchErr == nil:
	case unavailable(fetchErr):
		slog.Warn("nothing to download", "target", j.target, "err", fetchErr)
	case errors.Is(fetchErr, context.Canceled):
		slog.Warn("download interrupted, output holds what was fetched so far")
	default:
		return fetchErr
	}

	elapsed := env.clock.Now().Sub(start)
	fmt.Fprintf(os.Stderr, "[%.2f seconds] Done!\n", elapsed.Seconds())

	t := newTable()
	t.AppendHeader(table.Row{"Target", "Records", "Output", "Database", "NATS", "Debug"})
	t.AppendRow(table.Row{
		j.target,
		strconv.Itoa(s.Count()),
		flags.output,
		orDash(flags.db),
		orDash(s.subject),
		orDash(env.debugDir),
	})
	t.Render()

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
