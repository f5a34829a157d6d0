package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"ytcomments/internal/assert"
	"ytcomments/internal/chrono"
	"ytcomments/internal/jsontree"
	"ytcomments/internal/youtube"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

var remoteSchemes = []string{"libsql://", "http://", "https://", "ws://", "wss://"}

// Store persists downloaded comments and posts, either in a local sqlite
// file or in a remote libsql database.
type Store struct {
	db    *sql.DB
	clock chrono.TimeAPI
}

// Open connects to dsn, a libsql url (libsql://, http(s)://, ws(s)://) or a
// sqlite file path which is created when missing. The schema is applied
// before returning.
func Open(ctx context.Context, dsn string, clock chrono.TimeAPI) (*Store, error) {
	assert.NotNil(clock)
	if dsn == "" {
		return nil, fmt.Errorf("a database was not specified")
	}

	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx, Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(dsn, scheme) {
			return sql.Open("libsql", dsn)
		}
	}

	if dsn != ":memory:" {
		_, statErr := os.Stat(dsn)
		if os.IsNotExist(statErr) {
			f, err := os.Create(dsn)
			if err != nil {
				return nil, err
			}
			f.Close()
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite only tolerates a single writer, an in memory database only
	// exists on the connection that created it
	db.SetMaxOpenConns(1)
	if dsn != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// makeTx creates a transaction, discard must be called if commit is not.
func (s *Store) makeTx(ctx context.Context) (*sql.Tx, func() error, func() error, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx,
		func() error {
			return tx.Rollback()
		},
		func() error {
			return tx.Commit()
		},
		nil
}

const upsertComment = `insert into comment (
    cid, video_id, text, time, time_parsed, author, channel,
    votes, replies, photo, heart, reply, paid, fetched_at
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
on conflict (cid) do update set
    text = excluded.text,
    time = excluded.time,
    time_parsed = excluded.time_parsed,
    votes = excluded.votes,
    replies = excluded.replies,
    photo = excluded.photo,
    heart = excluded.heart,
    paid = excluded.paid,
    fetched_at = excluded.fetched_at`

// SaveComments upserts a batch of comments of one video in a single
// transaction.
func (s *Store) SaveComments(ctx context.Context, videoId string, comments []youtube.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return err
	}
	defer discard()

	now := s.clock.Now().Unix()
	for _, c := range comments {
		var timeParsed sql.NullFloat64
		if c.TimeParsed != nil {
			timeParsed = sql.NullFloat64{Float64: *c.TimeParsed, Valid: true}
		}
		var paid sql.NullString
		if c.Paid != nil {
			paid = sql.NullString{String: *c.Paid, Valid: true}
		}

		_, err = tx.ExecContext(
			ctx,
			upsertComment,
			c.CID, videoId, c.Text, c.Time, timeParsed, c.Author, c.Channel,
			c.Votes, string(c.Replies), c.Photo, c.Heart, c.Reply, paid, now,
		)
		if err != nil {
			return fmt.Errorf("save comment %s: %w", c.CID, err)
		}
	}
	return commit()
}

// Comments reads back the comments of a video in insertion order.
func (s *Store) Comments(ctx context.Context, videoId string) ([]youtube.Comment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select cid, text, time, time_parsed, author, channel, votes, replies, photo, heart, reply, paid
        from comment where video_id = ? order by rowid`,
		videoId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []youtube.Comment
	for rows.Next() {
		var c youtube.Comment
		var replies string
		var timeParsed sql.NullFloat64
		var paid sql.NullString
		err = rows.Scan(
			&c.CID, &c.Text, &c.Time, &timeParsed, &c.Author, &c.Channel,
			&c.Votes, &replies, &c.Photo, &c.Heart, &c.Reply, &paid,
		)
		if err != nil {
			return nil, err
		}
		c.Replies = json.RawMessage(replies)
		if timeParsed.Valid {
			c.TimeParsed = &timeParsed.Float64
		}
		if paid.Valid {
			c.Paid = &paid.String
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PostID is the post id youtube assigned to a community post, or a content
// hash when it carries none.
func PostID(p youtube.Post) (string, []byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", nil, err
	}
	value, ok := jsontree.First(map[string]any(p), "postId")
	if id, isString := value.(string); ok && isString && id != "" {
		return id, raw, nil
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), raw, nil
}

// SavePosts upserts a batch of community posts of one channel.
func (s *Store) SavePosts(ctx context.Context, channel string, posts []youtube.Post) error {
	if len(posts) == 0 {
		return nil
	}
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return err
	}
	defer discard()

	now := s.clock.Now().Unix()
	for _, p := range posts {
		id, raw, err := PostID(p)
		if err != nil {
			return fmt.Errorf("encode post: %w", err)
		}
		_, err = tx.ExecContext(
			ctx,
			`insert into post (id, channel, raw, fetched_at) values (?, ?, ?, ?)
            on conflict (id) do update set raw = excluded.raw, fetched_at = excluded.fetched_at`,
			id, channel, string(raw), now,
		)
		if err != nil {
			return fmt.Errorf("save post %s: %w", id, err)
		}
	}
	return commit()
}

// CountPosts returns the number of posts stored for channel.
func (s *Store) CountPosts(ctx context.Context, channel string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "select count(*) from post where channel = ?", channel).Scan(&n)
	return n, err
}
