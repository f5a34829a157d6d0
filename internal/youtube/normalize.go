package youtube

import (
	"encoding/json"
	"fmt"
	"strings"
	"ytcomments/internal/jsontree"
	"ytcomments/internal/telemetry"
)

const (
	report_normalizer_comments = "normalizer.comments"
)

const heartedState = "TOOLBAR_HEART_STATE_HEARTED"

// normalizer turns the entity payloads of one continuation response into
// comments.
type normalizer struct {
	parseDate DateParser
	language  string
	tel       telemetry.API
}

// toolbarStates maps a toolbar state key to its engagement toolbar payload.
func toolbarStates(response map[string]any) map[string]map[string]any {
	out := map[string]map[string]any{}
	for _, payload := range jsontree.Maps(response, "engagementToolbarStateEntityPayload") {
		key, ok := payload["key"].(string)
		if !ok {
			continue
		}
		out[key] = payload
	}
	return out
}

// payments maps a comment id to the label of its paid comment chip. Surface
// payloads are keyed by surface key, so they are joined against the view
// models to find the comment they belong to.
func payments(response map[string]any) map[string]string {
	labels := map[string]string{}
	for _, payload := range jsontree.Maps(response, "commentSurfaceEntityPayload") {
		if _, ok := payload["pdgCommentChip"]; !ok {
			continue
		}
		key, ok := payload["key"].(string)
		if !ok {
			continue
		}
		label := ""
		if text, ok := jsontree.First(payload, "simpleText"); ok {
			label, _ = text.(string)
		}
		labels[key] = label
	}
	if len(labels) == 0 {
		return nil
	}

	out := map[string]string{}
	for _, vm := range jsontree.Maps(response, "commentViewModel") {
		inner, ok := vm["commentViewModel"].(map[string]any)
		if !ok {
			continue
		}
		surfaceKey, ok := inner["commentSurfaceKey"].(string)
		if !ok {
			continue
		}
		commentId, ok := inner["commentId"].(string)
		if !ok {
			continue
		}
		label, ok := labels[surfaceKey]
		if ok {
			out[commentId] = label
		}
	}
	return out
}

// comments normalizes every comment entity in response. Entities are
// discovered in reverse, so they are walked backwards to restore display
// order.
func (n normalizer) comments(response map[string]any) []Comment {
	toolbars := toolbarStates(response)
	paid := payments(response)

	entities := jsontree.Maps(response, "commentEntityPayload")
	out := make([]Comment, 0, len(entities))
	for i := len(entities) - 1; i >= 0; i-- {
		comment, err := n.comment(entities[i], toolbars, paid)
		if err != nil {
			n.tel.ReportWarning(report_normalizer_comments, err)
			continue
		}
		out = append(out, comment)
	}
	return out
}

func (n normalizer) comment(
	entity map[string]any,
	toolbars map[string]map[string]any,
	paid map[string]string,
) (Comment, error) {
	required := func(path ...string) (string, error) {
		value, ok := jsontree.String(entity, path...)
		if !ok {
			return "", fmt.Errorf("comment entity: missing %s", strings.Join(path, "."))
		}
		return value, nil
	}

	cid, err := required("properties", "commentId")
	if err != nil {
		return Comment{}, err
	}
	text, err := required("properties", "content", "content")
	if err != nil {
		return Comment{}, fmt.Errorf("%s: %w", cid, err)
	}
	published, err := required("properties", "publishedTime")
	if err != nil {
		return Comment{}, fmt.Errorf("%s: %w", cid, err)
	}
	author, err := required("author", "displayName")
	if err != nil {
		return Comment{}, fmt.Errorf("%s: %w", cid, err)
	}
	channel, err := required("author", "channelId")
	if err != nil {
		return Comment{}, fmt.Errorf("%s: %w", cid, err)
	}
	photo, _ := jsontree.String(entity, "author", "avatarThumbnailUrl")

	votes, _ := jsontree.String(entity, "toolbar", "likeCountNotliked")
	votes = strings.TrimSpace(votes)
	if votes == "" {
		votes = "0"
	}

	replies := json.RawMessage(`""`)
	if raw, ok := jsontree.Path(entity, "toolbar", "replyCount"); ok {
		encoded, err := json.Marshal(raw)
		if err != nil {
			return Comment{}, fmt.Errorf("%s: encode reply count: %w", cid, err)
		}
		replies = encoded
	}

	heart := false
	if key, ok := jsontree.String(entity, "properties", "toolbarStateKey"); ok {
		state, _ := toolbars[key]["heartState"].(string)
		heart = state == heartedState
	}

	comment := Comment{
		CID:     cid,
		Text:    text,
		Time:    published,
		Author:  author,
		Channel: channel,
		Votes:   votes,
		Replies: replies,
		Photo:   photo,
		Heart:   heart,
		Reply:   strings.Contains(cid, "."),
	}

	if n.parseDate != nil {
		parsed, ok := n.parseDate(publishedText(published), n.language)
		if ok {
			seconds := epochSeconds(parsed)
			comment.TimeParsed = &seconds
		}
	}
	if label, ok := paid[cid]; ok {
		comment.Paid = &label
	}

	return comment, nil
}
