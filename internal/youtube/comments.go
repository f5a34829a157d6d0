package youtube

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"ytcomments/internal/jsontree"
)

const (
	report_downloader_comments = "downloader.comments"
)

var commentSurfaces = map[string]bool{
	"comments-section":                         true,
	"engagement-panel-comments-section":        true,
	"shorts-engagement-panel-comments-section": true,
}

const repliesTargetPrefix = "comment-replies-item"

// Comments downloads the comments of a video given its id or page url.
func (d *Downloader) Comments(ctx context.Context, idOrUrl string, sort SortBy) iter.Seq2[Comment, error] {
	return d.CommentsFromURL(ctx, VideoURL(idOrUrl), sort)
}

// CommentsFromURL downloads the comments shown on pageUrl. Requests are only
// made while the sequence is being pulled. A fatal error ends the sequence
// as its last element.
func (d *Downloader) CommentsFromURL(ctx context.Context, pageUrl string, sort SortBy) iter.Seq2[Comment, error] {
	return func(yield func(Comment, error) bool) {
		err := d.walkComments(ctx, pageUrl, sort, func(c Comment) bool {
			return yield(c, nil)
		})
		if err != nil {
			yield(Comment{}, err)
		}
	}
}

func sortMenu(root any) []any {
	menu, ok := jsontree.FirstMap(root, "sortFilterSubMenuRenderer")
	if !ok {
		return nil
	}
	items, _ := menu["subMenuItems"].([]any)
	return items
}

// seedComments finds the continuation that lists comments in the requested
// order.
func (d *Downloader) seedComments(ctx context.Context, exec executor, page Page, sort SortBy) (Continuation, error) {
	itemSection, ok := jsontree.FirstMap(page.InitialData, "itemSectionRenderer")
	if !ok {
		return Continuation{}, ErrCommentsUnavailable
	}
	if _, ok := jsontree.FirstMap(itemSection, "continuationItemRenderer"); !ok {
		return Continuation{}, ErrCommentsUnavailable
	}

	menu := sortMenu(page.InitialData)
	if len(menu) == 0 {
		// the sort menu is not always inline, the first section list
		// continuation leads to it
		sectionList, _ := jsontree.FirstMap(page.InitialData, "sectionListRenderer")
		endpoints := d.continuations(sectionList)
		if len(endpoints) > 0 {
			response, err := exec.execute(ctx, endpoints[0])
			if err != nil {
				return Continuation{}, err
			}
			menu = sortMenu(response)
		}
	}

	if len(menu) == 0 {
		return Continuation{}, fmt.Errorf("%w: page has no sort menu", ErrSortUnavailable)
	}
	if sort < 0 || int(sort) >= len(menu) {
		return Continuation{}, fmt.Errorf(
			"%w: sort %d requested but the menu only has %d entries",
			ErrSortUnavailable, sort, len(menu),
		)
	}
	entry, _ := menu[sort].(map[string]any)
	seed, ok := continuationFromEndpoint(entry["serviceEndpoint"])
	if !ok {
		return Continuation{}, fmt.Errorf("%w: sort menu entry %d has no continuation", ErrSortUnavailable, sort)
	}
	return seed, nil
}

func (d *Downloader) walkComments(ctx context.Context, pageUrl string, sort SortBy, emit func(Comment) bool) error {
	page, err := d.loadPage(ctx, pageUrl)
	if err != nil {
		return err
	}
	exec := d.newExecutor(page.Client)

	seed, err := d.seedComments(ctx, exec, page, sort)
	if err != nil {
		d.tel.ReportWarning(report_downloader_comments, err, pageUrl)
		return err
	}
	work := newWorklist()
	work.pushBack(seed)

	norm := d.newNormalizer()
	var total int64
	defer func() {
		d.tel.ReportCount(report_downloader_comments, total)
	}()

	return d.paginate(ctx, exec, work, func(response map[string]any) bool {
		var surface []Continuation
		for _, action := range actions(response) {
			targetId, _ := action["targetId"].(string)
			for _, item := range continuationItems(action) {
				if commentSurfaces[targetId] {
					surface = append(surface, d.continuations(item)...)
				}
				if strings.HasPrefix(targetId, repliesTargetPrefix) {
					if _, ok := item["continuationItemRenderer"]; !ok {
						continue
					}
					// "show more replies" button
					button, ok := jsontree.FirstMap(item, "buttonRenderer")
					if !ok {
						continue
					}
					more, ok := continuationFromEndpoint(button["command"])
					if !ok {
						d.tel.ReportWarning(report_downloader_comments, fmt.Errorf("show more replies button without continuation"))
						continue
					}
					work.pushBack(more)
				}
			}
		}
		work.pushFront(surface...)

		for _, comment := range norm.comments(response) {
			total++
			d.metrics.comments.Add(ctx, 1)
			if !emit(comment) {
				return false
			}
		}
		return true
	})
}
