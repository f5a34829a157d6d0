package youtube

import (
	"context"
	"iter"
	"ytcomments/internal/jsontree"
)

const (
	report_downloader_community = "downloader.community"
)

const backstageSection = "backstage-item-section"

// Community downloads the community posts of a channel handle.
func (d *Downloader) Community(ctx context.Context, handle string) iter.Seq2[Post, error] {
	return d.CommunityFromURL(ctx, CommunityURL(handle))
}

// CommunityFromURL downloads the posts listed on a community tab. Posts are
// the raw items youtube returned, their content is not normalized.
func (d *Downloader) CommunityFromURL(ctx context.Context, pageUrl string) iter.Seq2[Post, error] {
	return func(yield func(Post, error) bool) {
		err := d.walkCommunity(ctx, pageUrl, func(p Post) bool {
			return yield(p, nil)
		})
		if err != nil {
			yield(nil, err)
		}
	}
}

func seedCommunity(initialData map[string]any) (Continuation, bool) {
	for _, section := range jsontree.Maps(initialData, "itemSectionRenderer") {
		if section["sectionIdentifier"] != backstageSection {
			continue
		}
		renderer, ok := jsontree.FirstMap(section, "continuationItemRenderer")
		if !ok {
			return Continuation{}, false
		}
		return continuationFromEndpoint(renderer["continuationEndpoint"])
	}
	return Continuation{}, false
}

// isContinuationOnly reports whether item is nothing but a pointer to the
// next page.
func isContinuationOnly(item map[string]any) bool {
	_, ok := item["continuationItemRenderer"]
	return ok && len(item) == 1
}

func (d *Downloader) walkCommunity(ctx context.Context, pageUrl string, emit func(Post) bool) error {
	page, err := d.loadPage(ctx, pageUrl)
	if err != nil {
		return err
	}
	exec := d.newExecutor(page.Client)

	seed, ok := seedCommunity(page.InitialData)
	if !ok {
		d.tel.ReportWarning(report_downloader_community, ErrCommentsUnavailable, pageUrl)
		return ErrCommentsUnavailable
	}
	work := newWorklist()
	work.pushBack(seed)

	var total int64
	defer func() {
		d.tel.ReportCount(report_downloader_community, total)
	}()

	return d.paginate(ctx, exec, work, func(response map[string]any) bool {
		var next []Continuation
		var posts []Post
		for _, action := range actions(response) {
			targetId, _ := action["targetId"].(string)
			for _, item := range continuationItems(action) {
				if targetId != "" {
					next = append(next, d.continuations(item)...)
				}
				if isContinuationOnly(item) {
					continue
				}
				posts = append(posts, Post(item))
			}
		}
		work.pushFront(next...)

		for _, post := range posts {
			total++
			d.metrics.posts.Add(ctx, 1)
			if !emit(post) {
				return false
			}
		}
		return true
	})
}
