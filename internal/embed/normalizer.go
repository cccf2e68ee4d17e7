// Package embed normalizes freeform pasted text into canonical embed
// descriptors. Every function is pure and idempotent: feeding a canonical
// result back in returns it unchanged, and input that matches no known
// pattern passes through untouched rather than being rejected.
package embed

import (
	"fmt"
	"regexp"
)

var (
	youtubeWatchExpr = regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`)
	youtubeShortExpr = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`)
	youtubeEmbedExpr = regexp.MustCompile(`embed/([A-Za-z0-9_-]{11})`)
	youtubeBareExpr  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	tweetURLExpr     = regexp.MustCompile(`(?:twitter\.com|x\.com)/([A-Za-z0-9_]+)/status(?:es)?/(\d+)`)
	tweetNumericExpr = regexp.MustCompile(`^\d+$`)
)

// ExtractYouTubeID pulls the canonical 11-character video id out of a pasted
// URL. Patterns are tried in order: watch?v=, youtu.be/, embed/, then a bare
// id. When nothing matches the input is returned as-is.
func ExtractYouTubeID(input string) string {
	for _, expr := range []*regexp.Regexp{youtubeWatchExpr, youtubeShortExpr, youtubeEmbedExpr} {
		if m := expr.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}
	if youtubeBareExpr.MatchString(input) {
		return input
	}
	return input
}

// ExtractTweet parses a twitter.com/x.com status URL into the numeric tweet
// id and the author handle. A purely numeric input is treated as an already
// canonical id with no handle information. Anything else is passed through
// as the tweet id with an empty handle; callers keep a previously known
// handle when the returned one is empty.
func ExtractTweet(input string) (tweetID, authorHandle string) {
	if m := tweetURLExpr.FindStringSubmatch(input); m != nil {
		return m[2], m[1]
	}
	if tweetNumericExpr.MatchString(input) {
		return input, ""
	}
	return input, ""
}

// ThumbnailQualities lists preview image tiers best-first. The fallback tier
// is a display-time concern only and never stored.
func ThumbnailQualities() []string {
	return []string{"maxresdefault", "hqdefault"}
}

// ThumbnailURL builds the YouTube preview image URL for a quality tier.
func ThumbnailURL(videoID, quality string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality)
}
