package service

import (
	"fmt"
	"regexp"
	"time"

	"github.com/Kenil818282/caratbridge-secret-finder1/model"
)

// PostItem is the narrow input contract for one raw post returned by the
// scraping actor. Anything else in the actor's output is opaque and unused.
type PostItem struct {
	ID            string `json:"id"`
	ShortCode     string `json:"shortCode"`
	OwnerUsername string `json:"ownerUsername"`
	Username      string `json:"username"`
	Caption       string `json:"caption"`
	Timestamp     string `json:"timestamp"`
}

var emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)

const maxCaptionRunes = 100

// Extract converts one raw post into a lead record. It returns false when
// the post has no usable id, no parsable timestamp, or falls outside the
// freshness window.
func Extract(item PostItem, tag string, windowHours int, now time.Time) (model.Lead, bool) {
	postID := item.ID
	if postID == "" {
		postID = item.ShortCode
	}
	if postID == "" {
		return model.Lead{}, false
	}

	ts, ok := ParseTimestamp(item.Timestamp)
	if !ok || !IsFresh(ts, windowHours, now) {
		return model.Lead{}, false
	}

	handle := item.OwnerUsername
	if handle == "" {
		handle = item.Username
	}
	if handle == "" {
		handle = "Unknown"
	}

	age := AgeLabel(ts, now)
	caption := truncateCaption(item.Caption)

	lead := model.Lead{
		ID:                      "post-" + postID,
		CompanyName:             handle,
		ContactName:             handle,
		Website:                 "https://instagram.com/" + handle,
		BusinessType:            "#" + tag,
		EmailVerificationStatus: model.EmailStatusUnknown,
		Score:                   model.DefaultScore,
		PostAge:                 age,
		Notes:                   fmt.Sprintf("[%s] %s", age, caption),
		CreatedAt:               now,
	}

	if email := emailPattern.FindString(item.Caption); email != "" {
		lead.RawEmail = email
		lead.EmailVerificationStatus = model.EmailStatusValid
	}

	return lead, true
}

func truncateCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) <= maxCaptionRunes {
		return caption
	}
	return string(runes[:maxCaptionRunes]) + "..."
}
