package model

import (
	"time"
)

// Lead represents one discovered post, normalized into a contact record
type Lead struct {
	ID                      string    `json:"id"`
	CompanyName             string    `json:"companyName"`
	ContactName             string    `json:"contactName"`
	Website                 string    `json:"website"`
	BusinessType            string    `json:"businessType"`
	RawEmail                string    `json:"rawEmail,omitempty"`
	EmailVerificationStatus string    `json:"emailVerificationStatus"`
	Score                   int       `json:"score"`
	PostAge                 string    `json:"postAge"`
	Notes                   string    `json:"notes"`
	CreatedAt               time.Time `json:"createdAt"`
}

// Email verification status constants
const (
	EmailStatusValid   = "valid"
	EmailStatusUnknown = "unknown"
)

// DefaultScore is assigned to every lead; ranking is not computed yet
const DefaultScore = 90

// Document is the single persisted state object: all known leads keyed by
// id, the monitored hashtags, and the scan-enable flag
type Document struct {
	Leads         map[string]Lead `json:"leads"`
	MonitoredTags []string        `json:"monitoredTags"`
	IsRunning     bool            `json:"isRunning"`
}

// NewDocument returns an empty default document
func NewDocument() Document {
	return Document{
		Leads:         make(map[string]Lead),
		MonitoredTags: []string{},
	}
}

// Clone returns a deep copy so callers can't mutate shared state
func (d Document) Clone() Document {
	out := Document{
		Leads:         make(map[string]Lead, len(d.Leads)),
		MonitoredTags: make([]string, len(d.MonitoredTags)),
		IsRunning:     d.IsRunning,
	}
	for id, l := range d.Leads {
		out.Leads[id] = l
	}
	copy(out.MonitoredTags, d.MonitoredTags)
	return out
}

// HasTag reports whether tag is already monitored (case-sensitive)
func (d Document) HasTag(tag string) bool {
	for _, t := range d.MonitoredTags {
		if t == tag {
			return true
		}
	}
	return false
}
