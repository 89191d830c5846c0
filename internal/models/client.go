// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// Frequency encodes how many articles a client publishes per week.
type Frequency string

const (
	FrequencyDaily      Frequency = "times-week-7"
	FrequencyFourWeekly Frequency = "times-week-4"
	FrequencyThrice     Frequency = "times-week-3"
	FrequencyTwice      Frequency = "times-week-2"
	FrequencyWeekly     Frequency = "times-week-1"
)

// PerWeek returns the number of scheduled articles per week for the
// frequency. Unknown or empty values default to one per week.
func (f Frequency) PerWeek() int {
	switch f {
	case FrequencyDaily:
		return 7
	case FrequencyFourWeekly:
		return 4
	case FrequencyThrice:
		return 3
	case FrequencyTwice:
		return 2
	default:
		return 1
	}
}

// Interval returns the real-calendar spacing between two consecutive
// scheduled slots, so the queue spans consistent dates rather than
// implicit daily ticks (e.g. times-week-3 steps every ~2.33 days).
func (f Frequency) Interval() time.Duration {
	week := 7 * 24 * time.Hour
	return week / time.Duration(f.PerWeek())
}

// StylePreferences captures a client's visual identity used when
// building image generation prompts.
type StylePreferences struct {
	Ambiance string   `json:"ambiance,omitempty"`
	Mood     string   `json:"mood,omitempty"`
	Colors   []string `json:"colors,omitempty"`
}

// IsZero reports whether no style preference has been configured.
func (s StylePreferences) IsZero() bool {
	return s.Ambiance == "" && s.Mood == "" && len(s.Colors) == 0
}

// NextIdea is a scheduled article topic: the title to draft, the date
// it becomes due, and whether it was freshly pulled from the backlog.
type NextIdea struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	New   bool      `json:"new,omitempty"`
}

// Client is a tenant profile. The Ideas backlog and the NextIdeas queue
// are disjoint: a topic lives in exactly one of the two at any time.
type Client struct {
	ID             string           `json:"clientId"`
	CompanyName    string           `json:"companyName"`
	Mission        string           `json:"mission"`
	TargetAudience string           `json:"targetAudience"`
	Style          StylePreferences `json:"stylePreferences"`
	CTA            string           `json:"CTA,omitempty"`
	Domain         string           `json:"domain,omitempty"`
	DefaultAuthor  string           `json:"defaultAuthor,omitempty"`
	Frequency      Frequency        `json:"frequency,omitempty"`
	Allowed        map[string]bool  `json:"allowed,omitempty"`
	Locales        []string         `json:"locales"`
	Ideas          []string         `json:"ideas"`
	NextIdeas      []NextIdea       `json:"nextIdeas,omitempty"`
	StartDate      *time.Time       `json:"startDate,omitempty"`
	CreatedAt      time.Time        `json:"creationDate"`
}

// AllowsChannel reports whether a social channel is enabled for the
// client. LinkedIn is the default channel and always allowed.
func (c *Client) AllowsChannel(channel string) bool {
	if channel == ChannelLinkedIn {
		return true
	}
	return c.Allowed[channel]
}

// Author returns the byline to use for new articles: the configured
// default author, falling back to the company name.
func (c *Client) Author() string {
	if c.DefaultAuthor != "" {
		return c.DefaultAuthor
	}
	return c.CompanyName
}

// SupportedLocales returns the client's locale set, defaulting to
// English and French when none is configured.
func (c *Client) SupportedLocales() []string {
	if len(c.Locales) > 0 {
		return c.Locales
	}
	return DefaultLocales()
}

// Social channels known to the post generator.
const (
	ChannelLinkedIn = "linkedin"
	ChannelTwitter  = "twitter"
)
