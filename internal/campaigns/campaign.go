// Copyright (c) 2026 TrustVoice. All rights reserved.

// Package campaigns exposes the read-only fundraising catalogue.
package campaigns

import "time"

// Campaign is a fundraising drive run by a partner organization.
type Campaign struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Organization string    `json:"organization"`
	Description  string    `json:"description,omitempty"`
	GoalMinor    int64     `json:"goal_minor"`
	RaisedMinor  int64     `json:"raised_minor"`
	Currency     string    `json:"currency"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// Progress returns raised/goal as a fraction in [0, 1]; a zero goal is 0.
func (c Campaign) Progress() float64 {
	if c.GoalMinor <= 0 {
		return 0
	}
	progress := float64(c.RaisedMinor) / float64(c.GoalMinor)
	if progress > 1 {
		return 1
	}
	return progress
}
