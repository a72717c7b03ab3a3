package models

import (
	"fmt"
	"time"
)

// Comment is the free-text annotation attached to a session group.
type Comment struct {
	Value string `json:"value"`
	Done  bool   `json:"done"`
}

// RunInfo reports where and how recently a session group last wrote events.
type RunInfo struct {
	Hostname     string    `json:"hostname"`
	Alias        string    `json:"alias,omitempty"`
	EventFile    string    `json:"event_file"`
	ModTime      time.Time `json:"mod_time"`
	ElapsedHours float64   `json:"elapsed_hours"`
}

// DisplayHost returns the alias when one was found, else the raw hostname.
func (r *RunInfo) DisplayHost() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Hostname
}

func (r *RunInfo) Display() string {
	return fmt.Sprintf("<strong>%s</strong>(%.1fhrs ago)", r.DisplayHost(), r.ElapsedHours)
}

// HostAlias is one record of the host alias table.
type HostAlias struct {
	Alias string `json:"alias"`
}
