package models

import "time"

type CalendarEvent struct {
	EventID      string     `yaml:"id" json:"id"`
	Title        string     `yaml:"title" json:"title"`
	Description  string     `yaml:"description" json:"description,omitempty"`
	Date         time.Time  `yaml:"date" json:"date"`
	EndDate      *time.Time `yaml:"endDate" json:"endDate,omitempty"`
	Type         string     `yaml:"type" json:"type"` // meeting, capital-call, distribution, deadline, ...
	Location     string     `yaml:"location" json:"location,omitempty"`
	Attendees    []string   `yaml:"attendees" json:"attendees,omitempty"`
	FundName     string     `yaml:"fundName" json:"fundName,omitempty"`
	ReminderTime int        `yaml:"reminderTime" json:"reminderTime,omitempty"` // minutes before event
	Status       string     `yaml:"status" json:"status"`
	Priority     string     `yaml:"priority" json:"priority"`
	URL          string     `yaml:"url" json:"url,omitempty"`
}
