package models

import "time"

type Document struct {
	DocumentID  string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Type        string    `yaml:"type" json:"type"`         // quarterly-report, tax-form, fund-document, ...
	Category    string    `yaml:"category" json:"category"` // "Fund Level" or "Investor Specific"
	UploadDate  time.Time `yaml:"uploadDate" json:"uploadDate"`
	Size        int64     `yaml:"size" json:"size"`
	Description string    `yaml:"description" json:"description,omitempty"`
	Tags        []string  `yaml:"tags" json:"tags"`
	FundName    string    `yaml:"fundName" json:"fundName,omitempty"`
	Quarter     string    `yaml:"quarter" json:"quarter,omitempty"`
	Year        int       `yaml:"year" json:"year,omitempty"`
}
