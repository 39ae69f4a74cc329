package rdb

import "time"

// ReleaseRecord is the RDB persistence model for domain Release.
// Table name: releases
type ReleaseRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	Workload  string    `gorm:"type:text;not null;index"`
	Namespace string    `gorm:"type:text"`
	Hash      string    `gorm:"type:text;not null"`
	Manifest  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (ReleaseRecord) TableName() string { return "releases" }
