package models

import "time"

// HistoryEntry records one wheel landing
type HistoryEntry struct {
	ID        string    `json:"id" badgerhold:"key"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Timestamp time.Time `json:"timestamp" badgerhold:"index"`
}
