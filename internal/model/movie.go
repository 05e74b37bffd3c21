package model

import "time"

// Movie is a catalog entry.
type Movie struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

// MovieEvent pairs a movie snapshot with the instant the event was emitted.
// Events are never persisted.
type MovieEvent struct {
	Movie Movie     `json:"movie"`
	When  time.Time `json:"when"`
}

// SeedTitles are the titles the catalog is reset to at startup.
var SeedTitles = []string{"Test1", "Test2", "Test3", "Test4"}
