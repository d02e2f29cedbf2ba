package server

import "time"

// Response types shared by the server and Client

// IndexStatus represents the current status of the served index
type IndexStatus struct {
	Ready         bool      `json:"ready"`
	IndexPath     string    `json:"index_path"`
	Entries       int       `json:"entries"`
	CachedQueries int       `json:"cached_queries"`
	LoadedAt      time.Time `json:"loaded_at,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// PingResponse contains server health information
type PingResponse struct {
	Uptime  float64 `json:"uptime"`
	Version string  `json:"version"`
	BuildID string  `json:"build_id"`
}
