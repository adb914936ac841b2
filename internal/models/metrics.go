package models

import "time"

// ConsoleMetrics is a lightweight snapshot of gateway instrumentation.
type ConsoleMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	FetchCount               uint64    `json:"fetchCount"`
	AverageFetchDurationMs   float64   `json:"averageFetchDurationMs"`
	StaleResponses           uint64    `json:"staleResponses"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
