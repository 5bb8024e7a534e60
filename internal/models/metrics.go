package models

// SystemMetricsSnapshot aggregates lightweight runtime statistics for the
// JSON metrics endpoint.
type SystemMetricsSnapshot struct {
	RequestCount     uint64  `json:"request_count"`
	AvgRequestMs     float64 `json:"avg_request_ms"`
	CacheHitRatio    float64 `json:"cache_hit_ratio"`
	DBQueryCount     uint64  `json:"db_query_count"`
	AvgDBQueryMs     float64 `json:"avg_db_query_ms"`
	ScansAccepted    uint64  `json:"scans_accepted"`
	ScansRejected    uint64  `json:"scans_rejected"`
	GoroutineCount   int     `json:"goroutine_count"`
	HeapAllocBytes   uint64  `json:"heap_alloc_bytes"`
	HeapObjectsCount uint64  `json:"heap_objects_count"`
}
