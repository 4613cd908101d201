package dto

import "time"

const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string         `json:"status"`
	Catalog *CatalogHealth `json:"catalog,omitempty"`
}

// CatalogHealth describes the plan catalog snapshot being served
type CatalogHealth struct {
	Plans    int       `json:"plans"`
	LoadedAt time.Time `json:"loadedAt"`
}
