package mmodel

import "time"

// IdempotencyRecord stores a finished API response so that a replayed request
// with the same key returns the original bytes verbatim.
type IdempotencyRecord struct {
	TenantID       string    `json:"tenantId"`
	Method         string    `json:"method"`
	Path           string    `json:"path"`
	BodyHash       string    `json:"bodyHash"`
	IdempotencyKey string    `json:"idempotencyKey"`
	StatusCode     int       `json:"statusCode"`
	ResponseBody   []byte    `json:"responseBody"`
	ExpiresAt      time.Time `json:"expiresAt"`
}
