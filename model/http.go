package model

type NormalizeResponse struct {
	RequestID string  `json:"request_id"`
	Section   Section `json:"section"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
