package api

import (
	"bytes"
	"encoding/json"

	"example.com/heartmonitor/internal/domain"
)

// AddDataRequest is the payload for POST /api/add_data. heart_rate may be a
// JSON string or a JSON number.
type AddDataRequest struct {
	Timestamp json.RawMessage `json:"timestamp"`
	HeartRate json.RawMessage `json:"heart_rate"`
}

func (r AddDataRequest) timestamp() (string, error) {
	var value string
	if len(r.Timestamp) == 0 || bytes.Equal(r.Timestamp, []byte("null")) {
		return "", &domain.ValidationError{Field: "timestamp", Reason: "is required"}
	}
	if err := json.Unmarshal(r.Timestamp, &value); err != nil {
		return "", &domain.ValidationError{Field: "timestamp", Value: string(r.Timestamp), Reason: "must be a string"}
	}
	return value, nil
}

// heartRateNumber reports whether heart_rate was sent as a JSON number and,
// if so, its value. Values that are neither numbers nor strings are rejected.
func (r AddDataRequest) heartRateNumber() (float64, bool, error) {
	trimmed := bytes.TrimSpace(r.HeartRate)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false, &domain.ValidationError{Field: "heart_rate", Reason: "is required"}
	}
	switch trimmed[0] {
	case '"':
		return 0, false, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var number float64
		if err := json.Unmarshal(trimmed, &number); err != nil {
			return 0, false, &domain.ValidationError{Field: "heart_rate", Value: string(trimmed), Reason: "not a finite number"}
		}
		return number, true, nil
	default:
		return 0, false, &domain.ValidationError{Field: "heart_rate", Value: string(trimmed), Reason: "must be a number or numeric string"}
	}
}

func (r AddDataRequest) heartRateText() string {
	var value string
	_ = json.Unmarshal(r.HeartRate, &value)
	return value
}

// SeriesResponse mirrors the persisted document.
type SeriesResponse struct {
	Timestamps []string  `json:"timestamps"`
	HeartRates []float64 `json:"heart_rates"`
}

// ReadingResponse echoes an accepted reading.
type ReadingResponse struct {
	Timestamp string  `json:"timestamp"`
	HeartRate float64 `json:"heart_rate"`
}

// ErrorResponse is returned with every 4xx/5xx status.
type ErrorResponse struct {
	Message string `json:"message"`
}

// AnnotatedReadingView is a reading with its classification.
type AnnotatedReadingView struct {
	Timestamp string  `json:"timestamp"`
	HeartRate float64 `json:"heart_rate"`
	Status    string  `json:"status"`
}

// AnomaliesResponse describes the threshold band and every classified reading.
type AnomaliesResponse struct {
	Low           float64                `json:"low"`
	High          float64                `json:"high"`
	AbnormalCount int                    `json:"abnormal_count"`
	Readings      []AnnotatedReadingView `json:"readings"`
}

func toSeriesResponse(s domain.Series) SeriesResponse {
	resp := SeriesResponse{
		Timestamps: make([]string, 0, len(s.Timestamps)),
		HeartRates: make([]float64, 0, len(s.HeartRates)),
	}
	for i := range s.Timestamps {
		resp.Timestamps = append(resp.Timestamps, formatTimestamp(s.Timestamps[i]))
	}
	resp.HeartRates = append(resp.HeartRates, s.HeartRates...)
	return resp
}

func toReadingResponse(r domain.Reading) ReadingResponse {
	return ReadingResponse{Timestamp: formatTimestamp(r.Timestamp), HeartRate: r.HeartRate}
}
