package domain

import "context"

// RateRepository is the interface for the storage layer of the real time
// reference windows. Both windows are stored together since the backend
// returns them together and partial refreshes are forbidden.
type RateRepository interface {
	GetRealTimeData(ctx context.Context) (*RealTimeData, error)
	SetRealTimeData(ctx context.Context, data *RealTimeData) error
}
