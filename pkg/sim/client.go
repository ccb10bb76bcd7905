// Package sim provides simulator client interfaces and types.
package sim

import (
	"context"
	"errors"

	"voiceatis/pkg/model"
)

var (
	// ErrNotConnected is returned when a client action requires a connection.
	ErrNotConnected = errors.New("simulator not connected")
)

// Client defines the interface for simulator interaction.
type Client interface {
	// GetTelemetry returns the current state of the aircraft.
	GetTelemetry(ctx context.Context) (Telemetry, error)
	// GetRadios returns the tuned frequency of every receiver.
	GetRadios(ctx context.Context) ([]model.TunedFrequency, error)
	// Close cleans up resources associated with the client.
	Close() error
}

// Telemetry represents a snapshot of aircraft state.
type Telemetry struct {
	Latitude    float64 // Degrees
	Longitude   float64 // Degrees
	AltitudeMSL float64 // Feet MSL
	GroundSpeed float64 // Knots
	IsOnGround  bool    // True if parked or taxiing
}

// Airborne reports whether the aircraft should use the airborne role
// priority.
func (t Telemetry) Airborne() bool {
	return !t.IsOnGround
}
