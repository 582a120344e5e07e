package messages

import "github.com/dumacp/go-ogntracker/internal/nmea/process"

// GPSDebug switches the parse-result mirror of the GPS supervisor.
type GPSDebug struct {
	On bool
}

// GPSColdReset asks the GPS supervisor to cold-reset the receiver.
type GPSColdReset struct{}

// PositionRequest is answered with a PositionResponse.
type PositionRequest struct{}

type PositionResponse struct {
	Valid    bool
	Position process.Position
}
