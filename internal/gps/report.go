package gps

import (
	"time"

	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/nmea/process"
	"github.com/dumacp/go-ogntracker/internal/pubsub"
	pmsg "github.com/dumacp/go-ogntracker/pkg/messages"
	proto "github.com/gogo/protobuf/proto"
	"github.com/golang/geo/s2"
)

// mean earth radius in meters
const earthRadius = 6371010.0

// Publisher delivers an encoded event.
type Publisher func(topic string, payload []byte)

// reporter publishes valid positions after the aircraft moved distanceMin
// meters or every interval.
type reporter struct {
	distanceMin float64
	interval    time.Duration
	publish     Publisher
	now         func() time.Time

	last     process.Position
	lastSent time.Time
	sent     bool
}

func newReporter(distanceMin int, interval time.Duration, publish Publisher) *reporter {
	return &reporter{
		distanceMin: float64(distanceMin),
		interval:    interval,
		publish:     publish,
		now:         time.Now,
	}
}

func distance(p0, p1 process.Position) float64 {
	ll0 := s2.LatLngFromDegrees(p0.Lat, p0.Lon)
	ll1 := s2.LatLngFromDegrees(p1.Lat, p1.Lon)
	return ll0.Distance(ll1).Radians() * earthRadius
}

// offer publishes pos when it is due and reports whether it did.
func (r *reporter) offer(pos process.Position) bool {
	if r.publish == nil {
		return false
	}
	now := r.now()
	switch {
	case !r.sent:
	case r.interval > 0 && now.Sub(r.lastSent) >= r.interval:
	case distance(r.last, pos) >= r.distanceMin:
	default:
		return false
	}
	data, err := proto.Marshal(&pmsg.Position{
		AcftID:     pos.AircraftID,
		Lat:        pos.Lat,
		Lon:        pos.Lon,
		Altitude:   pos.Altitude,
		Satellites: int32(pos.Satellites),
		Hdop:       pos.HDOP,
		FixTime:    pos.FixTime,
		Timestamp:  now.Unix(),
		Raw:        pos.Raw,
	})
	if err != nil {
		logs.LogError.Printf("gps: encode position: %s", err)
		return false
	}
	r.publish(pubsub.TopicGPS, data)
	r.last = pos
	r.lastSent = now
	r.sent = true
	return true
}
