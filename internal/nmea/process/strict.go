package process

import (
	nmea "github.com/adrianmo/go-nmea"
)

// strict verifies checksums and uses the fix indicators of RMC and GGA.
type strict struct {
	position
}

func newStrict() *strict {
	return &strict{}
}

func (p *strict) Parse(sentence string) Result {
	frame := trimSentence(sentence)
	if frameType(frame) == Unknown {
		return ResultNotHandled
	}
	s, err := nmea.Parse(frame)
	if err != nil {
		return ResultError
	}
	switch s.DataType() {
	case nmea.TypeRMC:
		m := s.(nmea.RMC)
		if m.Validity != nmea.ValidRMC {
			return ResultPosInvalid
		}
		p.update(Position{
			Lat:     m.Latitude,
			Lon:     m.Longitude,
			FixTime: m.Time.String(),
			Raw:     frame,
		})
		return ResultPosValid
	case nmea.TypeGGA:
		m := s.(nmea.GGA)
		if m.FixQuality == nmea.Invalid || m.NumSatellites < 3 {
			return ResultPosInvalid
		}
		p.update(Position{
			Lat:        m.Latitude,
			Lon:        m.Longitude,
			Altitude:   m.Altitude,
			Satellites: int(m.NumSatellites),
			HDOP:       m.HDOP,
			FixTime:    m.Time.String(),
			Raw:        frame,
		})
		return ResultPosValid
	}
	return ResultNotHandled
}
