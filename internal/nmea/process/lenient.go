package process

import (
	"container/list"
	"time"

	"github.com/dumacp/gpsnmea"
	"github.com/golang/geo/s2"
)

const (
	historyLen = 5
	// upper bound for a glider, km/h
	maxSpeed = 350.0
	// mean km per degree of arc
	kmPerDegree = 111.139
)

// lenient trusts the receiver's own quality fields and drops GGA fixes with
// poor geometry or an implausible jump from recent history.
type lenient struct {
	position
	history *list.List
}

func newLenient() *lenient {
	return &lenient{history: list.New()}
}

func (p *lenient) Parse(sentence string) Result {
	frame := trimSentence(sentence)
	switch frameType(frame) {
	case RMC:
		vr := gpsnmea.ParseRMC(frame)
		if vr == nil {
			return ResultError
		}
		if !vr.Validity {
			return ResultPosInvalid
		}
		p.update(Position{
			Lat:     gpsnmea.LatLongToDecimalDegree(vr.Lat, vr.LatCord),
			Lon:     gpsnmea.LatLongToDecimalDegree(vr.Long, vr.LongCord),
			FixTime: vr.TimeStamp,
			Raw:     frame,
		})
		return ResultPosValid
	case GGA:
		vg := gpsnmea.ParseGGA(frame)
		if vg == nil {
			return ResultError
		}
		if !p.isValidFrame(vg) {
			return ResultPosInvalid
		}
		p.update(Position{
			Lat:        gpsnmea.LatLongToDecimalDegree(vg.Lat, vg.LatCord),
			Lon:        gpsnmea.LatLongToDecimalDegree(vg.Long, vg.LongCord),
			Altitude:   float64(vg.Altitude),
			Satellites: int(vg.NumberSat),
			HDOP:       float64(vg.HDop),
			FixTime:    vg.TimeStamp,
			Raw:        frame,
		})
		return ResultPosValid
	}
	return ResultNotHandled
}

func (p *lenient) isValidFrame(frame *gpsnmea.Gpgga) bool {
	v1 := verifyHDOP(frame)
	v2 := verifySatellites(v1)
	v3 := p.verifySpeed(v2)
	return v3 != nil
}

func (p *lenient) push(g *gpsnmea.Gpgga) {
	if p.history.Len() >= historyLen {
		if e := p.history.Front(); e != nil {
			p.history.Remove(e)
		}
	}
	p.history.PushBack(g)
}

func verifyHDOP(g1 *gpsnmea.Gpgga) *gpsnmea.Gpgga {
	if g1 == nil {
		return nil
	}
	if g1.HDop > 1.6 && g1.NumberSat < 5 {
		return nil
	}
	if g1.HDop > 1.7 {
		return nil
	}
	return g1
}

func verifySatellites(g1 *gpsnmea.Gpgga) *gpsnmea.Gpgga {
	if g1 == nil {
		return nil
	}
	if g1.NumberSat < 3 {
		return nil
	}
	return g1
}

// verifySpeed rejects g1 when reaching it from any remembered fix needs a
// ground speed above maxSpeed. Accepted fixes join the history.
func (p *lenient) verifySpeed(g1 *gpsnmea.Gpgga) *gpsnmea.Gpgga {
	if g1 == nil {
		return nil
	}
	for e := p.history.Front(); e != nil; e = e.Next() {
		g0, ok := e.Value.(*gpsnmea.Gpgga)
		if !ok {
			continue
		}
		if speed(g0, g1) > maxSpeed {
			return nil
		}
	}
	p.push(g1)
	return g1
}

// speed in km/h between two fixes; 0 when the time stamps cannot be compared.
func speed(gga0, gga1 *gpsnmea.Gpgga) float64 {
	t0, err := time.Parse("150405", clock(gga0.TimeStamp))
	if err != nil {
		return 0
	}
	t1, err := time.Parse("150405", clock(gga1.TimeStamp))
	if err != nil {
		return 0
	}
	if !t1.After(t0) {
		return 0
	}
	p0 := s2.LatLngFromDegrees(
		gpsnmea.LatLongToDecimalDegree(gga0.Lat, gga0.LatCord),
		gpsnmea.LatLongToDecimalDegree(gga0.Long, gga0.LongCord))
	p1 := s2.LatLngFromDegrees(
		gpsnmea.LatLongToDecimalDegree(gga1.Lat, gga1.LatCord),
		gpsnmea.LatLongToDecimalDegree(gga1.Long, gga1.LongCord))
	dDiff := p0.Distance(p1).Degrees() * kmPerDegree
	return dDiff / t1.Sub(t0).Hours()
}

// clock drops fractional seconds from an hhmmss[.sss] stamp.
func clock(stamp string) string {
	if len(stamp) > 6 {
		return stamp[:6]
	}
	return stamp
}
