package messages

import (
	"testing"

	proto "github.com/gogo/protobuf/proto"
)

func TestPosition_Encoding(t *testing.T) {
	in := &Position{
		AcftID:     0xDD1234,
		Lat:        46.5,
		Lon:        7.25,
		Altitude:   1520.5,
		Satellites: 9,
		FixTime:    "123519",
		Raw:        "$GPGGA,123519*47",
	}
	data, err := proto.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %s", err)
	}
	out := &Position{}
	if err := proto.Unmarshal(data, out); err != nil {
		t.Fatalf("Unmarshal() error = %s", err)
	}
	if *out != *in {
		t.Errorf("decoded %v, want %v", out, in)
	}
}

func TestGPSStatus_Empty(t *testing.T) {
	data, err := proto.Marshal(&GPSStatus{})
	if err != nil {
		t.Fatalf("Marshal() error = %s", err)
	}
	if len(data) != 0 {
		t.Errorf("empty status encodes to %d bytes", len(data))
	}
}
