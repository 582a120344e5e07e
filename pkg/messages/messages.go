// Package messages holds the events the tracker publishes to the local
// broker. They are encoded with gogo/protobuf.
package messages

import (
	proto "github.com/gogo/protobuf/proto"
)

// GPSStatus is published on every fix state change.
type GPSStatus struct {
	Fix       bool   `protobuf:"varint,1,opt,name=fix,proto3" json:"fix,omitempty"`
	Timestamp int64  `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	AcftID    uint32 `protobuf:"varint,3,opt,name=acft_id,json=acftId,proto3" json:"acft_id,omitempty"`
}

func (m *GPSStatus) Reset()         { *m = GPSStatus{} }
func (m *GPSStatus) String() string { return proto.CompactTextString(m) }
func (*GPSStatus) ProtoMessage()    {}

// Position is a valid fix selected by the position reporter.
type Position struct {
	AcftID     uint32  `protobuf:"varint,1,opt,name=acft_id,json=acftId,proto3" json:"acft_id,omitempty"`
	Lat        float64 `protobuf:"fixed64,2,opt,name=lat,proto3" json:"lat,omitempty"`
	Lon        float64 `protobuf:"fixed64,3,opt,name=lon,proto3" json:"lon,omitempty"`
	Altitude   float64 `protobuf:"fixed64,4,opt,name=altitude,proto3" json:"altitude,omitempty"`
	Satellites int32   `protobuf:"varint,5,opt,name=satellites,proto3" json:"satellites,omitempty"`
	Hdop       float64 `protobuf:"fixed64,6,opt,name=hdop,proto3" json:"hdop,omitempty"`
	FixTime    string  `protobuf:"bytes,7,opt,name=fix_time,json=fixTime,proto3" json:"fix_time,omitempty"`
	Timestamp  int64   `protobuf:"varint,8,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Raw        string  `protobuf:"bytes,9,opt,name=raw,proto3" json:"raw,omitempty"`
}

func (m *Position) Reset()         { *m = Position{} }
func (m *Position) String() string { return proto.CompactTextString(m) }
func (*Position) ProtoMessage()    {}
