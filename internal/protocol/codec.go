package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

// Wire layout: Kind(1) + Index(2, big-endian) + msgpack-encoded payload.
// Payload fields absent on the wire decode to their zero values, so adding
// trailing optional fields stays compatible within a VersionIteration.

// HeaderSize is the fixed header size: Kind(1) + Index(2).
const HeaderSize = 3

var (
	ErrPacketTooShort = errors.New("protocol: packet too short")
	ErrUnknownKind    = errors.New("protocol: unknown packet kind")
)

var msgpackHandle codec.MsgpackHandle

// Encode serializes a Packet for transmission.
func Encode(pkt Packet) ([]byte, error) {
	var body []byte
	enc := codec.NewEncoderBytes(&body, &msgpackHandle)
	if err := enc.Encode(pkt.Data); err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", pkt.Data.Kind(), err)
	}

	buf := make([]byte, HeaderSize, HeaderSize+len(body))
	buf[0] = byte(pkt.Data.Kind())
	binary.BigEndian.PutUint16(buf[1:3], uint16(pkt.Index))

	return append(buf, body...), nil
}

// Decode deserializes a received packet. The payload is decoded into the
// concrete variant selected by the kind tag; fields missing from the payload
// keep their zero values.
func Decode(data []byte) (Packet, error) {
	if len(data) < HeaderSize {
		return Packet{}, fmt.Errorf("%w: %d bytes (need at least %d)",
			ErrPacketTooShort, len(data), HeaderSize)
	}

	kind := Kind(data[0])
	pkt := Packet{Index: int(binary.BigEndian.Uint16(data[1:3]))}
	body := data[HeaderSize:]

	payload, err := newPayload(kind)
	if err != nil {
		return Packet{}, err
	}

	if len(body) > 0 {
		dec := codec.NewDecoderBytes(body, &msgpackHandle)
		if err := dec.Decode(payload); err != nil {
			return Packet{}, fmt.Errorf("decode %s payload: %w", kind, err)
		}
	}

	pkt.Data = depointer(payload)
	return pkt, nil
}

// newPayload returns a pointer to a zero value of the variant for kind.
func newPayload(kind Kind) (any, error) {
	switch kind {
	case KindHeartbeat:
		return &Heartbeat{}, nil
	case KindHello:
		return &Hello{}, nil
	case KindHelloAck:
		return &HelloAck{}, nil
	case KindPlayerSetup:
		return &PlayerSetup{}, nil
	case KindPackageList:
		return &PackageList{}, nil
	case KindMissingPackages:
		return &MissingPackages{}, nil
	case KindReadyForPackages:
		return &ReadyForPackages{}, nil
	case KindPackageZip:
		return &PackageZip{}, nil
	case KindReady:
		return &Ready{}, nil
	case KindBuffer:
		return &Buffer{}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownKind, uint8(kind))
	}
}

// depointer converts *Variant back to the value form used in Packet.Data.
func depointer(payload any) PacketData {
	switch p := payload.(type) {
	case *Heartbeat:
		return *p
	case *Hello:
		return *p
	case *HelloAck:
		return *p
	case *PlayerSetup:
		return *p
	case *PackageList:
		return *p
	case *MissingPackages:
		return *p
	case *ReadyForPackages:
		return *p
	case *PackageZip:
		return *p
	case *Ready:
		return *p
	case *Buffer:
		return *p
	default:
		return nil
	}
}
