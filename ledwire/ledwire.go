// Package ledwire implements the serial framing between the stripctl host
// and the LED controller.
//
// Every packet is a type byte, a type-specific body and a trailing CRC32 of
// everything before it. Frame packets carry raw pixel data; their length is
// implied by the strip size negotiated in the init packet, which the reader
// learns through ReadContext.
package ledwire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// HostPacketType is the type of a packet sent by the host.
type HostPacketType uint8

const (
	TypeInitPacket HostPacketType = iota
	TypeFramePacket
	TypeBlackoutPacket
)

// String returns a string representation of the packet type.
func (t HostPacketType) String() string {
	switch t {
	case TypeInitPacket:
		return "init"
	case TypeFramePacket:
		return "frame"
	case TypeBlackoutPacket:
		return "blackout"
	default:
		return fmt.Sprintf("HostPacketType(%d)", uint8(t))
	}
}

// HostPacket is a packet sent from the host to the controller.
type HostPacket interface {
	// Type returns the type of packet.
	Type() HostPacketType
}

// InitPacket tells the controller how many LEDs the host will drive. It must
// be the first packet on the wire; frame sizes derive from it.
type InitPacket struct {
	NumLEDs uint16
}

// FramePacket carries one full frame of pixel data, three bytes per LED in
// RGB channel order.
type FramePacket struct {
	Pix []uint8
}

// BlackoutPacket turns the whole strip off without sending pixel data.
type BlackoutPacket struct{}

func (p InitPacket) Type() HostPacketType     { return TypeInitPacket }
func (p FramePacket) Type() HostPacketType    { return TypeFramePacket }
func (p BlackoutPacket) Type() HostPacketType { return TypeBlackoutPacket }

// DevicePacketType is the type of a packet sent by the controller.
type DevicePacketType uint8

const (
	TypeAckPacket DevicePacketType = iota
	TypeErrorPacket
	TypeLogPacket
)

// String returns a string representation of the packet type.
func (t DevicePacketType) String() string {
	switch t {
	case TypeAckPacket:
		return "ack"
	case TypeErrorPacket:
		return "error"
	case TypeLogPacket:
		return "log"
	default:
		return fmt.Sprintf("DevicePacketType(%d)", uint8(t))
	}
}

// DevicePacket is a packet sent from the controller to the host.
type DevicePacket interface {
	// Type returns the type of packet.
	Type() DevicePacketType
}

// AckPacket acknowledges a host packet. The host uses it to pace frames.
type AckPacket struct {
	For HostPacketType
}

// ErrorPacket reports an error on the controller.
type ErrorPacket struct {
	Message string
}

// LogPacket carries a log message from the controller.
type LogPacket struct {
	Message string
}

func (p AckPacket) Type() DevicePacketType   { return TypeAckPacket }
func (p ErrorPacket) Type() DevicePacketType { return TypeErrorPacket }
func (p LogPacket) Type() DevicePacketType   { return TypeLogPacket }

// ReadContext carries strip state that the reader needs to size incoming
// frame packets.
type ReadContext struct {
	// NumLEDs is the number of LEDs in the strip, as negotiated by the init
	// packet.
	NumLEDs uint16
}

// ReadHostPacket reads one host packet from the given reader.
func ReadHostPacket(r io.Reader, context ReadContext) (HostPacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read host packet type: %w", err)
	}

	var packet HostPacket
	switch ptype := HostPacketType(ptypeBuf[0]); ptype {
	case TypeInitPacket:
		var p InitPacket
		if err := binary.Read(r, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read number of LEDs: %w", err)
		}
		packet = p

	case TypeFramePacket:
		p := FramePacket{Pix: make([]uint8, 3*context.NumLEDs)}
		if _, err := io.ReadFull(r, p.Pix); err != nil {
			return nil, fmt.Errorf("failed to read pixel data: %w", err)
		}
		packet = p

	case TypeBlackoutPacket:
		packet = BlackoutPacket{}

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := verifyChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}
	return packet, nil
}

// WriteHostPacket writes one host packet to the given writer.
func WriteHostPacket(w io.Writer, p HostPacket) error {
	hash := crc32.NewIEEE()
	w = io.MultiWriter(w, hash)

	if err := binary.Write(w, Endianness, p.Type()); err != nil {
		return fmt.Errorf("failed to write packet type: %w", err)
	}

	switch p := p.(type) {
	case InitPacket:
		if err := binary.Write(w, Endianness, p); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}
	case FramePacket:
		if _, err := w.Write(p.Pix); err != nil {
			return fmt.Errorf("failed to write pixel data: %w", err)
		}
	case BlackoutPacket:
		// Type byte only.
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}
	return nil
}

// ReadDevicePacket reads one controller packet from the given reader.
func ReadDevicePacket(r io.Reader) (DevicePacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read device packet type: %w", err)
	}

	var packet DevicePacket
	switch ptype := DevicePacketType(ptypeBuf[0]); ptype {
	case TypeAckPacket:
		var p AckPacket
		if err := binary.Read(r, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read acked packet type: %w", err)
		}
		packet = p

	case TypeErrorPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read error message: %w", err)
		}
		packet = ErrorPacket{Message: msg}

	case TypeLogPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read log message: %w", err)
		}
		packet = LogPacket{Message: msg}

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := verifyChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}
	return packet, nil
}

// WriteDevicePacket writes one controller packet to the given writer.
func WriteDevicePacket(w io.Writer, p DevicePacket) error {
	hash := crc32.NewIEEE()
	w = io.MultiWriter(w, hash)

	if err := binary.Write(w, Endianness, p.Type()); err != nil {
		return fmt.Errorf("failed to write packet type: %w", err)
	}

	switch p := p.(type) {
	case AckPacket:
		if err := binary.Write(w, Endianness, p); err != nil {
			return fmt.Errorf("failed to write acked packet type: %w", err)
		}
	case ErrorPacket:
		if err := writeMessage(w, p.Message); err != nil {
			return fmt.Errorf("failed to write error message: %w", err)
		}
	case LogPacket:
		if err := writeMessage(w, p.Message); err != nil {
			return fmt.Errorf("failed to write log message: %w", err)
		}
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}
	return nil
}

// readMessage reads a uint16-length-prefixed string.
func readMessage(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, Endianness, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeMessage writes a uint16-length-prefixed string.
func writeMessage(w io.Writer, msg string) error {
	if err := binary.Write(w, Endianness, uint16(len(msg))); err != nil {
		return err
	}
	_, err := w.Write([]byte(msg))
	return err
}

// verifyChecksum reads the trailing CRC32 and compares it to the running
// sum of everything read so far.
func verifyChecksum(r io.Reader, sum uint32) error {
	// The checksum bytes feed the running hash too, so read them raw first.
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fmt.Errorf("failed to read packet checksum: %w", err)
	}
	if Endianness.Uint32(buf[:]) != sum {
		return fmt.Errorf("packet checksum mismatch")
	}
	return nil
}
