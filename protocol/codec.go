package protocol

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Decoder reads server messages from an XML stream.
type Decoder struct {
	d *xml.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{d: xml.NewDecoder(r)}
}

// Decode blocks until the next message the client understands has been read. Errors wrapping
// ErrDeserialize leave the stream usable; any other error means the stream is broken.
func (d *Decoder) Decode() (ServerMessage, error) {
	for {
		tok, err := d.d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			msg, err := d.decodeElement(t)
			if err != nil || msg != nil {
				return msg, err
			}
		case xml.EndElement:
			if t.Name.Local == "protocol" {
				return Left{}, nil
			}
		}
	}
}

func (d *Decoder) decodeElement(start xml.StartElement) (ServerMessage, error) {
	switch start.Name.Local {
	case "protocol":
		// Stream opener: messages are its children
		return nil, nil
	case "joined":
		var j joinedXML
		if err := d.d.DecodeElement(&j, &start); err != nil {
			return nil, decodeError("joined", err)
		}
		return Joined{RoomID: j.RoomID}, nil
	case "left", "sc.protocol.responses.CloseConnection":
		if err := d.d.Skip(); err != nil {
			return nil, err
		}
		return Left{}, nil
	case "errorpacket":
		var e errorXML
		if err := d.d.DecodeElement(&e, &start); err != nil {
			return nil, decodeError("error packet", err)
		}
		return Error{Message: e.Message}, nil
	case "room":
		var r roomXML
		if err := d.d.DecodeElement(&r, &start); err != nil {
			return nil, decodeError("room message", err)
		}
		msg, ok, err := r.message()
		if err != nil || !ok {
			return nil, err
		}
		return msg, nil
	default:
		return nil, d.d.Skip()
	}
}

// decodeError classifies a DecodeElement failure. A value that does not fit its field leaves the
// stream intact and wraps ErrDeserialize; broken XML and read errors are returned as is.
func decodeError(what string, err error) error {
	var numErr *strconv.NumError
	var unmarshalErr xml.UnmarshalError
	if errors.As(err, &numErr) || errors.As(err, &unmarshalErr) {
		return fmt.Errorf("%w: %s: %v", ErrDeserialize, what, err)
	}
	return fmt.Errorf("failed to decode %s: %w", what, err)
}

// Encoder writes client messages to an XML stream.
type Encoder struct {
	w io.Writer
	e *xml.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, e: xml.NewEncoder(w)}
}

// Open starts the stream. It must be called before the first Encode.
func (e *Encoder) Open() error {
	_, err := io.WriteString(e.w, "<protocol>")
	return err
}

func (e *Encoder) Encode(msg ClientMessage) error {
	v, err := wireValue(msg)
	if err != nil {
		return err
	}
	if err := e.e.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %T: %w", msg, err)
	}
	return nil
}

// Close ends the stream.
func (e *Encoder) Close() error {
	_, err := io.WriteString(e.w, "</protocol>")
	return err
}

// ErrEmptyFrame is returned by DecodeMessage for frames without a message.
var ErrEmptyFrame = fmt.Errorf("%w: frame holds no message", ErrDeserialize)

// DecodeMessage decodes a single framed message.
func DecodeMessage(data []byte) (ServerMessage, error) {
	msg, err := NewDecoder(bytes.NewReader(data)).Decode()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFrame
	}
	return msg, err
}

// EncodeMessage encodes a single message for framed transports.
func EncodeMessage(msg ClientMessage) ([]byte, error) {
	v, err := wireValue(msg)
	if err != nil {
		return nil, err
	}
	return xml.Marshal(v)
}
