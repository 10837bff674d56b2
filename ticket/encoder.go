package ticket

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

const ticketFormatVersionV1 = 1

// ErrCorruptRecord is returned when a stored ticket cannot be decoded.
var ErrCorruptRecord = errors.New("ticket record corrupt")

func encode(t *Ticket) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(ticketFormatVersionV1)
	buf.WriteByte(byte(t.State))

	for _, field := range []string{t.ID, t.KeyHash, t.RedirectURL} {
		if len(field) > math.MaxUint16 {
			return nil, errors.New("ticket field too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*Ticket, error) {
	if len(data) < 2 || data[0] != ticketFormatVersionV1 {
		return nil, ErrCorruptRecord
	}

	t := &Ticket{State: State(data[1])}
	if t.State != Unused && t.State != Used {
		return nil, ErrCorruptRecord
	}

	reader := bytes.NewReader(data[2:])
	for _, field := range []*string{&t.ID, &t.KeyHash, &t.RedirectURL} {
		var n uint16
		if err := binary.Read(reader, binary.BigEndian, &n); err != nil {
			return nil, ErrCorruptRecord
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(reader, b); err != nil {
			return nil, ErrCorruptRecord
		}
		*field = string(b)
	}
	if reader.Len() != 0 {
		return nil, ErrCorruptRecord
	}
	return t, nil
}
