package account

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

const accountFormatVersionV1 = 1

// ErrCorruptRecord is returned when a stored account cannot be decoded.
var ErrCorruptRecord = errors.New("account record corrupt")

func encode(a *Account) ([]byte, error) {
	if (a.TokenState == TokenIssued) != (a.TokenHash != "") {
		return nil, errors.New("token state does not match token hash")
	}

	var buf bytes.Buffer

	buf.WriteByte(accountFormatVersionV1)
	buf.WriteByte(byte(a.TokenState))
	if err := binary.Write(&buf, binary.BigEndian, a.Version); err != nil {
		return nil, err
	}

	for _, field := range []string{
		a.AccountID,
		a.Email,
		a.Username,
		a.PasswordHash,
		a.SessionID,
		a.TokenHash,
		a.RefreshTokenHash,
	} {
		if err := writeString(&buf, field); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decode(data []byte) (*Account, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, ErrCorruptRecord
	}
	if version != accountFormatVersionV1 {
		return nil, ErrCorruptRecord
	}

	state, err := reader.ReadByte()
	if err != nil {
		return nil, ErrCorruptRecord
	}

	a := &Account{TokenState: TokenState(state)}
	if a.TokenState != TokenIssued && a.TokenState != TokenConsumed {
		return nil, ErrCorruptRecord
	}
	if err := binary.Read(reader, binary.BigEndian, &a.Version); err != nil {
		return nil, ErrCorruptRecord
	}

	for _, field := range []*string{
		&a.AccountID,
		&a.Email,
		&a.Username,
		&a.PasswordHash,
		&a.SessionID,
		&a.TokenHash,
		&a.RefreshTokenHash,
	} {
		if *field, err = readString(reader); err != nil {
			return nil, ErrCorruptRecord
		}
	}

	if (a.TokenState == TokenIssued) != (a.TokenHash != "") {
		return nil, ErrCorruptRecord
	}

	return a, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return errors.New("account field too long")
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return "", err
	}
	return string(out), nil
}
