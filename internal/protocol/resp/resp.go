package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// maxHeaderLen bounds a "*<n>\r\n" or "$<n>\r\n" header line (without the type byte).
// A 64-bit decimal length never needs more than 20 digits.
const maxHeaderLen = 64

// preallocLimit caps up-front allocation for declared lengths; larger values
// grow as their bytes actually arrive.
const preallocLimit = 64 * 1024

var (
	ErrProtocol      = errors.New("resp: protocol error")
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// Value is a decoded protocol value: either a BulkString or an Array.
type Value interface {
	isValue()
}

// BulkString is a length-prefixed opaque byte string.
type BulkString []byte

// Array is a length-prefixed ordered list of values.
type Array []Value

func (BulkString) isValue() {}
func (Array) isValue()      {}

// Command builds the Array a client sends for a command and its arguments.
func Command(args ...string) Array {
	out := make(Array, 0, len(args))
	for _, a := range args {
		out = append(out, BulkString(a))
	}
	return out
}

// Decoder reads Values from a buffered stream.
type Decoder struct {
	r           *bufio.Reader
	maxBulkLen  int
	maxArrayLen int
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxBulkLen rejects bulk strings longer than n bytes. Zero means no limit.
func WithMaxBulkLen(n int) DecoderOption {
	return func(d *Decoder) {
		d.maxBulkLen = n
	}
}

// WithMaxArrayLen rejects arrays with more than n elements. Zero means no limit.
func WithMaxArrayLen(n int) DecoderOption {
	return func(d *Decoder) {
		d.maxArrayLen = n
	}
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r *bufio.Reader, opts ...DecoderOption) *Decoder {
	d := &Decoder{r: r}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads one top-level value.
//
// It returns io.EOF, unwrapped, when the stream ends cleanly before the first
// byte of a value. Any other failure, including a stream that ends inside a
// value, wraps ErrProtocol (or ErrLimitExceeded) and leaves the stream at an
// undefined position.
func (d *Decoder) Decode() (Value, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return d.decodeTyped(b)
}

func (d *Decoder) decodeValue() (Value, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, truncated(err)
	}
	return d.decodeTyped(b)
}

func (d *Decoder) decodeTyped(marker byte) (Value, error) {
	switch marker {
	case '*':
		return d.decodeArray()
	case '$':
		return d.decodeBulkString()
	default:
		return nil, fmt.Errorf("%w: unexpected type byte %q", ErrProtocol, marker)
	}
}

func (d *Decoder) decodeArray() (Value, error) {
	n, err := d.readLength("array")
	if err != nil {
		return nil, err
	}
	if d.maxArrayLen > 0 && n > d.maxArrayLen {
		return nil, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, n, d.maxArrayLen)
	}

	out := make(Array, 0, min(n, preallocLimit))
	for i := 0; i < n; i++ {
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Decoder) decodeBulkString() (Value, error) {
	n, err := d.readLength("bulk")
	if err != nil {
		return nil, err
	}
	if d.maxBulkLen > 0 && n > d.maxBulkLen {
		return nil, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, n, d.maxBulkLen)
	}

	b, err := d.readBulkBody(n)
	if err != nil {
		return nil, err
	}
	return BulkString(b), nil
}

// readBulkBody reads n content bytes followed by a two-byte terminator.
func (d *Decoder) readBulkBody(n int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(min(n, preallocLimit))
	if _, err := io.CopyN(&buf, d.r, int64(n)); err != nil {
		return nil, truncated(err)
	}

	// The terminator is consumed but not checked.
	if _, err := d.r.Discard(2); err != nil {
		return nil, truncated(err)
	}
	return buf.Bytes(), nil
}

// readLength reads a CRLF-terminated non-negative decimal header.
func (d *Decoder) readLength(kind string) (int, error) {
	line, err := readLine(d.r, maxHeaderLen)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(string(line), 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s length %q", ErrProtocol, kind, line)
	}
	return int(n), nil
}

func readLine(r *bufio.Reader, maxLen int) ([]byte, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > maxLen {
				return nil, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, maxLen)
			}
			continue
		}
		return nil, truncated(err)
	}

	if len(buf) > maxLen {
		return nil, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, maxLen)
	}
	if !bytes.HasSuffix(buf, []byte("\r\n")) {
		return nil, fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	return buf[:len(buf)-2], nil
}

// truncated reports a stream that ended inside a value as a protocol error.
// Other read failures are transport errors and are returned unchanged.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrProtocol, io.ErrUnexpectedEOF)
	}
	return err
}

// AppendValue appends the wire encoding of v to dst.
func AppendValue(dst []byte, v Value) []byte {
	switch v := v.(type) {
	case BulkString:
		return appendBulk(dst, v)
	case Array:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, '\r', '\n')
		for _, e := range v {
			dst = AppendValue(dst, e)
		}
		return dst
	default:
		return dst
	}
}

func appendBulk[T ~string | ~[]byte](dst []byte, b T) []byte {
	dst = append(dst, '$')
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, '\r', '\n')
	dst = append(dst, b...)
	return append(dst, '\r', '\n')
}
