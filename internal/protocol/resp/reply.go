package resp

import (
	"bufio"
	"fmt"
	"strconv"
)

// Reply is the result of executing one command.
type Reply interface {
	isReply()
}

// StatusReply is a simple status line such as OK or PONG.
type StatusReply string

// BulkReply is a length-prefixed string reply.
type BulkReply string

// NullReply signals a missing value.
type NullReply struct{}

// ErrorReply is an error line sent by a server. kvlite never produces one;
// ReadReply returns it as an error so clients can talk to other servers.
type ErrorReply string

func (StatusReply) isReply() {}
func (BulkReply) isReply()   {}
func (NullReply) isReply()   {}

func (e ErrorReply) Error() string { return string(e) }

// Common replies.
const (
	OK   StatusReply = "OK"
	PONG StatusReply = "PONG"
)

var nullBulk = []byte("$-1\r\n")

// AppendReply appends the wire encoding of r to dst.
func AppendReply(dst []byte, r Reply) []byte {
	switch r := r.(type) {
	case StatusReply:
		dst = append(dst, '+')
		dst = append(dst, r...)
		return append(dst, '\r', '\n')
	case BulkReply:
		return appendBulk(dst, r)
	case NullReply:
		return append(dst, nullBulk...)
	default:
		return dst
	}
}

// WriteReply writes r to w. The caller decides when to flush.
func WriteReply(w *bufio.Writer, r Reply) error {
	var scratch [64]byte
	b := AppendReply(scratch[:0], r)
	_, err := w.Write(b)
	return err
}

// ReadReply reads one reply from r.
//
// A "-..." error line is returned as an ErrorReply error. Other shapes than
// status, bulk and null are rejected with ErrProtocol.
func ReadReply(r *bufio.Reader) (Reply, error) {
	marker, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch marker {
	case '+':
		line, err := readLine(r, maxReplyLineLen)
		if err != nil {
			return nil, err
		}
		return StatusReply(line), nil
	case '-':
		line, err := readLine(r, maxReplyLineLen)
		if err != nil {
			return nil, err
		}
		return nil, ErrorReply(line)
	case '$':
		line, err := readLine(r, maxHeaderLen)
		if err != nil {
			return nil, err
		}
		if string(line) == "-1" {
			return NullReply{}, nil
		}
		n, err := strconv.ParseUint(string(line), 10, strconv.IntSize-1)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid bulk length %q", ErrProtocol, line)
		}
		d := Decoder{r: r}
		// Reuse the request path for the body; the header is already consumed.
		v, err := d.readBulkBody(int(n))
		if err != nil {
			return nil, err
		}
		return BulkReply(v), nil
	default:
		return nil, fmt.Errorf("%w: unexpected reply type byte %q", ErrProtocol, marker)
	}
}

// maxReplyLineLen bounds status and error lines read by clients.
const maxReplyLineLen = 64 * 1024
