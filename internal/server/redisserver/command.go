package redisserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yndnr/kvlite-go/internal/protocol/resp"
	"github.com/yndnr/kvlite-go/internal/telemetry/logger"
)

// ErrProtocolViolation reports a well-formed value with the wrong shape:
// a non-Array request, a non-bulk command or argument, or a missing argument.
var ErrProtocolViolation = errors.New("redisserver: protocol violation")

// Keyspace is the store capability the dispatcher needs.
type Keyspace interface {
	Get(key string) (string, bool)
	Set(key, value string)
	SetWithTTL(key, value string, ttlMillis uint64)
	Remove(key string) bool
}

// Metrics receives server events. *metric.Registry implements it.
type Metrics interface {
	ConnOpened()
	ConnClosed()
	ConnError(kind string)
	Command(name string)
}

type nopMetrics struct{}

func (nopMetrics) ConnOpened()      {}
func (nopMetrics) ConnClosed()      {}
func (nopMetrics) ConnError(string) {}
func (nopMetrics) Command(string)   {}

// commandUnknown labels commands outside the served set.
const commandUnknown = "unknown"

// Dispatcher executes decoded requests against a Keyspace.
type Dispatcher struct {
	ks      Keyspace
	metrics Metrics
}

// NewDispatcher creates a Dispatcher. A nil m disables metrics.
func NewDispatcher(ks Keyspace, m Metrics) *Dispatcher {
	if m == nil {
		m = nopMetrics{}
	}
	return &Dispatcher{ks: ks, metrics: m}
}

// Execute drains req from the front as a queue of commands, passing each
// reply to emit in order.
//
// An unknown command ends the request silently and Execute returns nil.
// A shape violation returns an error wrapping ErrProtocolViolation; replies
// already emitted for earlier commands stand. An emit error is returned as is.
func (d *Dispatcher) Execute(ctx context.Context, req resp.Array, emit func(resp.Reply) error) error {
	q := queue(req)
	for !q.empty() {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := q.pop("command name")
		if err != nil {
			return err
		}

		var reply resp.Reply
		name := normalizeCommandName(raw)
		switch name {
		case "PING":
			reply = resp.PONG
		case "ECHO":
			v, err := q.pop("ECHO value")
			if err != nil {
				return err
			}
			reply = resp.BulkReply(v)
		case "SET":
			if err := d.set(ctx, &q); err != nil {
				return err
			}
			reply = resp.OK
		case "GET":
			key, err := q.pop("GET key")
			if err != nil {
				return err
			}
			if v, ok := d.ks.Get(string(key)); ok {
				reply = resp.BulkReply(v)
			} else {
				reply = resp.NullReply{}
			}
		default:
			d.metrics.Command(commandUnknown)
			logger.L(ctx).Debug("unknown command, dropping rest of request",
				"command", name, "dropped", len(q))
			return nil
		}

		d.metrics.Command(name)
		if err := emit(reply); err != nil {
			return err
		}
	}
	return nil
}

// set handles SET key value [PX ms]. A third element other than PX stays
// queued and is read as the next command.
func (d *Dispatcher) set(ctx context.Context, q *queue) error {
	key, err := q.pop("SET key")
	if err != nil {
		return err
	}
	value, err := q.pop("SET value")
	if err != nil {
		return err
	}

	if opt, ok := q.peekBulk(); ok && strings.EqualFold(string(opt), "PX") {
		q.drop()
		raw, err := q.pop("PX milliseconds")
		if err != nil {
			return err
		}
		ms, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: PX milliseconds %q is not an unsigned integer", ErrProtocolViolation, raw)
		}
		if ms == 0 {
			// Expired on arrival: nothing a later GET could see.
			d.ks.Remove(string(key))
			logger.L(ctx).Debug("set expired on arrival", "key", string(key))
			return nil
		}
		d.ks.SetWithTTL(string(key), string(value), ms)
		logger.L(ctx).Debug("set", "key", string(key), "value", string(value), "px", ms)
		return nil
	}

	d.ks.Set(string(key), string(value))
	logger.L(ctx).Debug("set", "key", string(key), "value", string(value))
	return nil
}

// queue is the unconsumed tail of a request.
type queue []resp.Value

func (q queue) empty() bool { return len(q) == 0 }

// pop removes the front element, which must be a bulk string.
func (q *queue) pop(what string) (resp.BulkString, error) {
	if len(*q) == 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrProtocolViolation, what)
	}
	b, ok := (*q)[0].(resp.BulkString)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want bulk string", ErrProtocolViolation, what, (*q)[0])
	}
	*q = (*q)[1:]
	return b, nil
}

func (q queue) peekBulk() (resp.BulkString, bool) {
	if len(q) == 0 {
		return nil, false
	}
	b, ok := q[0].(resp.BulkString)
	return b, ok
}

func (q *queue) drop() { *q = (*q)[1:] }

// normalizeCommandName upper-cases ASCII, skipping the copy for names
// that are already upper case.
func normalizeCommandName(b []byte) string {
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}
