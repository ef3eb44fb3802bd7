package output

import "github.com/yndnr/kvlite-go/internal/protocol/resp"

// Reply types reported in Result.Type.
const (
	TypeStatus = "status"
	TypeString = "string"
	TypeNil    = "nil"
)

// Result is the printable form of one reply.
type Result struct {
	Type string `json:"type" yaml:"type"`
	// Value is nil for TypeNil so an empty string stays distinguishable.
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

// FromReply converts a server reply to a Result.
func FromReply(r resp.Reply) Result {
	switch r := r.(type) {
	case resp.StatusReply:
		s := string(r)
		return Result{Type: TypeStatus, Value: &s}
	case resp.BulkReply:
		s := string(r)
		return Result{Type: TypeString, Value: &s}
	default:
		return Result{Type: TypeNil}
	}
}
