// Package resp implements the subset of the Redis serialization protocol
// spoken by kvlite.
//
// Requests are decoded into a Value tree made of two shapes:
//
//   - BulkString: "$<len>\r\n<bytes>\r\n"
//   - Array:      "*<count>\r\n" followed by count values
//
// Replies are one of three shapes:
//
//   - StatusReply: "+<text>\r\n"
//   - BulkReply:   "$<len>\r\n<bytes>\r\n"
//   - NullReply:   "$-1\r\n"
//
// Decode distinguishes a clean end of stream at a request boundary (io.EOF)
// from malformed or truncated input (ErrProtocol). Encoding is a pure function
// of the reply.
package resp
