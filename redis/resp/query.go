package resp

import "strconv"

// Query is an ordered sequence of byte-strings: the command name and
// its arguments. It is opaque to the connection core beyond its RESP
// serialization.
type Query [][]byte

// NewQuery builds a Query from plain strings, the common case for
// callers that don't already hold []byte arguments.
func NewQuery(args ...string) Query {
	q := make(Query, len(args))
	for i, a := range args {
		q[i] = []byte(a)
	}
	return q
}

// EncodeQuery renders q as a RESP array of bulk strings, the wire
// format every Redis command request uses.
func EncodeQuery(q Query) []byte {
	buf := make([]byte, 0, 32)
	buf = append(buf, '*')
	buf = append(buf, strconv.Itoa(len(q))...)
	buf = append(buf, CRLF...)
	for _, arg := range q {
		buf = append(buf, '$')
		buf = append(buf, strconv.Itoa(len(arg))...)
		buf = append(buf, CRLF...)
		buf = append(buf, arg...)
		buf = append(buf, CRLF...)
	}
	return buf
}
