package resp

import (
	"bytes"
	"reflect"
	"testing"
)

func TestParser_RESP_AllInOne(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Reply
		isErr bool
	}{
		{name: "SimpleString", input: "+OK\r\n", want: MakeSimpleStringReply("OK")},
		{name: "Error", input: "-ERR unknown command\r\n", want: MakeErrorReply("ERR unknown command")},
		{name: "Integer", input: ":42\r\n", want: MakeIntegerReply(42)},
		{name: "BulkString", input: "$6\r\nfoobar\r\n", want: MakeBulkReply([]byte("foobar"))},
		{name: "NullBulkString", input: "$-1\r\n", want: MakeNullBulkReply()},
		{name: "Array", input: "*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n", want: MakeArrayReply([]Reply{
			MakeBulkReply([]byte("foo")), MakeBulkReply([]byte("bar")),
		})},
		{name: "NullArray", input: "*-1\r\n", want: MakeNullArrayReply()},

		{name: "UnknownType", input: "?what\r\n", isErr: true},
		{name: "InvalidBulkLen", input: "$abc\r\n", isErr: true},
		{name: "InvalidArrayLen", input: "*xyz\r\n", isErr: true},
		{name: "MissingCRLF", input: "+OK\n", isErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser(bytes.NewBufferString(tc.input))
			got, err := p.Parse()

			if tc.isErr {
				if err == nil {
					t.Fatalf("expected error, got none (reply=%#v)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestParser_SequentialReplies(t *testing.T) {
	// Replies for SET then GET, back to back on the same stream —
	// the shape the Reader Loop actually consumes.
	p := NewParser(bytes.NewBufferString("+OK\r\n$1\r\n1\r\n"))

	first, err := p.Parse()
	if err != nil {
		t.Fatalf("first Parse: %v", err)
	}
	if !reflect.DeepEqual(first, MakeSimpleStringReply("OK")) {
		t.Fatalf("first reply = %#v", first)
	}

	second, err := p.Parse()
	if err != nil {
		t.Fatalf("second Parse: %v", err)
	}
	if !reflect.DeepEqual(second, MakeBulkReply([]byte("1"))) {
		t.Fatalf("second reply = %#v", second)
	}
}
