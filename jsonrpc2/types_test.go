package jsonrpc2

import (
	"testing"
)

func TestParseResponse(t *testing.T) {
	testcases := []struct {
		Line   string
		ID     string
		Result string
		Error  string
	}{
		{`{"id":0,"result":null,"error":null}`, "0", "", ""},
		{`{"id": 3, "result": {"a": 1}, "error": null}`, "3", `{"a": 1}`, ""},
		{`{"id":1,"result":null,"error":"Unknown RPC."}`, "1", "", `"Unknown RPC."`},
		{`{"result":1}`, "", "1", ""},
		{`not json at all`, "", "", ""},
		{`[1,2,3]`, "", "", ""},
		{``, "", "", ""},
	}

	for _, tc := range testcases {
		resp := ParseResponse([]byte(tc.Line))
		if got := resp.String(); got != tc.Line {
			t.Errorf("raw line changed: got %q; want %q", got, tc.Line)
		}
		if got := string(resp.ID); got != tc.ID {
			t.Errorf("%s: id got %q; want %q", tc.Line, got, tc.ID)
		}
		if got := string(resp.Result); got != tc.Result {
			t.Errorf("%s: result got %q; want %q", tc.Line, got, tc.Result)
		}
		if got := string(resp.Error); got != tc.Error {
			t.Errorf("%s: error got %q; want %q", tc.Line, got, tc.Error)
		}
	}
}

func TestResponseErr(t *testing.T) {
	testcases := []struct {
		Line    string
		Message string
		Code    int
	}{
		{`{"id":1,"result":null,"error":"java.lang.NullPointerException"}`, "java.lang.NullPointerException", 0},
		{`{"id":1,"error":{"code":-32601,"message":"method not found"}}`, "-32601: method not found", -32601},
		{`{"id":1,"error":42}`, "42", 0},
	}

	for _, tc := range testcases {
		err := ParseResponse([]byte(tc.Line)).Err()
		errResp, ok := err.(*ErrResponse)
		if !ok {
			t.Fatalf("%s: got %T; want *ErrResponse", tc.Line, err)
		}
		if got := errResp.Error(); got != tc.Message {
			t.Errorf("got: %q; want %q", got, tc.Message)
		}
		if got := errResp.ErrorCode(); got != tc.Code {
			t.Errorf("got: %d; want %d", got, tc.Code)
		}
	}

	if err := ParseResponse([]byte(`{"id":0,"result":true,"error":null}`)).Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResponseUnmarshalResult(t *testing.T) {
	var got []string
	resp := ParseResponse([]byte(`{"id":0,"result":["a","b"],"error":null}`))
	if err := resp.UnmarshalResult(&got); err != nil {
		t.Fatal(err)
	}
	assertEqualJSON(t, got, []string{"a", "b"}, "wrong result")

	// Null result leaves the target alone.
	got = []string{"unchanged"}
	resp = ParseResponse([]byte(`{"id":1,"result":null,"error":null}`))
	if err := resp.UnmarshalResult(&got); err != nil {
		t.Fatal(err)
	}
	assertEqualJSON(t, got, []string{"unchanged"}, "null result touched the target")
}
