package jsonrpc2

import (
	"encoding/json"
	"reflect"
	"testing"
	"unicode/utf8"
)

func TestEncodeRequest(t *testing.T) {
	testcases := []struct {
		Req  Request
		Want string
	}{
		{
			Request{ID: 0, Method: "makeToast", Params: []interface{}{"w00t!"}},
			`{"id": 0, "method": "makeToast", "params": ["w00t!"]}`,
		},
		{
			Request{ID: 7, Method: "vibrate", Params: []interface{}{300, true}},
			`{"id": 7, "method": "vibrate", "params": [300, true]}`,
		},
		{
			// Separators inside strings are left alone.
			Request{ID: 1, Method: "a,b:c", Params: []interface{}{`x, "y": z`}},
			`{"id": 1, "method": "a,b:c", "params": ["x, \"y\": z"]}`,
		},
		{
			Request{ID: 2, Method: "m", Params: []interface{}{"<b>&</b>"}},
			`{"id": 2, "method": "m", "params": ["<b>&</b>"]}`,
		},
		{
			Request{ID: 3, Method: "m", Params: []interface{}{map[string]interface{}{"k": []int{1, 2}}}},
			`{"id": 3, "method": "m", "params": [{"k": [1, 2]}]}`,
		},
		{
			Request{ID: 4, Method: "m", Params: []interface{}{`back\slash`, "tail\\"}},
			`{"id": 4, "method": "m", "params": ["back\\slash", "tail\\"]}`,
		},
	}

	for i, tc := range testcases {
		got, err := tc.Req.Encode()
		if err != nil {
			t.Fatalf("[%d] %s", i, err)
		}
		if string(got) != tc.Want {
			t.Errorf("[%d] got: %s\n want: %s", i, got, tc.Want)
		}
	}
}

func TestEncodeASCII(t *testing.T) {
	req := Request{ID: 0, Method: "makeToast", Params: []interface{}{"héllo ☃ 😀"}}
	got, err := req.Encode()
	if err != nil {
		t.Fatal(err)
	}

	want := `{"id": 0, "method": "makeToast", "params": ["h\u00e9llo \u2603 \ud83d\ude00"]}`
	if string(got) != want {
		t.Errorf("got: %s\n want: %s", got, want)
	}
	for i, b := range got {
		if b >= utf8.RuneSelf {
			t.Fatalf("non-ASCII byte 0x%x at offset %d", b, i)
		}
	}

	// The escapes decode back to the original text.
	var decoded Request
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Params[0] != "héllo ☃ 😀" {
		t.Errorf("got: %q; want %q", decoded.Params[0], "héllo ☃ 😀")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	req := Request{
		ID:     42,
		Method: "méthode",
		Params: []interface{}{"b", 1.5, nil, false, "a", []interface{}{"x"}},
	}
	line, err := req.Encode()
	if err != nil {
		t.Fatal(err)
	}

	var got Request
	if err := json.Unmarshal(line, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, req) {
		t.Errorf("got: %#v; want %#v", got, req)
	}
}

func TestEncodeError(t *testing.T) {
	req := Request{ID: 0, Method: "bad", Params: []interface{}{make(chan int)}}
	_, err := req.Encode()
	encErr, ok := err.(*EncodingError)
	if !ok {
		t.Fatalf("got: %T %v; want *EncodingError", err, err)
	}
	if encErr.Method != "bad" {
		t.Errorf("got: %q; want %q", encErr.Method, "bad")
	}
}
