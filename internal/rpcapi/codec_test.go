package rpcapi

import "testing"

func TestJSONCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	in := &NodeMsg{ID: []byte{0x01, 0x02}, Address: "127.0.0.1:5000"}

	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out NodeMsg
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Address != in.Address || string(out.ID) != string(in.ID) {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestJSONCodecUnmarshalEmptyIsNoop(t *testing.T) {
	c := jsonCodec{}
	var out NodeMsg
	if err := c.Unmarshal(nil, &out); err != nil {
		t.Fatalf("Unmarshal(nil) should be a no-op, got: %v", err)
	}
}

func TestJSONCodecName(t *testing.T) {
	if (jsonCodec{}).Name() != "proto" {
		t.Errorf("Name() = %q, want %q", (jsonCodec{}).Name(), "proto")
	}
}
