// Copyright 2026 The C64 Bridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memoryops

import "testing"

func TestCleanHexIdempotent(t *testing.T) {
	cases := []string{"$AA_55", "0xaa55", "  AA 55 ", "aa55"}
	for _, c := range cases {
		once := CleanHex(c)
		twice := CleanHex(once)
		if once != twice {
			t.Errorf("CleanHex(%q) not idempotent: %q != %q", c, once, twice)
		}
	}
}

func TestBytesToHexRoundTrip(t *testing.T) {
	cases := []string{"$AA55", "0xAA55", "aa_55"}
	for _, c := range cases {
		data, err := HexToBytes(c)
		if err != nil {
			t.Fatalf("HexToBytes(%q): %v", c, err)
		}
		got := BytesToHex(data)
		want := "$" + CleanHex(c)
		if got != want {
			t.Errorf("BytesToHex(HexToBytes(%q)) = %q, want %q", c, got, want)
		}
	}
}

func TestHexToBytesOddNibbles(t *testing.T) {
	if _, err := HexToBytes("$ABC"); err == nil {
		t.Fatal("expected error for odd nibble count")
	}
}

func TestParseAddressFormats(t *testing.T) {
	cases := map[string]uint32{
		"$0400":   0x0400,
		"0x0400":  0x0400,
		"%100000000000": 0x0800,
		"1024":    1024,
	}
	for input, want := range cases {
		got, err := ParseAddress(input)
		if err != nil {
			t.Fatalf("ParseAddress(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("ParseAddress(%q) = %#x, want %#x", input, got, want)
		}
	}
}

func TestParseAddressInvalid(t *testing.T) {
	if _, err := ParseAddress("not-an-address"); err == nil {
		t.Fatal("expected error for invalid address")
	}
}
