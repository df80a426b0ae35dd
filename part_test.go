// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnmarshalPart(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		want      Part
		wantError bool
	}{
		{
			name: "text part",
			data: `{"kind":"text","text":"hello"}`,
			want: &TextPart{Text: "hello"},
		},
		{
			name: "text part with metadata",
			data: `{"kind":"text","text":"hello","metadata":{"lang":"en"}}`,
			want: &TextPart{Text: "hello", Metadata: map[string]any{"lang": "en"}},
		},
		{
			name: "data part",
			data: `{"kind":"data","data":{"answer":42}}`,
			want: &DataPart{Data: map[string]any{"answer": float64(42)}},
		},
		{
			name: "file part with bytes",
			data: `{"kind":"file","file":{"name":"a.txt","mimeType":"text/plain","bytes":"aGVsbG8="}}`,
			want: &FilePart{File: &FileWithBytes{Name: "a.txt", MIMEType: "text/plain", Bytes: "aGVsbG8="}},
		},
		{
			name: "file part with uri",
			data: `{"kind":"file","file":{"uri":"https://example.com/a.txt"}}`,
			want: &FilePart{File: &FileWithURI{URI: "https://example.com/a.txt"}},
		},
		{
			name:      "file with both bytes and uri",
			data:      `{"kind":"file","file":{"bytes":"aGVsbG8=","uri":"https://example.com/a.txt"}}`,
			wantError: true,
		},
		{
			name:      "file with neither bytes nor uri",
			data:      `{"kind":"file","file":{"name":"a.txt"}}`,
			wantError: true,
		},
		{
			name:      "missing kind",
			data:      `{"text":"hello"}`,
			wantError: true,
		},
		{
			name:      "unknown kind",
			data:      `{"kind":"audio","text":"hello"}`,
			wantError: true,
		},
		{
			name:      "text kind with file payload",
			data:      `{"kind":"text","file":{"uri":"https://example.com"}}`,
			wantError: true,
		},
		{
			name:      "data kind with text payload",
			data:      `{"kind":"data","text":"hello"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalPart([]byte(tt.data))
			if tt.wantError {
				if err == nil {
					t.Fatalf("UnmarshalPart(%s) succeeded, want error", tt.data)
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("error is %T, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalPart(%s) failed: %v", tt.data, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("part mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalPart_RoundTrip(t *testing.T) {
	parts := []Part{
		NewTextPart("hello"),
		NewDataPart(map[string]any{"k": "v"}),
		NewFilePartWithBytes("a.bin", "application/octet-stream", "AAAA"),
		NewFilePartWithURI("a.bin", "application/octet-stream", "https://example.com/a.bin"),
	}

	for _, part := range parts {
		data, err := MarshalPart(part)
		if err != nil {
			t.Fatalf("MarshalPart(%T) failed: %v", part, err)
		}
		got, err := UnmarshalPart(data)
		if err != nil {
			t.Fatalf("UnmarshalPart(%s) failed: %v", data, err)
		}
		if diff := cmp.Diff(part, got); diff != "" {
			t.Errorf("round trip mismatch for %T (-want +got):\n%s", part, diff)
		}
	}
}

func TestPart_Validate(t *testing.T) {
	tests := []struct {
		name      string
		part      Part
		wantError bool
	}{
		{"valid text", NewTextPart("hi"), false},
		{"empty text", &TextPart{}, true},
		{"valid data", NewDataPart(map[string]any{}), false},
		{"nil data", &DataPart{}, true},
		{"valid file bytes", NewFilePartWithBytes("", "", "AAAA"), false},
		{"empty file bytes", &FilePart{File: &FileWithBytes{}}, true},
		{"valid file uri", NewFilePartWithURI("", "", "https://x"), false},
		{"empty file uri", &FilePart{File: &FileWithURI{}}, true},
		{"nil file content", &FilePart{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.part.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestPartList_UnmarshalJSON(t *testing.T) {
	data := `[{"kind":"text","text":"a"},{"kind":"data","data":{"n":1}}]`

	var pl PartList
	if err := pl.UnmarshalJSON([]byte(data)); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if len(pl) != 2 {
		t.Fatalf("len = %d, want 2", len(pl))
	}
	if _, ok := pl[0].(*TextPart); !ok {
		t.Errorf("parts[0] is %T, want *TextPart", pl[0])
	}
	if _, ok := pl[1].(*DataPart); !ok {
		t.Errorf("parts[1] is %T, want *DataPart", pl[1])
	}

	bad := `[{"kind":"text","text":"a"},{"kind":"file","file":{"name":"x"}}]`
	if err := pl.UnmarshalJSON([]byte(bad)); err == nil {
		t.Error("UnmarshalJSON accepted file part without content")
	}
}
