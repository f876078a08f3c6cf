package imagestore

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name          string
		ref           string
		wantMediaType string
		wantData      []byte
		wantErr       bool
	}{
		{
			name:          "base64 png",
			ref:           "data:image/png;base64,aGVsbG8=",
			wantMediaType: "image/png",
			wantData:      []byte("hello"),
		},
		{
			name:          "plain payload",
			ref:           "data:text/plain,hola",
			wantMediaType: "text/plain",
			wantData:      []byte("hola"),
		},
		{
			name:          "empty media type defaults",
			ref:           "data:,hola",
			wantMediaType: "text/plain",
			wantData:      []byte("hola"),
		},
		{
			name:    "not a data url",
			ref:     "https://example.com/a.jpg",
			wantErr: true,
		},
		{
			name:    "missing separator",
			ref:     "data:image/png;base64",
			wantErr: true,
		},
		{
			name:    "bad base64",
			ref:     "data:image/png;base64,!!!",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mediaType, data, err := DecodeDataURL(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL() error = %v", err)
			}
			if mediaType != tt.wantMediaType {
				t.Errorf("media type = %q, want %q", mediaType, tt.wantMediaType)
			}
			if !bytes.Equal(data, tt.wantData) {
				t.Errorf("data = %q, want %q", data, tt.wantData)
			}
		})
	}
}

func TestDecodeDataURL_NotDataURLSentinel(t *testing.T) {
	_, _, err := DecodeDataURL("ftp://example.com/a.jpg")
	if !errors.Is(err, ErrNotDataURL) {
		t.Errorf("error = %v, want ErrNotDataURL", err)
	}
}
