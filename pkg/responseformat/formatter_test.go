package responseformat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Name  string   `json:"name"`
	Hours *float64 `json:"hours"`
}

func TestWriteResponse(t *testing.T) {
	h := 5.5
	data := payload{Name: "Fajr", Hours: &h}

	tests := []struct {
		name        string
		target      string
		accept      string
		contentType string
	}{
		{"Default is JSON", "/times", "", ContentTypeJSON},
		{"Query selects msgpack", "/times?format=msgpack", "", ContentTypeMsgPack},
		{"Accept selects msgpack", "/times", ContentTypeMsgPack, ContentTypeMsgPack},
		{"Unknown format falls back to JSON", "/times?format=xml", "", ContentTypeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()

			if err := NewFormatter().WriteResponse(rec, req, data); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Fatalf("Content-Type = %q, expected %q", got, tt.contentType)
			}

			var decoded payload
			var err error
			if tt.contentType == ContentTypeMsgPack {
				dec := msgpack.NewDecoder(rec.Body)
				dec.SetCustomStructTag("json")
				err = dec.Decode(&decoded)
			} else {
				err = json.NewDecoder(rec.Body).Decode(&decoded)
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if decoded.Name != "Fajr" || decoded.Hours == nil || *decoded.Hours != 5.5 {
				t.Errorf("decoded %+v", decoded)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/times", nil)
	rec := httptest.NewRecorder()

	if err := NewFormatter().WriteError(rec, req, http.StatusBadRequest, errors.New("bad latitude")); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}

	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "bad latitude" || body.Status != http.StatusBadRequest {
		t.Errorf("body = %+v", body)
	}
}
