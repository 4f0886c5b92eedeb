package detector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMockClient_Deterministic(t *testing.T) {
	client := NewClient("", "", 0, true)

	frame := []byte("same frame bytes")
	first, err := client.DetectFacial(context.Background(), frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.DetectFacial(context.Background(), frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Label != second.Label || first.Confidence != second.Confidence {
		t.Fatalf("mock detection not deterministic: %+v vs %+v", first, second)
	}
	if first.Confidence < 0 || first.Confidence > 1 {
		t.Fatalf("confidence %v outside [0,1]", first.Confidence)
	}
	if first.Label == "" {
		t.Fatal("empty label")
	}
}

func TestRealClient_Detect(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/detect" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if string(req.Data) != "frame-bytes" {
			t.Fatalf("unexpected payload %q", req.Data)
		}
		json.NewEncoder(w).Encode(detectResponse{Label: "happy", Confidence: 0.83})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.URL, time.Second, false)
	result, err := client.DetectFacial(context.Background(), []byte("frame-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Label != "happy" || result.Confidence != 0.83 {
		t.Fatalf("unexpected detection %+v", result)
	}
}

func TestRealClient_RejectsBadResponses(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"upstream error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"empty label", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(detectResponse{Label: "", Confidence: 0.5})
		}},
		{"confidence out of range", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(detectResponse{Label: "happy", Confidence: 1.4})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			client := NewClient(ts.URL, ts.URL, time.Second, false)
			if _, err := client.DetectVoice(context.Background(), []byte("audio")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
