package registry

import (
	"encoding/json"
	"testing"

	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

func TestDecoderRegistry(t *testing.T) {
	reg := NewDecoderRegistry()
	reg.Register(enums.EventScholarshipPublished, 1, func(payload json.RawMessage) (interface{}, error) {
		var decoded map[string]string
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, err
		}
		return decoded, nil
	})

	input := json.RawMessage(`{"title":"STEM Leaders Grant"}`)
	output, err := reg.Decode(enums.EventScholarshipPublished, 1, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outMap, ok := output.(map[string]string); !ok || outMap["title"] != "STEM Leaders Grant" {
		t.Fatalf("unexpected output %+v", output)
	}
}

func TestDecoderRegistryUnknownVersion(t *testing.T) {
	reg := NewDecoderRegistry()
	if _, err := reg.Decode(enums.EventScholarshipPublished, 2, json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unregistered decoder")
	}
}
