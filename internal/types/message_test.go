package types

import (
	"encoding/json"
	"testing"
)

func TestContent_UnmarshalParts(t *testing.T) {
	data := `{"role":"user","content":[{"type":"text","text":"look "},{"type":"image_url","image_url":{"url":"data:image/png;base64,AA=="}},{"type":"text","text":"here"}]}`

	var msg Message
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(msg.Content.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(msg.Content.Parts))
	}
	if got := msg.Content.String(); got != "look here" {
		t.Errorf("expected text parts concatenated, got %q", got)
	}
}

func TestContent_MarshalText(t *testing.T) {
	out, err := json.Marshal(NewTextMessage(RoleUser, "hi"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"role":"user","content":"hi"}` {
		t.Errorf("unexpected JSON: %s", out)
	}
}

func TestNewAttachmentMessage(t *testing.T) {
	msg := NewAttachmentMessage(RoleUser, "", "data:text/plain;base64,aGk=")
	if len(msg.Content.Parts) != 1 {
		t.Fatalf("expected only the image part without text, got %d parts", len(msg.Content.Parts))
	}
	if msg.Content.Parts[0].ImageURL == nil || msg.Content.Parts[0].ImageURL.URL != "data:text/plain;base64,aGk=" {
		t.Errorf("unexpected part: %+v", msg.Content.Parts[0])
	}
}

func TestContent_UnmarshalRejectsOtherTypes(t *testing.T) {
	for _, raw := range []string{`42`, `{"a":1}`, `true`} {
		var c Content
		if err := json.Unmarshal([]byte(raw), &c); err == nil {
			t.Errorf("%s: expected an error, got content %+v", raw, c)
		}
	}

	var c Content
	if err := json.Unmarshal([]byte(`null`), &c); err != nil || c.String() != "" {
		t.Errorf("null should decode to empty content, got %+v (err %v)", c, err)
	}
}
