package types

import (
	"encoding/json"
	"testing"
)

func TestIdentityUpdate_OnlySetFieldsSerialised(t *testing.T) {
	t.Parallel()
	name := "Shadow"
	b, err := json.Marshal(IdentityUpdate{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 || m["name"] != "Shadow" {
		t.Fatalf("partial update leaked fields: %s", b)
	}
}

func TestIdentityUpdate_ExplicitEmptyStringIsSent(t *testing.T) {
	t.Parallel()
	empty := ""
	b, _ := json.Marshal(IdentityUpdate{Appearance: &empty})
	if string(b) != `{"appearance":""}` {
		t.Fatalf("explicit clear must be serialised, got %s", b)
	}
	if (IdentityUpdate{}).IsEmpty() != true || (IdentityUpdate{Appearance: &empty}).IsEmpty() {
		t.Fatal("IsEmpty wrong")
	}
}

func TestCareerUpdate_HasNoCareerID(t *testing.T) {
	t.Parallel()
	stage := 3
	b, _ := json.Marshal(IdentityCareerUpdate{CurrentStage: &stage})
	if string(b) != `{"current_stage":3}` {
		t.Fatalf("unexpected payload %s", b)
	}
}

func TestKnowledgeCreate_IsSecretOmittedWhenUnset(t *testing.T) {
	t.Parallel()
	b, _ := json.Marshal(IdentityKnowledgeCreate{KnowerCharacterID: "c2", KnowledgeLevel: KnowledgePartial, SinceWhen: "year 1"})
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if _, ok := m["is_secret"]; ok {
		t.Fatalf("is_secret should be omitted: %s", b)
	}
}
