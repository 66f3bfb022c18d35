package view

import (
	"testing"

	"github.com/mycelian/mycelian-identities/client"
)

func TestPartitionPrimary(t *testing.T) {
	ids := []client.Identity{{ID: "a"}, {ID: "b", IsPrimary: true}, {ID: "c"}}
	primary, others := PartitionPrimary(ids)
	if primary == nil || primary.ID != "b" {
		t.Fatalf("primary = %+v", primary)
	}
	if len(others) != 2 || others[0].ID != "a" || others[1].ID != "c" {
		t.Fatalf("others = %+v", others)
	}
}

func TestPartitionPrimary_NoneAndDuplicate(t *testing.T) {
	primary, others := PartitionPrimary([]client.Identity{{ID: "a"}})
	if primary != nil || len(others) != 1 {
		t.Fatalf("got %+v %+v", primary, others)
	}

	primary, others = PartitionPrimary([]client.Identity{{ID: "a", IsPrimary: true}, {ID: "b", IsPrimary: true}})
	if primary.ID != "a" || len(others) != 1 || others[0].ID != "b" {
		t.Fatalf("got %+v %+v", primary, others)
	}

	primary, others = PartitionPrimary(nil)
	if primary != nil || others == nil || len(others) != 0 {
		t.Fatalf("empty input: %+v %+v", primary, others)
	}
}

func TestCanSetPrimary(t *testing.T) {
	if CanSetPrimary(client.Identity{IsPrimary: true}) {
		t.Fatal("primary identity must not offer set-primary")
	}
	if !CanSetPrimary(client.Identity{}) {
		t.Fatal("non-primary identity must offer set-primary")
	}
}
