package species

import "testing"

func TestRegistryConsistent(t *testing.T) {
	if len(OrderedIDs) != len(Registry) {
		t.Fatalf("ordered IDs (%d) and registry (%d) disagree", len(OrderedIDs), len(Registry))
	}
	for _, id := range OrderedIDs {
		sp, ok := Registry[id]
		if !ok {
			t.Fatalf("missing species %q", id)
		}
		if sp.ID != id {
			t.Errorf("species %q has ID %q", id, sp.ID)
		}
		if sp.Emoji == "" || sp.Personality == "" || sp.Verbs.Eat == "" {
			t.Errorf("species %q is missing flavor text", id)
		}
	}
}

func TestGetFallsBack(t *testing.T) {
	if got := Get("dog"); got.ID != "dog" {
		t.Fatalf("expected dog, got %s", got.ID)
	}
	if got := Get("kraken"); got.ID != DefaultID {
		t.Fatalf("expected fallback %s, got %s", DefaultID, got.ID)
	}
}
