package resource

import "testing"

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	items := store.List()
	if len(items) != 4 {
		t.Fatalf("expected 4 resources, got %d", len(items))
	}
	items[0].Name = "changed"
	if store.List()[0].Name == "changed" {
		t.Fatal("List should not expose internal slice")
	}
}

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore(Seed())
	got, ok := store.FindByID("crisis-text-line")
	if !ok {
		t.Fatal("expected crisis text line to exist")
	}
	if got.Contact != "Text HOME to 741741" {
		t.Fatalf("unexpected contact %q", got.Contact)
	}
	if _, ok := store.FindByID("missing"); ok {
		t.Fatal("expected missing resource lookup to fail")
	}
}
