package bot

import "testing"

func TestStrField(t *testing.T) {
	t.Parallel()

	obj := map[string]any{"team_id": "t1", "empty": "", "num": float64(3)}
	if got := strField(obj, "missing", "team_id"); got != "t1" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := strField(obj, "empty", "team_id"); got != "t1" {
		t.Fatalf("empty string should fall through: %q", got)
	}
	if got := strField(obj, "num"); got != "" {
		t.Fatalf("non-string should read empty: %q", got)
	}
}

func TestIntField(t *testing.T) {
	t.Parallel()

	obj := map[string]any{"coins": float64(42), "count": 7}
	if got := intField(obj, "coins"); got != 42 {
		t.Fatalf("unexpected value: %d", got)
	}
	if got := intField(obj, "count"); got != 7 {
		t.Fatalf("unexpected value: %d", got)
	}
	if got := intField(obj, "missing"); got != 0 {
		t.Fatalf("missing should read zero: %d", got)
	}
}

func TestListField(t *testing.T) {
	t.Parallel()

	obj := map[string]any{
		"items": []any{
			map[string]any{"id": "a"},
			"not an object",
			map[string]any{"id": "b"},
		},
	}
	items := listField(obj, "inventory", "items")
	if len(items) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(items))
	}
	if items[1]["id"] != "b" {
		t.Fatalf("unexpected entry: %+v", items[1])
	}
}

func TestStringsField(t *testing.T) {
	t.Parallel()

	obj := map[string]any{"members": []any{"zezima", 42, "durial"}}
	members := stringsField(obj, "members")
	if len(members) != 2 || members[1] != "durial" {
		t.Fatalf("unexpected members: %v", members)
	}
}
