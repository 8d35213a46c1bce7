package roles

import "testing"

func TestRankOrdering(t *testing.T) {
	ordered := []string{Public, Viewer, Editor, Admin, SuperAdmin}
	for i := 1; i < len(ordered); i++ {
		if Rank(ordered[i-1]) >= Rank(ordered[i]) {
			t.Fatalf("expected %s < %s", ordered[i-1], ordered[i])
		}
	}
}

func TestHasMinimumRole(t *testing.T) {
	ordered := []string{Public, Viewer, Editor, Admin, SuperAdmin}
	for i, lower := range ordered {
		for j, higher := range ordered {
			got := HasMinimumRole(higher, lower)
			want := j >= i
			if got != want {
				t.Fatalf("HasMinimumRole(%s, %s) = %v, want %v", higher, lower, got, want)
			}
		}
	}
}

func TestHasMinimumRoleMissingActor(t *testing.T) {
	if !HasMinimumRole("", Public) {
		t.Fatal("missing role should still satisfy public")
	}
	if HasMinimumRole("", Viewer) {
		t.Fatal("missing role should not satisfy viewer")
	}
	if HasMinimumRole("intruder", Viewer) {
		t.Fatal("unknown role should rank as public")
	}
}

func TestCanAssignRole(t *testing.T) {
	cases := []struct {
		actor  string
		target string
		want   bool
	}{
		{SuperAdmin, SuperAdmin, true},
		{SuperAdmin, Viewer, true},
		{Admin, SuperAdmin, false},
		{Admin, Admin, true},
		{Admin, Editor, true},
		{Editor, Viewer, false},
		{Viewer, Viewer, false},
		{Admin, "not-a-role", false},
		{"", Viewer, false},
	}
	for _, tc := range cases {
		if got := CanAssignRole(tc.actor, tc.target); got != tc.want {
			t.Fatalf("CanAssignRole(%s, %s) = %v, want %v", tc.actor, tc.target, got, tc.want)
		}
	}
}

func TestCanModifyUser(t *testing.T) {
	cases := []struct {
		actor   string
		subject string
		want    bool
	}{
		{SuperAdmin, SuperAdmin, true},
		{SuperAdmin, Viewer, true},
		{Admin, SuperAdmin, false},
		{Admin, Admin, true},
		{Admin, Viewer, true},
		{Admin, "", true},
	}
	for _, tc := range cases {
		if got := CanModifyUser(tc.actor, tc.subject); got != tc.want {
			t.Fatalf("CanModifyUser(%s, %s) = %v, want %v", tc.actor, tc.subject, got, tc.want)
		}
	}
}
