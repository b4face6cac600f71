package typemodel

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{Edge: "edge", VM: "vm", FaaS: "faas"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestKindValid(t *testing.T) {
	if !Edge.Valid() || !VM.Valid() || !FaaS.Valid() {
		t.Error("declared kinds must be valid")
	}
	if KindCount.Valid() {
		t.Error("KindCount must not be a valid kind")
	}
	if Kind(-1).Valid() {
		t.Error("negative kind must not be valid")
	}
}

func TestHasReplicas(t *testing.T) {
	if !Edge.HasReplicas() || !VM.HasReplicas() {
		t.Error("Edge and VM must carry replica counts")
	}
	if FaaS.HasReplicas() {
		t.Error("FaaS must not carry a replica count")
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"edge", "Edge", "EDGE"} {
		if k, err := ParseKind(s); err != nil || k != Edge {
			t.Errorf("ParseKind(%q) = %v, %v, want Edge, nil", s, k, err)
		}
	}
	for _, s := range []string{"vm", "VM", "cloud", "Cloud"} {
		if k, err := ParseKind(s); err != nil || k != VM {
			t.Errorf("ParseKind(%q) = %v, %v, want VM, nil", s, k, err)
		}
	}
	for _, s := range []string{"faas", "FaaS", "FAAS"} {
		if k, err := ParseKind(s); err != nil || k != FaaS {
			t.Errorf("ParseKind(%q) = %v, %v, want FaaS, nil", s, k, err)
		}
	}
	if _, err := ParseKind("bogus"); err == nil {
		t.Error("ParseKind(\"bogus\") should error")
	}
}

func TestKinds(t *testing.T) {
	got := Kinds()
	want := []Kind{Edge, VM, FaaS}
	if len(got) != len(want) {
		t.Fatalf("Kinds() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Kinds()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
