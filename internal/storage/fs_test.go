package storage

import (
	"testing"
)

func tempWorkspace(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempWorkspace(t)
	content := []byte("claim: c-100\n")
	if err := s.Write("claim-100.yaml", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("claim-100.yaml")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempWorkspace(t)
	if err := s.Write("2026/08/claim.yaml", []byte("claim: deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("2026/08/claim.yaml")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "claim: deep" {
		t.Errorf("content = %q", got)
	}
}

func TestListSkipsNonIntakeAndQuarantine(t *testing.T) {
	s := tempWorkspace(t)
	_ = s.Write("a.yaml", []byte("claim: a"))
	_ = s.Write("b.yml", []byte("claim: b"))
	_ = s.Write("photo.png", []byte{0x89, 0x50})
	_ = s.Write(QuarantineDir+"/bad.yaml", []byte("???"))

	metas, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len(metas) = %d, want 2: %+v", len(metas), metas)
	}
	for _, m := range metas {
		if m.Checksum == "" {
			t.Errorf("missing checksum for %s", m.Path)
		}
	}
}

func TestDelete(t *testing.T) {
	s := tempWorkspace(t)
	_ = s.Write("del.yaml", []byte("claim: bye"))
	if err := s.Delete("del.yaml"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.yaml"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestQuarantine(t *testing.T) {
	s := tempWorkspace(t)
	_ = s.Write("sub/bad.yaml", []byte("not: [valid"))
	if err := s.Quarantine("sub/bad.yaml"); err != nil {
		t.Fatalf("Quarantine: %v", err)
	}
	if _, err := s.Read("sub/bad.yaml"); err == nil {
		t.Error("original path should be gone")
	}
	got, err := s.Read(QuarantineDir + "/sub__bad.yaml")
	if err != nil {
		t.Fatalf("Read quarantined: %v", err)
	}
	if string(got) != "not: [valid" {
		t.Errorf("content = %q", got)
	}
}

func TestSafePathRejectsTraversal(t *testing.T) {
	s := tempWorkspace(t)
	if _, err := s.Read("../escape.yaml"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if err := s.Write("/abs.yaml", []byte("x")); err == nil {
		t.Error("expected absolute path to be rejected")
	}
}
