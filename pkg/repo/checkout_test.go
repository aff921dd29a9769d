package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Test 1: Checkout restores the working directory to the named commit.
func TestCheckout_RestoresFiles(t *testing.T) {
	r := initRepoWithFile(t, "a.txt", []byte("first version"))

	first, err := r.Commit("one")
	if err != nil {
		t.Fatalf("Commit one: %v", err)
	}

	writeWorkFile(t, r, "a.txt", "second version")
	writeWorkFile(t, r, "b.txt", "new file")
	if _, err := r.Commit("two"); err != nil {
		t.Fatalf("Commit two: %v", err)
	}

	if err := r.Checkout(string(first)); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if got := readWorkFile(t, r, "a.txt"); got != "first version" {
		t.Errorf("a.txt = %q, want %q", got, "first version")
	}
	if _, err := os.Stat(filepath.Join(r.RootDir, "b.txt")); !os.IsNotExist(err) {
		t.Errorf("b.txt should be removed after checkout, stat err = %v", err)
	}
}

// Test 2: checking out a tag leaves HEAD pointing directly at the commit.
func TestCheckout_HeadDetached(t *testing.T) {
	r := initRepoWithFile(t, "a.txt", []byte("hello"))

	oid, err := r.Commit("one")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := r.CreateTag("v1", ""); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := r.Checkout("v1"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	rv, err := r.ReadRef(headLocation, false)
	if err != nil {
		t.Fatalf("ReadRef HEAD: %v", err)
	}
	if rv.Symbolic {
		t.Error("HEAD should be a direct OID after checkout")
	}
	if rv.Value != string(oid) {
		t.Errorf("HEAD = %q, want %q", rv.Value, oid)
	}
}

// Test 3: a raw OID is a valid checkout target.
func TestCheckout_ByOID(t *testing.T) {
	r := initRepoWithFile(t, "a.txt", []byte("v1"))

	first, err := r.Commit("one")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	writeWorkFile(t, r, "a.txt", "v2")
	if _, err := r.Commit("two"); err != nil {
		t.Fatalf("Commit two: %v", err)
	}

	if err := r.Checkout(string(first)); err != nil {
		t.Fatalf("Checkout by OID: %v", err)
	}
	if got := readWorkFile(t, r, "a.txt"); got != "v1" {
		t.Errorf("a.txt = %q, want %q", got, "v1")
	}

	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head != first {
		t.Errorf("Head = %q, want %q", head, first)
	}
}

// Test 4: unknown revisions are rejected before the workdir is touched.
func TestCheckout_UnknownRevision_Error(t *testing.T) {
	r := initRepoWithFile(t, "a.txt", []byte("keep me"))

	if _, err := r.Commit("one"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	err := r.Checkout("no-such-rev")
	if err == nil {
		t.Fatal("Checkout of unknown revision should fail")
	}
	if !strings.Contains(err.Error(), "unknown revision") {
		t.Errorf("error = %v, want mention of unknown revision", err)
	}
	if got := readWorkFile(t, r, "a.txt"); got != "keep me" {
		t.Errorf("a.txt = %q, want untouched content", got)
	}
}

// Test 5: ResolveOrHead defaults the empty name to HEAD.
func TestResolveOrHead(t *testing.T) {
	r := initRepoWithFile(t, "a.txt", []byte("hello"))

	oid, err := r.Commit("one")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, ok, err := r.ResolveOrHead("")
	if err != nil {
		t.Fatalf("ResolveOrHead: %v", err)
	}
	if !ok {
		t.Fatal("ResolveOrHead(\"\") did not resolve")
	}
	if got != oid {
		t.Errorf("ResolveOrHead(\"\") = %q, want %q", got, oid)
	}

	_, ok, err = r.ResolveOrHead("bogus")
	if err != nil {
		t.Fatalf("ResolveOrHead bogus: %v", err)
	}
	if ok {
		t.Error("ResolveOrHead of unknown name should not resolve")
	}
}
