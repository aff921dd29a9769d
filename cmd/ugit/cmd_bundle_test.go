package main

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/odvcencio/ugit/pkg/repo"
)

func TestBundleCmd_CreateVerifyUnbundle(t *testing.T) {
	srcDir := t.TempDir()
	src, err := repo.Init(srcDir)
	if err != nil {
		t.Fatalf("repo.Init src: %v", err)
	}
	writeCmdTestFile(t, srcDir, "a.txt", "v1")
	if _, err := src.Commit("one"); err != nil {
		t.Fatalf("Commit one: %v", err)
	}
	writeCmdTestFile(t, srcDir, "a.txt", "v2")
	head, err := src.Commit("two")
	if err != nil {
		t.Fatalf("Commit two: %v", err)
	}
	if err := src.CreateTag("v2", ""); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	bundlePath := filepath.Join(t.TempDir(), "hist.bundle")

	restore := chdirForTest(t, srcDir)
	createCmd := newBundleCreateCmd()
	createCmd.SetArgs([]string{"-o", bundlePath})
	var createOut bytes.Buffer
	createCmd.SetOut(&createOut)
	createCmd.SetErr(&createOut)
	if err := createCmd.Execute(); err != nil {
		t.Fatalf("bundle create Execute: %v\noutput:\n%s", err, createOut.String())
	}
	restore()

	if !strings.Contains(createOut.String(), "2 ref(s)") {
		t.Errorf("create output = %q, want 2 ref(s)", createOut.String())
	}

	verifyCmd := newBundleVerifyCmd()
	verifyCmd.SetArgs([]string{bundlePath})
	var verifyOut bytes.Buffer
	verifyCmd.SetOut(&verifyOut)
	verifyCmd.SetErr(&verifyOut)
	if err := verifyCmd.Execute(); err != nil {
		t.Fatalf("bundle verify Execute: %v\noutput:\n%s", err, verifyOut.String())
	}
	if !strings.Contains(verifyOut.String(), "ok:") || !strings.Contains(verifyOut.String(), "unsigned") {
		t.Errorf("verify output = %q, want ok and unsigned", verifyOut.String())
	}

	dstDir := t.TempDir()
	dst, err := repo.Init(dstDir)
	if err != nil {
		t.Fatalf("repo.Init dst: %v", err)
	}

	restore = chdirForTest(t, dstDir)
	defer restore()

	unbundleCmd := newBundleUnbundleCmd()
	unbundleCmd.SetArgs([]string{bundlePath})
	var unbundleOut bytes.Buffer
	unbundleCmd.SetOut(&unbundleOut)
	unbundleCmd.SetErr(&unbundleOut)
	if err := unbundleCmd.Execute(); err != nil {
		t.Fatalf("bundle unbundle Execute: %v\noutput:\n%s", err, unbundleOut.String())
	}
	if !strings.Contains(unbundleOut.String(), "2 ref(s) created") {
		t.Errorf("unbundle output = %q, want 2 ref(s) created", unbundleOut.String())
	}

	dstHead, err := dst.Head()
	if err != nil {
		t.Fatalf("dst Head: %v", err)
	}
	if dstHead != head {
		t.Errorf("dst Head = %q, want %q", dstHead, head)
	}
	entries, err := dst.Log(dstHead, 0)
	if err != nil {
		t.Fatalf("dst Log: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("dst Log length = %d, want 2", len(entries))
	}
}

func TestBundleCmd_SignAndVerify(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("repo.Init: %v", err)
	}
	writeCmdTestFile(t, dir, "a.txt", "hello")
	if _, err := r.Commit("initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	keyPath := writeTestSSHKey(t)
	bundlePath := filepath.Join(t.TempDir(), "signed.bundle")

	restore := chdirForTest(t, dir)
	defer restore()

	createCmd := newBundleCreateCmd()
	createCmd.SetArgs([]string{"-o", bundlePath, "--sign", "-k", keyPath})
	var createOut bytes.Buffer
	createCmd.SetOut(&createOut)
	createCmd.SetErr(&createOut)
	if err := createCmd.Execute(); err != nil {
		t.Fatalf("bundle create --sign Execute: %v\noutput:\n%s", err, createOut.String())
	}
	if !strings.Contains(createOut.String(), "signed with") {
		t.Errorf("create output = %q, want signed with", createOut.String())
	}
	if _, err := os.Stat(bundlePath + ".sig"); err != nil {
		t.Fatalf("signature sidecar missing: %v", err)
	}

	verifyCmd := newBundleVerifyCmd()
	verifyCmd.SetArgs([]string{bundlePath})
	var verifyOut bytes.Buffer
	verifyCmd.SetOut(&verifyOut)
	verifyCmd.SetErr(&verifyOut)
	if err := verifyCmd.Execute(); err != nil {
		t.Fatalf("bundle verify Execute: %v\noutput:\n%s", err, verifyOut.String())
	}
	if !strings.Contains(verifyOut.String(), "signature ok (ssh-ed25519)") {
		t.Errorf("verify output = %q, want signature ok (ssh-ed25519)", verifyOut.String())
	}
}

func TestBundleCmd_VerifyRejectsSwappedBundle(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("repo.Init: %v", err)
	}
	writeCmdTestFile(t, dir, "a.txt", "hello")
	if _, err := r.Commit("initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	keyPath := writeTestSSHKey(t)
	bundlePath := filepath.Join(t.TempDir(), "signed.bundle")

	restore := chdirForTest(t, dir)
	defer restore()

	createCmd := newBundleCreateCmd()
	createCmd.SetArgs([]string{"-o", bundlePath, "--sign", "-k", keyPath})
	var createOut bytes.Buffer
	createCmd.SetOut(&createOut)
	createCmd.SetErr(&createOut)
	if err := createCmd.Execute(); err != nil {
		t.Fatalf("bundle create --sign Execute: %v\noutput:\n%s", err, createOut.String())
	}

	// Grow the history and rewrite the bundle, leaving the old signature.
	writeCmdTestFile(t, dir, "a.txt", "changed")
	if _, err := r.Commit("second"); err != nil {
		t.Fatalf("Commit second: %v", err)
	}
	rewriteCmd := newBundleCreateCmd()
	rewriteCmd.SetArgs([]string{"-o", bundlePath})
	var rewriteOut bytes.Buffer
	rewriteCmd.SetOut(&rewriteOut)
	rewriteCmd.SetErr(&rewriteOut)
	if err := rewriteCmd.Execute(); err != nil {
		t.Fatalf("bundle re-create Execute: %v\noutput:\n%s", err, rewriteOut.String())
	}

	verifyCmd := newBundleVerifyCmd()
	verifyCmd.SetArgs([]string{bundlePath})
	var verifyOut bytes.Buffer
	verifyCmd.SetOut(&verifyOut)
	verifyCmd.SetErr(&verifyOut)

	err = verifyCmd.Execute()
	if err == nil {
		t.Fatalf("verify of swapped bundle should fail\noutput:\n%s", verifyOut.String())
	}
	if !strings.Contains(err.Error(), "signature does not match") {
		t.Errorf("error = %v, want signature mismatch", err)
	}
}

func writeTestSSHKey(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatalf("MarshalPrivateKey: %v", err)
	}

	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return keyPath
}
