package elfx

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"x86color/internal/disasm"
)

// selfImage opens the running test binary, which is an x86 ELF on the
// platforms this test cares about.
func selfImage(t *testing.T) (string, *Image) {
	t.Helper()
	if runtime.GOOS != "linux" || (runtime.GOARCH != "amd64" && runtime.GOARCH != "386") {
		t.Skipf("test binary is not an x86 ELF on %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	path, err := os.Executable()
	if err != nil {
		t.Skipf("cannot locate test binary: %v", err)
	}
	im, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	t.Cleanup(func() { im.Close() })
	return path, im
}

func TestIsELF(t *testing.T) {
	tests := []struct {
		data []byte
		want bool
	}{
		{[]byte("\x7fELF\x02\x01\x01"), true},
		{[]byte("\x7fELF"), true},
		{[]byte("\x7fEL"), false},
		{[]byte{0x55, 0x48, 0x89, 0xe5}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsELF(tt.data); got != tt.want {
			t.Errorf("IsELF(% x) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestOpenSelf(t *testing.T) {
	_, im := selfImage(t)

	want := disasm.Mode64
	if runtime.GOARCH == "386" {
		want = disasm.Mode32
	}
	if got := im.Bitness(); got != want {
		t.Errorf("Bitness() = %v, want %v", got, want)
	}

	text, ok := im.Lookup(".text")
	if !ok {
		t.Fatal("no .text section")
	}
	if !text.Exec || text.Size == 0 {
		t.Errorf(".text = %+v, want a non-empty executable section", text)
	}

	found := false
	for _, s := range im.ExecSections() {
		if !s.Exec {
			t.Errorf("ExecSections returned %s, which is not executable", s.Name)
		}
		if s.Name == ".text" {
			found = true
		}
	}
	if !found {
		t.Error("ExecSections does not include .text")
	}

	data, va, err := im.ReadSection(".text")
	if err != nil {
		t.Fatal(err)
	}
	if uint64(len(data)) != text.Size || va != text.VA {
		t.Errorf("ReadSection(.text) = %d bytes at %#x, want %d at %#x", len(data), va, text.Size, text.VA)
	}

	if _, _, err := im.ReadSection(".no-such-section"); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("missing section error = %v, want ErrSectionNotFound", err)
	}
}

func TestReadInputSection(t *testing.T) {
	path, _ := selfImage(t)

	data, va, mode, err := ReadInput(path, ".text")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || va == 0 {
		t.Errorf("ReadInput(.text) = %d bytes at %#x", len(data), va)
	}
	if err := mode.Validate(); err != nil {
		t.Errorf("mode %v: %v", mode, err)
	}
}

func TestReadInputRaw(t *testing.T) {
	code := []byte{0x55, 0x48, 0x89, 0xe5, 0xc3}
	path := filepath.Join(t.TempDir(), "code.bin")
	if err := os.WriteFile(path, code, 0o644); err != nil {
		t.Fatal(err)
	}

	data, va, mode, err := ReadInput(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(code) || va != 0 || mode != 0 {
		t.Errorf("ReadInput = % x, %#x, %v", data, va, mode)
	}

	if _, _, _, err := ReadInput(path, ".text"); err == nil {
		t.Error("section lookup in a raw file succeeded")
	}
	if _, _, _, err := ReadInput(filepath.Join(t.TempDir(), "missing"), ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
