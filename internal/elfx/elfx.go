// Package elfx provides helpers for opening x86 ELF binaries and extracting
// section bytes together with their virtual addresses.
package elfx

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"os"

	"x86color/internal/disasm"
)

var (
	ErrSectionNotFound    = errors.New("section not found")
	ErrUnsupportedMachine = errors.New("unsupported ELF machine")
)

// Image is an opened x86 ELF file and its section headers.
type Image struct {
	Path     string
	File     *elf.File
	Sections []Section
}

// Section is one section header: virtual address, file offset, size and whether it is executable.
type Section struct {
	Name          string
	VA, Off, Size uint64
	Exec          bool
}

// IsELF reports whether data starts with the ELF magic.
func IsELF(data []byte) bool {
	return bytes.HasPrefix(data, []byte(elf.ELFMAG))
}

// Open parses the ELF file at path. Only x86 and x86-64 images are accepted.
func Open(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open elf: %w", err)
	}

	switch f.Machine {
	case elf.EM_X86_64, elf.EM_386:
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMachine, f.Machine)
	}

	im := &Image{Path: path, File: f}
	for _, s := range f.Sections {
		if s.Type == elf.SHT_NULL {
			continue
		}
		im.Sections = append(im.Sections, Section{
			Name: s.Name,
			VA:   s.Addr,
			Off:  s.Offset,
			Size: s.Size,
			Exec: s.Flags&elf.SHF_EXECINSTR != 0,
		})
	}
	return im, nil
}

// Close closes the underlying file.
func (im *Image) Close() error {
	if im.File == nil {
		return nil
	}
	err := im.File.Close()
	im.File = nil
	return err
}

// Bitness returns the decoding mode matching the image's machine.
func (im *Image) Bitness() disasm.Mode {
	if im.File.Machine == elf.EM_X86_64 {
		return disasm.Mode64
	}
	return disasm.Mode32
}

// Lookup returns the section header named name.
func (im *Image) Lookup(name string) (Section, bool) {
	for _, s := range im.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// ReadSection returns the bytes of the named section and the virtual address
// of its first byte.
func (im *Image) ReadSection(name string) ([]byte, uint64, error) {
	s := im.File.Section(name)
	if s == nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrSectionNotFound, name)
	}
	if s.Type == elf.SHT_NOBITS {
		return nil, 0, fmt.Errorf("section %s has no file data", name)
	}
	data, err := s.Data()
	if err != nil {
		return nil, 0, fmt.Errorf("read section %s: %w", name, err)
	}
	return data, s.Addr, nil
}

// ExecSections lists the sections holding executable code.
func (im *Image) ExecSections() []Section {
	var out []Section
	for _, s := range im.Sections {
		if s.Exec {
			out = append(out, s)
		}
	}
	return out
}

// ReadInput returns the bytes to disassemble from path. When section is
// empty the whole file is returned. Otherwise path must be an x86 ELF and
// the section bytes are returned along with the section address and the
// image's bitness.
func ReadInput(path, section string) (data []byte, va uint64, mode disasm.Mode, err error) {
	if section == "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, 0, 0, err
		}
		return data, 0, 0, nil
	}

	im, err := Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer im.Close()

	data, va, err = im.ReadSection(section)
	if err != nil {
		return nil, 0, 0, err
	}
	return data, va, im.Bitness(), nil
}
