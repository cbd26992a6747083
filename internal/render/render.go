// Package render drives the decoder across a buffer and streams colored
// assembly, one line per instruction.
package render

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"x86color/internal/disasm"
	"x86color/internal/ui/colorize"
)

// bytesColumn is the width reserved for the raw bytes column.
const bytesColumn = 2 * 10

// Options configures a render run.
type Options struct {
	Mode disasm.Mode
	IP   uint64 // address of the first byte

	Theme     colorize.Theme   // defaults to colorize.Classic
	Formatter disasm.Formatter // defaults to an IntelFormatter

	ShowAddress bool
	ShowBytes   bool

	Logger *log.Logger
}

// Stats summarizes a render run.
type Stats struct {
	Instructions int // lines written
	Consumed     int // bytes decoded, including invalid ones
	Invalid      int // placeholder instructions
	Remainder    int // trailing bytes too short to decode
}

type state int

const (
	stateDecoding state = iota
	stateFormatting
	stateRendering
	stateDone
)

type flusher interface {
	Flush() error
}

type renderer struct {
	w      io.Writer
	opts   Options
	theme  colorize.Theme
	format disasm.Formatter
	sink   *Sink
	log    *log.Logger
}

// Colorize decodes code and writes one colored line per instruction to w.
// Lines are written as soon as each instruction is formatted.
func Colorize(w io.Writer, code []byte, opts Options) (Stats, error) {
	dec, err := disasm.NewDecoder(opts.Mode, code, opts.IP)
	if err != nil {
		return Stats{}, err
	}

	r := &renderer{
		w:      w,
		opts:   opts,
		theme:  opts.Theme,
		format: opts.Formatter,
		sink:   NewSink(),
		log:    opts.Logger,
	}
	if r.theme == nil {
		r.theme = colorize.Classic()
	}
	if r.format == nil {
		r.format = disasm.NewIntelFormatter()
	}
	if r.log == nil {
		r.log = log.Default()
	}
	return r.run(dec)
}

// Lines renders code into memory, one string per instruction.
func Lines(code []byte, opts Options) ([]string, Stats, error) {
	var buf bytes.Buffer
	st, err := Colorize(&buf, code, opts)
	if err != nil {
		return nil, st, err
	}
	if buf.Len() == 0 {
		return nil, st, nil
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), st, nil
}

func (r *renderer) run(dec *disasm.Decoder) (Stats, error) {
	var (
		st   Stats
		inst disasm.Inst
	)

	for s := stateDecoding; s != stateDone; {
		switch s {
		case stateDecoding:
			var ok bool
			inst, ok = dec.Decode()
			if !ok {
				s = stateDone
				continue
			}
			st.Instructions++
			st.Consumed += inst.Len
			if inst.Invalid {
				st.Invalid++
				r.log.Debug("invalid instruction", "ip", fmt.Sprintf("%#x", inst.IP), "byte", fmt.Sprintf("%#02x", inst.Bytes[0]))
			}
			s = stateFormatting

		case stateFormatting:
			r.sink.Clear()
			r.format.Format(&inst, r.sink)
			s = stateRendering

		case stateRendering:
			if err := r.renderLine(&inst); err != nil {
				return st, fmt.Errorf("write instruction at %#x: %w", inst.IP, err)
			}
			s = stateDecoding
		}
	}

	st.Remainder = dec.Remainder()
	r.log.Debug("render complete",
		"mode", r.opts.Mode,
		"instructions", st.Instructions,
		"consumed", st.Consumed,
		"invalid", st.Invalid,
		"dropped", st.Remainder)
	return st, nil
}

func (r *renderer) renderLine(inst *disasm.Inst) error {
	if r.opts.ShowAddress {
		if err := r.write(addressText(r.opts.Mode, inst.IP), disasm.KindLabelAddress); err != nil {
			return err
		}
		if err := r.write(" ", disasm.KindText); err != nil {
			return err
		}
	}
	if r.opts.ShowBytes {
		raw := hex.EncodeToString(inst.Bytes)
		if err := r.write(raw, disasm.KindOther); err != nil {
			return err
		}
		pad := max(bytesColumn-len(raw), 0) + 1
		if err := r.write(strings.Repeat(" ", pad), disasm.KindText); err != nil {
			return err
		}
	}

	for _, f := range r.sink.Drain() {
		if err := r.write(f.Text, f.Kind); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(r.w, "\n"); err != nil {
		return err
	}
	if f, ok := r.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (r *renderer) write(text string, kind disasm.TextKind) error {
	_, err := io.WriteString(r.w, r.theme.Paint(text, kind))
	return err
}

func addressText(mode disasm.Mode, ip uint64) string {
	switch mode {
	case disasm.Mode16:
		return fmt.Sprintf("%04x", ip&0xffff)
	case disasm.Mode32:
		return fmt.Sprintf("%08x", ip&0xffffffff)
	default:
		return fmt.Sprintf("%016x", ip)
	}
}
