package trace

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
)

// A Reader parses trace records out of a text stream, one line per record.
// Each line has the form `<kind> <hex-address>,<decimal-size>`, where the
// kind is one of I, L, S, and M. Lines that cannot be parsed are skipped
// and counted, so that a partial record can never reach the simulator.
type Reader struct {
	scanner *bufio.Scanner
	logger  *log.Logger

	lineNum int
	skipped int
}

// NewReader creates a Reader that parses records from r. Skipped lines are
// reported through the given logger.
func NewReader(r io.Reader, logger *log.Logger) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
		logger:  logger,
	}
}

// Next returns the next well-formed record. It returns io.EOF once the
// trace is exhausted.
func (r *Reader) Next() (Access, error) {
	for r.scanner.Scan() {
		r.lineNum++

		line := r.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		access, err := parseLine(line)
		if err != nil {
			r.skipped++
			r.logger.Printf("skipping trace line %d: %v", r.lineNum, err)

			continue
		}

		return access, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Access{}, err
	}

	return Access{}, io.EOF
}

// Skipped returns the number of malformed lines skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

func parseLine(line string) (Access, error) {
	trimmed := strings.TrimSpace(line)

	kind, err := parseKind(trimmed[0])
	if err != nil {
		return Access{}, err
	}

	addrField, sizeField, found := strings.Cut(
		strings.TrimSpace(trimmed[1:]), ",")
	if !found {
		return Access{}, fmt.Errorf("no size field in %q", line)
	}

	addr, err := strconv.ParseUint(
		strings.TrimPrefix(addrField, "0x"), 16, 64)
	if err != nil {
		return Access{}, fmt.Errorf("bad address in %q: %w", line, err)
	}

	size, err := strconv.Atoi(strings.TrimSpace(sizeField))
	if err != nil {
		return Access{}, fmt.Errorf("bad size in %q: %w", line, err)
	}

	return Access{Kind: kind, Address: addr, Size: size}, nil
}

func parseKind(c byte) (Kind, error) {
	switch c {
	case 'I':
		return Instruction, nil
	case 'L':
		return Load, nil
	case 'S':
		return Store, nil
	case 'M':
		return Modify, nil
	}

	return 0, fmt.Errorf("unknown record kind %q", string(c))
}
