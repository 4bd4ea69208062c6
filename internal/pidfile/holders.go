package pidfile

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	mperrors "github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/process"
)

// HolderSet is the set of PIDs currently registered in a multi-PID file.
// It is kept sorted ascending and never contains duplicates.
type HolderSet []int

// newHolderSet builds a HolderSet from arbitrary PIDs, sorting and
// dropping duplicates.
func newHolderSet(pids ...int) HolderSet {
	set := slices.Clone(pids)
	slices.Sort(set)
	return HolderSet(slices.Compact(set))
}

// Contains reports whether pid is a holder.
func (s HolderSet) Contains(pid int) bool {
	_, found := slices.BinarySearch(s, pid)
	return found
}

// Len returns the number of holders.
func (s HolderSet) Len() int {
	return len(s)
}

// Empty reports whether nobody holds the lock.
func (s HolderSet) Empty() bool {
	return len(s) == 0
}

// PIDs returns the holders as a plain slice, never nil.
func (s HolderSet) PIDs() []int {
	if s == nil {
		return []int{}
	}
	return slices.Clone([]int(s))
}

// with returns a copy of s with pid added.
func (s HolderSet) with(pid int) HolderSet {
	i, found := slices.BinarySearch(s, pid)
	if found {
		return slices.Clone(s)
	}
	return slices.Insert(slices.Clone(s), i, pid)
}

// without returns a copy of s with pid removed.
func (s HolderSet) without(pid int) HolderSet {
	i, found := slices.BinarySearch(s, pid)
	if !found {
		return slices.Clone(s)
	}
	return slices.Delete(slices.Clone(s), i, i+1)
}

// String renders the set as it is stored, one PID per line.
func (s HolderSet) String() string {
	return string(Format(s))
}

// Fields returns the PIDs separated by single spaces, for environment
// variables and log lines.
func (s HolderSet) Fields() string {
	parts := make([]string, len(s))
	for i, pid := range s {
		parts[i] = strconv.Itoa(pid)
	}
	return strings.Join(parts, " ")
}

// Parse decodes the on-disk representation: one positive decimal PID per
// line, within the OS pid range. Empty input is the empty set; a final line
// without a newline is accepted. Any other line is rejected with
// ErrCorruptState rather than skipped, so a damaged file never silently
// loses holders.
func Parse(data []byte) (HolderSet, error) {
	if len(data) == 0 {
		return HolderSet{}, nil
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	pids := make([]int, 0, len(lines))
	for i, line := range lines {
		pid, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || !process.Valid(pid) {
			return nil, fmt.Errorf("line %d %q: %w", i+1, line, mperrors.ErrCorruptState)
		}
		pids = append(pids, pid)
	}
	return newHolderSet(pids...), nil
}

// Format encodes s in ascending order, each PID newline-terminated.
// The empty set encodes as empty content.
func Format(s HolderSet) []byte {
	var buf bytes.Buffer
	for _, pid := range s {
		buf.WriteString(strconv.Itoa(pid))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
