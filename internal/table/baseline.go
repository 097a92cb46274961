package table

import (
	"fmt"
	"os"
)

// LoadBaseline reads and parses the reference table at path.
//
// The baseline is loaded once at startup and owned immutably by the process
// for its entire run. A missing or malformed baseline is a fatal
// configuration error for the caller.
func LoadBaseline(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read baseline: %w", err)
	}
	t, err := Parse(string(b))
	if err != nil {
		return Table{}, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	return t, nil
}
