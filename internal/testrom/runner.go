// Package testrom runs test ROMs headlessly and interprets their serial output.
package testrom

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tealfowl/dotmatrix/internal/emulator"
)

// Result represents the outcome of running a test ROM.
type Result struct {
	Output  string
	Passed  bool
	Failed  bool
	Timeout bool
	Error   error
}

// Run executes a test ROM and returns the result.
func Run(romPath string, timeout time.Duration) *Result {
	result := &Result{}

	// #nosec G304 - romPath comes from the CLI argument
	data, err := os.ReadFile(romPath)
	if err != nil {
		result.Error = fmt.Errorf("failed to read ROM: %w", err)
		return result
	}

	emu, err := emulator.New(data)
	if err != nil {
		result.Error = fmt.Errorf("failed to create emulator: %w", err)
		return result
	}

	output, err := emu.RunUntilOutput(timeout)
	result.Output = output

	if err != nil {
		if errors.Is(err, emulator.ErrTimeout) {
			result.Timeout = true
		}
		result.Error = err
		return result
	}

	// "Failed" wins if both markers somehow appear.
	result.Failed = strings.Contains(output, "Failed")
	result.Passed = strings.Contains(output, "Passed") && !result.Failed

	return result
}

// String returns a human-readable summary of the result.
func (r *Result) String() string {
	switch {
	case r.Error != nil && !r.Timeout:
		return fmt.Sprintf("ERROR: %v", r.Error)
	case r.Timeout:
		return "TIMEOUT"
	case r.Passed:
		return "PASSED"
	case r.Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess reports whether the test passed cleanly.
func (r *Result) IsSuccess() bool {
	return r.Passed && !r.Failed && r.Error == nil
}
