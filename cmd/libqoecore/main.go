// Command libqoecore builds the simulator as a C shared library:
//
//	go build -buildmode=c-shared -o libqoecore.so ./cmd/libqoecore
//
// libqoecore.h declares the exported functions. Scores are returned as
// float, with -1 for an invalid configuration. Strings returned to C are
// allocated with malloc and must be released with free_simulation_string.
package main

/*
#include <stdlib.h>
#include "libqoecore.h"
*/
import "C"

import (
	"io"
	"log/slog"
	"os"
	"unsafe"

	"github.com/mrjaywilson/QOE-Core/internal/config"
	"github.com/mrjaywilson/QOE-Core/internal/logging"
	"github.com/mrjaywilson/QOE-Core/pkg/qoecore"
)

// errorScore is returned to C callers when a session cannot be simulated.
const errorScore float32 = -1

var logger = logging.NewLogger("text", "warn", false)

func init() {
	qoecore.SetLogger(logger)
}

func fromC(cfg C.SimConfig) qoecore.SimConfig {
	return qoecore.SimConfig{
		ABRType:         uint32(cfg.abr_type),
		ABRWindowSize:   uint32(cfg.abr_window_size),
		BufferSizeMax:   float32(cfg.buffer_size_max),
		SegmentDuration: float32(cfg.segment_duration),
		StallThreshold:  float32(cfg.stall_threshold),
	}
}

// scoreResult narrows a score to the float returned across the C boundary.
func scoreResult(score float64, err error) float32 {
	if err != nil {
		logger.Warn("simulation_failed", "error", err)
		return errorScore
	}
	return float32(score)
}

// runSession prints the default session to w and writes its CSV log to csvPath.
// Errors are logged since the C signature has no status.
func runSession(w io.Writer, csvPath string, log *slog.Logger) {
	if err := qoecore.SimulateSession(w, csvPath); err != nil {
		log.Error("session_failed", "error", err, "csv", csvPath)
	}
}

//export simulate_session
func simulate_session() {
	runSession(os.Stdout, config.DefaultCSVPath, logger)
}

//export simulate_and_get_score
func simulate_and_get_score() C.float {
	return C.float(scoreResult(qoecore.SimulateAndGetScore()))
}

//export simulate_with_config
func simulate_with_config(cfg C.SimConfig) C.float {
	return C.float(scoreResult(qoecore.SimulateWithConfig(fromC(cfg))))
}

//export simulate_with_config_and_get_score
func simulate_with_config_and_get_score(cfg C.SimConfig) C.float {
	return simulate_with_config(cfg)
}

// simulate_and_get_json returns the session records as JSON, or NULL.
//
//export simulate_and_get_json
func simulate_and_get_json(cfg C.SimConfig) *C.char {
	out, err := qoecore.SimulateJSON(fromC(cfg))
	if err != nil {
		logger.Warn("simulation_failed", "error", err)
		return nil
	}
	return C.CString(out)
}

//export free_simulation_string
func free_simulation_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func main() {}
