package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/YuminosukeSato/linearsvm/pkg/errors"
)

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationTrain)
	testLogger.Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("test error"), "code", "E1")

	if buffer.Len() == 0 {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "test error") {
		t.Error("Expected error field not found")
	}
}

func TestTestLoggerLevelFilter(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelWarn)

	testLogger.Info("hidden")
	testLogger.Warn("shown")

	if testLogger.ContainsMessage("hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !testLogger.ContainsMessage("shown") {
		t.Error("warn record should be captured")
	}
	if testLogger.Enabled(context.Background(), LevelInfo) {
		t.Error("Enabled(LevelInfo) should be false at warn level")
	}
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(ModelNameKey, "LinearSVM", EstimatorIDKey, "svm-001")
	contextLogger.Info("contextual message")

	if !testLogger.ContainsField(ModelNameKey, "LinearSVM") {
		t.Error("model name context not found")
	}
	if !testLogger.ContainsField(EstimatorIDKey, "svm-001") {
		t.Error("estimator id context not found")
	}
}

func TestZerologLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, FormatJSON, LevelInfo)

	logger.With(ModelNameKey, "LinearSVM").Info("Training model with L-BFGS optimizer.",
		SamplesKey, 10,
		FeaturesKey, 3,
	)
	logger.Debug("not emitted")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON record: %v", err)
	}
	if entry["message"] != "Training model with L-BFGS optimizer." {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry[ModelNameKey] != "LinearSVM" {
		t.Errorf("%s = %v, want LinearSVM", ModelNameKey, entry[ModelNameKey])
	}
	if entry[SamplesKey] != 10.0 {
		t.Errorf("%s = %v, want 10", SamplesKey, entry[SamplesKey])
	}
}

func TestZerologLoggerErrorDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, FormatJSON, LevelDebug)

	err := errors.NewDimensionError("Classify", 4, 3, 1)
	logger.Error("classification failed", err)

	var entry map[string]interface{}
	if jerr := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); jerr != nil {
		t.Fatalf("invalid JSON record: %v", jerr)
	}
	if _, ok := entry[ErrAttrKey]; !ok {
		t.Error("expected error attribute")
	}
	detail, ok := entry[DetailAttrKey].(map[string]interface{})
	if !ok {
		t.Fatalf("expected structured detail, got %v", entry[DetailAttrKey])
	}
	if detail["type"] != "DimensionError" {
		t.Errorf("detail type = %v, want DimensionError", detail["type"])
	}
	if _, ok := entry[StacktraceAttrKey]; !ok {
		t.Error("expected stacktrace at debug level")
	}
}

func TestZerologLoggerEnabled(t *testing.T) {
	logger := NewZerologLogger(&bytes.Buffer{}, FormatConsole, LevelWarn)

	tests := []struct {
		level Level
		want  bool
	}{
		{LevelDebug, false},
		{LevelInfo, false},
		{LevelWarn, true},
		{LevelError, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := logger.Enabled(context.Background(), tt.level); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestWarnFunc(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)
	warn := WarnFunc(testLogger)

	warn(errors.NewConvergenceWarning("L-BFGS", 5, "line search failed"))

	if !testLogger.ContainsMessage("L-BFGS failed to converge after 5 iterations") {
		t.Error("warning message not logged")
	}
	entries, err := testLogger.GetLogEntries()
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry, got %d (%v)", len(entries), err)
	}
	if entries[0]["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entries[0]["level"])
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger().With(ModelNameKey, "LinearSVM")
	logger.Info("discarded", SamplesKey, 10)
	logger.Error("discarded", fmt.Errorf("boom"))

	if logger.Enabled(context.Background(), LevelError) {
		t.Error("nop logger should not be enabled at any level")
	}
}
