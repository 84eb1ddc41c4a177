package hooks

import "testing"

func TestRun_SuccessReportsTrue(t *testing.T) {
	if ok := Run(Step{Name: "ok-step", Path: "true"}, nil); !ok {
		t.Error("Run() = false, want true for a succeeding command")
	}
}

func TestRun_FailureReportsFalse(t *testing.T) {
	if ok := Run(Step{Name: "failing-step", Path: "false"}, nil); ok {
		t.Error("Run() = true, want false for a failing command")
	}
}

func TestRun_MissingBinaryReportsFalse(t *testing.T) {
	if ok := Run(Step{Name: "missing-step", Path: "/nonexistent/binary/xyz"}, nil); ok {
		t.Error("Run() = true, want false for a missing binary")
	}
}
