package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestStdLogger_Levels(t *testing.T) {
	var quiet bytes.Buffer
	l := newLogger(&quiet, false)
	l.Debugf("year %d", 1)
	l.Infof("searching")
	l.Warnf("surplus not routed")
	l.Errorf("boom: %v", "x")

	got := quiet.String()
	if strings.Contains(got, "[DEBUG]") || strings.Contains(got, "[INFO]") {
		t.Fatalf("quiet logger printed debug/info lines:\n%s", got)
	}
	if !strings.Contains(got, "[WARN] surplus not routed") || !strings.Contains(got, "[ERROR] boom: x") {
		t.Fatalf("missing warn/error lines:\n%s", got)
	}

	var loud bytes.Buffer
	l = newLogger(&loud, true)
	l.Debugf("year %d", 1)
	l.Infof("searching")
	if !strings.Contains(loud.String(), "[DEBUG] year 1") || !strings.Contains(loud.String(), "[INFO] searching") {
		t.Fatalf("verbose logger dropped lines:\n%s", loud.String())
	}
}
