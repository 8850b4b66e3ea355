package misc

import "testing"

func TestIdentification(t *testing.T) {
	if GetAppName() != "docsync" {
		t.Errorf("GetAppName() = %q, want docsync", GetAppName())
	}
	if len(GetVersion()) == 0 {
		t.Error("GetVersion() returned empty string")
	}
	if len(GetGitHash()) == 0 {
		t.Error("GetGitHash() returned empty string")
	}
}
