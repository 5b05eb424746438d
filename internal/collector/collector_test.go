package collector

import (
	"context"
	"strings"
	"testing"
)

func TestHuaweiPrompt(t *testing.T) {
	matches := []string{
		"<HWGPON2U-01-PNHHQ>",
		"<MA5800-X7>",
		"[HWGPON2U-01-PNHHQ]",
		"[HWGPON2U-01-PNHHQ-gpon-0/1]",
		"[OLT~config]",
	}
	for _, s := range matches {
		if !huaweiPrompt.MatchString(s) {
			t.Errorf("huaweiPrompt should match %q", s)
		}
	}

	nonMatches := []string{
		"In port 0/1/2, the total of ONTs are: 2, online: 1",
		"0    online   2024-01-15 08:30:22",
		"  ---------------------------------",
	}
	for _, s := range nonMatches {
		if huaweiPrompt.MatchString(s) {
			t.Errorf("huaweiPrompt should not match %q", s)
		}
	}
}

func TestCleanOutput(t *testing.T) {
	raw := strings.Join([]string{
		"display ont info summary 0/1/2",
		"  In port 0/1/2, the total of ONTs are: 1, online: 1",
		"  ONT  Run     Last",
		"  0    online  2024-01-15 08:30:22",
		"<HWGPON2U-01-PNHHQ>",
	}, "\n")

	got := cleanOutput(raw, "display ont info summary 0/1/2")

	if strings.Contains(got, "display ont info summary") {
		t.Error("command echo not stripped")
	}
	if strings.Contains(got, "<HWGPON2U-01-PNHHQ>") {
		t.Error("prompt line not stripped")
	}
	if !strings.Contains(got, "In port 0/1/2") {
		t.Error("data lines should survive")
	}
	if !strings.Contains(got, "0    online") {
		t.Error("table rows should survive")
	}
}

func TestCleanOutputKeepsEchoLookalikes(t *testing.T) {
	// Only the first line counts as echo, later mentions stay
	raw := strings.Join([]string{
		"enable",
		"Info: executed enable",
	}, "\n")
	got := cleanOutput(raw, "enable")
	if got != "Info: executed enable" {
		t.Errorf("cleanOutput = %q", got)
	}
}

func TestCollectRequiresName(t *testing.T) {
	c := New(t.TempDir())
	_, err := c.Collect(context.Background(), Target{Address: "10.0.0.1"})
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Errorf("expected name error, got %v", err)
	}
}
