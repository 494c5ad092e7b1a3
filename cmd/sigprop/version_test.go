package main

import (
	"runtime/debug"
	"testing"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		ok   bool
		want string
	}{
		{"no build info", nil, false, "0.1.0"},
		{"installed", &debug.BuildInfo{Main: debug.Module{Version: "v0.1.2"}}, true, "v0.1.2"},
		{"devel", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true, "devel-0.1.0"},
		{
			"devel with revision",
			&debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abcdef0123"}},
			},
			true,
			"devel-0.1.0+abcdef0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := version("0.1.0", func() (*debug.BuildInfo, bool) { return tt.info, tt.ok })
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
	if Version() == "" {
		t.Error("empty version")
	}
}
