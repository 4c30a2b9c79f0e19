package log

import (
	"path/filepath"
	"testing"

	"github.com/taskhive/taskhive/pkg/config"
)

func TestGoodNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		config.DefaultConfig(),
		{},
		{Log: config.LogConfig{Path: filepath.Join(t.TempDir(), "logfile.txt")}},
	} {
		_, f, err := NewLogger(c)
		if err != nil {
			t.Errorf("NewLogger(%v) => _, _, %v, want _, _, nil", c, err)
		}
		if f != nil {
			f.Close()
		}
	}
}

func TestBadNewLogger(t *testing.T) {
	for _, c := range []*config.Config{
		nil,
		{Log: config.LogConfig{Path: "\x00"}},
	} {
		_, f, err := NewLogger(c)
		if err == nil {
			t.Errorf("NewLogger(%v) => _, _, nil, want _, _, %v", c, err)
		}
		if f != nil {
			f.Close()
		}
	}
}
