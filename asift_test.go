package asift

import (
	"testing"

	"github.com/ausocean/asift/asiftcfg"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestNewRequiresLogger(t *testing.T) {
	_, err := New(asiftcfg.Config{})
	if err == nil {
		t.Fatal("expected error constructing Helper without a logger")
	}
}

func TestNewDefaultsConfig(t *testing.T) {
	h, err := New(asiftcfg.Config{Logger: &dumbLogger{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	if h.cfg.ORBFeatures != asiftcfg.DefaultORBFeatures {
		t.Errorf("ORBFeatures = %d, want default %d", h.cfg.ORBFeatures, asiftcfg.DefaultORBFeatures)
	}
	if h.sim == nil || h.ctl == nil {
		t.Fatal("New did not wire a simulator or controller")
	}
}
