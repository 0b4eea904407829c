package asiftcfg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidateDefaultsEveryField(t *testing.T) {
	dl := &dumbLogger{}
	got := Config{Logger: dl}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := Config{
		Logger:        dl,
		ORBFeatures:   DefaultORBFeatures,
		MaxTilt:       DefaultMaxTilt,
		Ratio:         DefaultRatio,
		TargetMatches: DefaultTargetMatches,
		MaxLevel:      DefaultMaxLevel,
		SimWorkers:    DefaultSimWorkers,
		MatchWorkers:  DefaultMatchWorkers,
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b *dumbLogger) bool { return true })); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidatePreservesSetFields(t *testing.T) {
	c := Config{
		Logger:        &dumbLogger{},
		ORBFeatures:   1000,
		MaxTilt:       3,
		Ratio:         0.7,
		TargetMatches: 128,
		MaxLevel:      3,
		SimWorkers:    2,
		MatchWorkers:  2,
	}
	want := c
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(want, c, cmp.Comparer(func(a, b *dumbLogger) bool { return true })); diff != "" {
		t.Errorf("Validate() changed already-set fields (-want +got):\n%s", diff)
	}
}
