package executor

import (
	"testing"

	"github.com/instmix/instmix/utils"
	"golang.org/x/exp/slices"
)

func TestRegistry_DefaultProcessorsAreRegistered(t *testing.T) {
	names := ProcessorNames()
	for _, want := range []string{"instmix", "instmix-static"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing processor %v in %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("names are not sorted: %v", names)
	}
}

func TestRegistry_MakeProcessor(t *testing.T) {
	cfg := utils.NewTestConfig(t, 1, false)
	processor, err := MakeProcessor("instmix", cfg)
	if err != nil {
		t.Fatalf("cannot create processor; %v", err)
	}
	if _, ok := processor.(*MixProcessor); !ok {
		t.Errorf("unexpected processor type %T", processor)
	}
	if _, err := MakeProcessor("no-such-pass", cfg); err == nil {
		t.Errorf("unknown pass must be rejected")
	}
}

func TestRegistry_DuplicateRegistrationFails(t *testing.T) {
	factory := func(*utils.Config) (Processor, error) { return nil, nil }
	if err := RegisterProcessor("test-duplicate", factory); err != nil {
		t.Fatalf("first registration failed; %v", err)
	}
	if err := RegisterProcessor("test-duplicate", factory); err == nil {
		t.Errorf("duplicate registration must fail")
	}
	if err := RegisterProcessor("", factory); err == nil {
		t.Errorf("empty name must be rejected")
	}
	if err := RegisterProcessor("test-nil", nil); err == nil {
		t.Errorf("nil factory must be rejected")
	}
}
