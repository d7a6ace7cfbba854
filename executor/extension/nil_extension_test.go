package extension

import (
	"testing"

	"github.com/instmix/instmix/executor"
)

func TestNilExtension_IsExtension(t *testing.T) {
	var _ executor.Extension = NilExtension{}
}

func TestNilExtension_IgnoresAllEvents(t *testing.T) {
	ext := NilExtension{}
	state := executor.State{}
	ctx := &executor.Context{}
	if err := ext.PreRun(state, ctx); err != nil {
		t.Errorf("unexpected error; %v", err)
	}
	if err := ext.PreModule(state, ctx); err != nil {
		t.Errorf("unexpected error; %v", err)
	}
	if err := ext.PreFunction(state, ctx); err != nil {
		t.Errorf("unexpected error; %v", err)
	}
	if err := ext.PostFunction(state, ctx); err != nil {
		t.Errorf("unexpected error; %v", err)
	}
	if err := ext.PostModule(state, ctx); err != nil {
		t.Errorf("unexpected error; %v", err)
	}
	if err := ext.PostRun(state, ctx, nil); err != nil {
		t.Errorf("unexpected error; %v", err)
	}
}
