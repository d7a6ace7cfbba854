package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/instmix/instmix/executor"
	"github.com/instmix/instmix/executor/extension"
	"github.com/instmix/instmix/ir"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/instmix/instmix/utils"
	"go.uber.org/mock/gomock"
)

func validRecord() *instmix.Record {
	r := &instmix.Record{Function: "f", DynOps: 3}
	r.Weighted[instmix.IntegerALU] = 1
	r.Weighted[instmix.Memory] = 1
	r.Weighted[instmix.BiasedBranch] = 1
	return r
}

// brokenRecord counts more instructions per category than in total.
func brokenRecord() *instmix.Record {
	r := validRecord()
	r.Weighted[instmix.Other] = 2
	return r
}

func withWeight(c instmix.Category, weight float64) *instmix.Record {
	r := validRecord()
	r.Weighted[c] = weight
	return r
}

func TestRecordValidator_NoValidatorIsCreatedIfDisabled(t *testing.T) {
	ext := MakeRecordValidator(&utils.Config{})
	if _, ok := ext.(extension.NilExtension); !ok {
		t.Errorf("validator is enabled although not set in configuration")
	}
}

func TestValidateRecord(t *testing.T) {
	tests := map[string]struct {
		record *instmix.Record
		valid  bool
	}{
		"valid":            {validRecord(), true},
		"empty":            {&instmix.Record{Function: "e"}, true},
		"ratios above one": {brokenRecord(), false},
		"negative weight":  {withWeight(instmix.Other, -1), false},
		"missing weight":   {withWeight(instmix.Memory, 0), false},
		"negative dynops":  {&instmix.Record{Function: "n", DynOps: -1}, false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateRecord(test.record)
			if test.valid && err != nil {
				t.Errorf("unexpected error; %v", err)
			}
			if !test.valid && err == nil {
				t.Errorf("invalid record was accepted")
			}
		})
	}
}

func TestRecordValidator_ValidRecordsPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)
	log.EXPECT().Noticef("Validation successful!")

	ext := makeRecordValidator(utils.NewTestConfig(t, 1, true), log)
	if err := ext.PreRun(executor.State{}, nil); err != nil {
		t.Fatalf("pre-run failed; %v", err)
	}
	state := executor.State{ModuleName: "m", Data: &ir.Function{Name: "f"}}
	if err := ext.PostFunction(state, &executor.Context{Record: validRecord()}); err != nil {
		t.Errorf("valid record was rejected; %v", err)
	}
	if err := ext.PostFunction(state, &executor.Context{}); err != nil {
		t.Errorf("missing record must be ignored; %v", err)
	}
	if err := ext.PostRun(executor.State{}, nil, nil); err != nil {
		t.Errorf("unexpected error; %v", err)
	}
}

func TestRecordValidator_InvalidRecordStopsExecution(t *testing.T) {
	ext := makeRecordValidator(utils.NewTestConfig(t, 1, true), logger.NewLogger("critical", "Test"))
	state := executor.State{ModuleName: "m", Data: &ir.Function{Name: "f"}}
	err := ext.PostFunction(state, &executor.Context{Record: brokenRecord()})
	if err == nil {
		t.Fatalf("invalid record must fail")
	}
	if !strings.Contains(err.Error(), "function f in module m") {
		t.Errorf("error should name function and module, got %v", err)
	}
}

func TestRecordValidator_ContinueOnFailureToleratesErrorsUpToLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger.NewMockLogger(ctrl)

	cfg := utils.NewTestConfig(t, 1, true)
	cfg.ContinueOnFailure = true
	cfg.MaxNumErrors = 3

	gomock.InOrder(
		log.EXPECT().Warningf(gomock.Any(), 3),
		log.EXPECT().Error(gomock.Any()).Times(3),
		log.EXPECT().Critical(gomock.Any()),
		log.EXPECT().Warningf("%v errors caught", 3),
	)

	ext := makeRecordValidator(cfg, log)
	if err := ext.PreRun(executor.State{}, nil); err != nil {
		t.Fatalf("pre-run failed; %v", err)
	}
	state := executor.State{ModuleName: "m", Data: &ir.Function{Name: "f"}}
	for i := 0; i < 2; i++ {
		if err := ext.PostFunction(state, &executor.Context{Record: brokenRecord()}); err != nil {
			t.Fatalf("error #%d must be tolerated; %v", i+1, err)
		}
	}
	if err := ext.PostFunction(state, &executor.Context{Record: brokenRecord()}); err == nil {
		t.Errorf("error beyond the limit must stop the execution")
	}

	err := ext.PostRun(executor.State{}, nil, nil)
	if err == nil {
		t.Fatalf("post-run must report the collected errors")
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 3 {
		t.Errorf("unexpected errors %v", err)
	}
}
