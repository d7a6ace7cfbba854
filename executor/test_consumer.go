package executor

import "github.com/instmix/instmix/ir"

//go:generate mockgen -source test_consumer.go -destination test_consumer_mocks.go -package executor

//---------------------------------------------------------------------------------//
// This file serves for creating a mock FunctionConsumer. Consumers of provider
// tests are expressed through this interface to enable call expectations.
//---------------------------------------------------------------------------------//

type FunctionReceiver interface {
	Consume(module int, function int, fn *ir.Function) error
}

func toFunctionConsumer(c FunctionReceiver) FunctionConsumer {
	return func(info FunctionInfo) error {
		return c.Consume(info.Module, info.Function, info.Data)
	}
}
