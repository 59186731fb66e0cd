package mocks

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/mock"
)

// GameAPI is a testify mock of port.GameAPI. The first return value of an
// expectation is copied into the caller's out parameter through JSON, so tests
// can return plain maps.
type GameAPI struct {
	mock.Mock
	Project string
}

func (c *GameAPI) ProjectID() string {
	return c.Project
}

func (c *GameAPI) Get(arg1 context.Context, arg2 string, arg3 map[string]string, out any) error {
	args := c.Called(arg1, arg2, arg3)

	return fill(args, out)
}

func (c *GameAPI) Post(arg1 context.Context, arg2 string, arg3 any, out any) error {
	args := c.Called(arg1, arg2, arg3)

	return fill(args, out)
}

func (c *GameAPI) Delete(arg1 context.Context, arg2 string, out any) error {
	args := c.Called(arg1, arg2)

	return fill(args, out)
}

func fill(args mock.Arguments, out any) error {
	if err := args.Error(1); err != nil {
		return err
	}
	if args.Get(0) == nil || out == nil {
		return nil
	}
	raw, err := jsoniter.Marshal(args.Get(0))
	if err != nil {
		return err
	}
	return jsoniter.Unmarshal(raw, out)
}
