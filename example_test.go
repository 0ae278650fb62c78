package corebus_test

import (
	"fmt"

	"github.com/dshills/corebus"
)

// Example_dispatch demonstrates the module-level dispatch surface.
func Example_dispatch() {
	corebus.On("order.placed", corebus.ListenerFunc(func(args ...any) (any, error) {
		fmt.Printf("order %v placed\n", args[0])
		return nil, nil
	}))

	if err := corebus.Dispatch("order.placed", 42); err != nil {
		fmt.Printf("Dispatch failed: %v\n", err)
	}

	// Output: order 42 placed
}

// Example_session shows context lifecycle events and item resolution.
func Example_session() {
	// Lifecycle listeners key on the context identifier
	corebus.On("context.started.checkout", corebus.ListenerFunc(func(args ...any) (any, error) {
		c := args[0].(*corebus.Context)
		fmt.Printf("started %s\n", c.Identifier())
		return nil, nil
	}))
	corebus.On("context.ended.checkout", corebus.ListenerFunc(func(args ...any) (any, error) {
		c := args[0].(*corebus.Context)
		fmt.Printf("ended with cart %v\n", c.GetItem("cart"))
		return nil, nil
	}))

	corebus.WithContext("checkout", func(c *corebus.Context) error {
		// Module-level item operations resolve the session context
		corebus.SetItem("cart", "c-7")
		return nil
	})

	// Output:
	// started checkout
	// ended with cart c-7
}

// Example_inheritance shows data flowing down the context tree.
func Example_inheritance() {
	corebus.WithContext("request", func(outer *corebus.Context) error {
		outer.SetItem("user", "ada")

		return corebus.WithContext("query", func(inner *corebus.Context) error {
			// The inner context inherits through its parent chain
			fmt.Printf("query for %v\n", inner.GetItem("user"))
			return nil
		})
	})

	// Output: query for ada
}
