package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shuldan/ioc/pkg/autoreg"
	"github.com/shuldan/ioc/pkg/bootstrap"
	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/types"
)

type Greeter interface {
	Greet(name string) string
}

type templateGreeter struct {
	resolver contracts.PropertyResolver
}

func (g *templateGreeter) Greet(name string) string {
	out, err := g.resolver.ComputeTemplateValue("${greeting.prefix:Hello}, " + name + "${greeting.suffix:!}")
	if err != nil {
		return "Hello, " + name
	}
	return out
}

type greetRunner struct {
	greeter Greeter
	log     contracts.Logger
}

func (r *greetRunner) Name() string { return "greet" }

func (r *greetRunner) Run(_ context.Context) error {
	r.log.Info(r.greeter.Greet("world"))
	return nil
}

func init() {
	autoreg.Contribute("greeting", func(ctx *container.Context) error {
		types.RegisterDowncast[*templateGreeter, Greeter](ctx.Types(), func(g *templateGreeter) Greeter { return g })
		types.RegisterDowncast[*greetRunner, contracts.Runner](ctx.Types(), func(r *greetRunner) contracts.Runner { return r })

		err := container.Provide(ctx, "greeter", func(c *container.Context) (*templateGreeter, error) {
			resolver, err := container.GetPrimaryBean[contracts.PropertyResolver](c)
			if err != nil {
				return nil, err
			}
			return &templateGreeter{resolver: resolver}, nil
		})
		if err != nil {
			return err
		}

		return container.Provide(ctx, "greet-runner", func(c *container.Context) (*greetRunner, error) {
			greeter, err := container.GetPrimaryBean[Greeter](c)
			if err != nil {
				return nil, err
			}
			log, err := container.GetPrimaryBean[contracts.Logger](c)
			if err != nil {
				return nil, err
			}
			return &greetRunner{greeter: greeter, log: log}, nil
		})
	})
}

func main() {
	a, err := bootstrap.New("ioc-demo", "0.1.0").
		WithDatabase().
		WithCache().
		WithHealth().
		CreateApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := a.Exec(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
