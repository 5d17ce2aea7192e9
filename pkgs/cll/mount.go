// Package cll provides utilities for building CLI applications with urfave/cli/v3.
package cll

import "github.com/urfave/cli/v3"

// Registerable is a command that can attach itself, its subcommands or its
// root action to an application.
type Registerable interface {
	Register(*cli.Command) *cli.Command
}

// Register applies each Registerable to root in order.
//
// Example:
//
//	root := &cli.Command{Name: "mkenv"}
//	root = cll.Register(root, generateCmd, checkCmd)
func Register(root *cli.Command, subs ...Registerable) *cli.Command {
	for _, s := range subs {
		root = s.Register(root)
	}

	return root
}

// EnvWithPrefix returns a function building environment variable sources
// that share prefix.
//
// Example:
//
//	env := cll.EnvWithPrefix("MKENV_")
//	flag := &cli.StringFlag{
//		Name:    "dir",
//		Sources: env("DIR"), // reads MKENV_DIR
//	}
func EnvWithPrefix(prefix string) func(strs ...string) cli.ValueSourceChain {
	return func(strs ...string) cli.ValueSourceChain {
		withPrefix := make([]string, len(strs))

		for i, str := range strs {
			withPrefix[i] = prefix + str
		}

		return cli.EnvVars(withPrefix...)
	}
}
