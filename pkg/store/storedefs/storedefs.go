// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import "errors"

// ErrNoMatchingCmd is the error returned when a Cmd, NextCmd or PrevCmd query
// completes with no result.
var ErrNoMatchingCmd = errors.New("no matching command line")

// ErrNoBinding is returned by Binding when there is no such binding.
var ErrNoBinding = errors.New("no such binding")

// Store is an interface satisfied by the storage service.
type Store interface {
	NextCmdSeq() (int, error)
	AddCmd(text string) (int, error)
	DelCmd(seq int) error
	Cmd(seq int) (string, error)
	CmdsWithSeq(from, upto int) ([]Cmd, error)
	NextCmd(from int, prefix string) (Cmd, error)
	PrevCmd(upto int, prefix string) (Cmd, error)

	Binding(name string) (string, error)
	SetBinding(name, value string) error
	DelBinding(name string) error
	Bindings() ([]Binding, error)
}

// Cmd is an entry in the command history.
type Cmd struct {
	Text string
	Seq  int
}

// Binding is a persisted binding. The value is in its printed form.
type Binding struct {
	Name  string
	Value string
}
