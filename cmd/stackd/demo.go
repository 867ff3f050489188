package main

import (
	"fmt"
	"io"

	"github.com/mangohow/gostack/errors"
	"github.com/mangohow/gostack/tools/collection"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "push and pop a few strings and print every step",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.OutOrStdout())
	},
}

func runDemo(w io.Writer) error {
	s, err := collection.NewStringStack()
	if err != nil {
		return err
	}
	defer s.Destroy()

	for _, item := range []string{"a", "b"} {
		if err := s.Push(item); err != nil {
			return err
		}
		fmt.Fprintf(w, "push %q: size=%d\n", item, s.Size())
	}

	for i := 0; i < 3; i++ {
		item, err := s.Pop()
		if err != nil {
			if !errors.Is(err, collection.ErrStackEmpty) {
				return err
			}
			e := errors.FromAny(err)
			fmt.Fprintf(w, "pop: %s (%s)\n", e.Reason(), e.Message())
			continue
		}
		fmt.Fprintf(w, "pop %q: size=%d\n", item, s.Size())
	}

	for i := 0; i <= collection.InitialCapacity; i++ {
		if err := s.Push(fmt.Sprint(i)); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "after %d pushes: size=%d capacity=%d\n", collection.InitialCapacity+1, s.Size(), s.Cap())

	for s.Size() > collection.InitialCapacity/4-1 {
		if _, err := s.Pop(); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "after popping to %d: capacity=%d\n", s.Size(), s.Cap())

	return nil
}
