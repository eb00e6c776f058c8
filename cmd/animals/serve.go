package main

import (
	"fmt"

	"github.com/wilfried-lafaye/scraping-animals-app/chi"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Dashboard on http://%s\n", displayAddr(c.Addr))

	s := chi.NewServer(deps.Animals, deps.Logger)
	if err := s.ListenAndServe(deps.Ctx, c.Addr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// displayAddr turns a listen address into one a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
