// The branchcut command solves binary linear programs read from
// OPB-style files with the branch-and-cut session in package mip.
package main

import (
	"os"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "branchcut",
		Short:         "Branch-and-cut solver for binary linear programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSolveCommand())
	return root
}
