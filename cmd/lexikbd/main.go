package main

import (
	"fmt"
	"os"

	"github.com/lexihq/lexikb/internal/cli"
	"github.com/lexihq/lexikb/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexikbd",
		Short: "Lexi knowledge base daemon and CLI",
		Long:  "Lexi knowledge base daemon for serving the API and seeding and searching the vector store",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.SeedCmd())
	rootCmd.AddCommand(admin.SearchCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
