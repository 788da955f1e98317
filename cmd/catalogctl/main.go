// Package main реализует catalogctl: офлайн-поиск по каталогу и расчёт корзины.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/beautify-storefront/internal/catalog"
)

type rootOptions struct {
	catalogFile string
}

func (o *rootOptions) load() (*catalog.Catalog, error) {
	if o.catalogFile == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(o.catalogFile)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Query the beautify catalog and price carts offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.catalogFile, "catalog", "c", "", "catalog YAML file (embedded catalog when empty)")

	cmd.AddCommand(newSearchCmd(opts), newQuoteCmd(opts))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
