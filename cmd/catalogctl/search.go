package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/money"
	"github.com/mmeshcher/beautify-storefront/internal/search"
)

type searchOptions struct {
	query      string
	categories []string
	brands     []string
	skinTypes  []string
	concerns   []string
	price      int64
	sort       string
	page       int
}

// browser строит выдачу из флагов. Категории-группы раскрываются так же, как в HTTP API,
// повторы значений не выключают фасет.
func (o *searchOptions) browser(products []model.Product) (*search.Browser, error) {
	if o.price < 0 {
		return nil, fmt.Errorf("price must not be negative: %d", o.price)
	}
	sort := search.SortOption(o.sort)
	if o.sort != "" && !sort.Valid() {
		return nil, fmt.Errorf("unknown sort option %q", o.sort)
	}

	b := search.NewBrowser(products, search.DefaultFilters())
	b.SetQuery(o.query)

	for _, c := range o.categories {
		for _, name := range search.ExpandCategory(c) {
			if !slices.Contains(b.Filters().Categories, name) {
				b.ToggleCategory(name)
			}
		}
	}
	enable := func(values []string, selected func() []string, toggle func(string)) {
		for _, v := range values {
			if !slices.Contains(selected(), v) {
				toggle(v)
			}
		}
	}
	enable(o.brands, func() []string { return b.Filters().Brands }, b.ToggleBrand)
	enable(o.skinTypes, func() []string { return b.Filters().SkinTypes }, b.ToggleSkinType)
	enable(o.concerns, func() []string { return b.Filters().Concerns }, b.ToggleConcern)

	if o.price > 0 {
		b.SetPriceCeiling(o.price)
	}
	if o.sort != "" {
		b.SetSort(sort)
	}
	b.SetPage(o.page)
	return b, nil
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter, sort and paginate the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := root.load()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			b, err := opts.browser(c.All())
			if err != nil {
				return err
			}
			res := b.Page()

			out := cmd.OutOrStdout()
			if res.TotalItems == 0 {
				fmt.Fprintln(out, "no products match the filters")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tSTOCK")
			for _, p := range res.Items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Brand, p.Category, money.FormatInt(p.Price), p.StockStatus)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "page %d of %d, %d products\n", res.Page, res.TotalPages, res.TotalItems)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.query, "query", "q", "", "search text (name, brand or category)")
	f.StringSliceVar(&opts.categories, "category", nil, "category filter (repeatable)")
	f.StringSliceVar(&opts.brands, "brand", nil, "brand filter (repeatable)")
	f.StringSliceVar(&opts.skinTypes, "skin-type", nil, "skin type filter (repeatable)")
	f.StringSliceVar(&opts.concerns, "concern", nil, "concern filter (repeatable)")
	f.Int64Var(&opts.price, "price", 0, "maximum price")
	f.StringVar(&opts.sort, "sort", "", "popular, price-low, price-high, newest or alphabetical")
	f.IntVar(&opts.page, "page", 1, "page number")

	return cmd
}
