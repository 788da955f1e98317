package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/beautify-storefront/internal/cart"
	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/money"
)

type quoteOptions struct {
	coupon   string
	referral string
	giftCard string
	shipping string
}

// parseLine разбирает аргумент вида ID или ID:QTY.
func parseLine(arg string) (int64, int, error) {
	idPart, qtyPart, hasQty := strings.Cut(arg, ":")

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid product id %q", idPart)
	}

	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil || qty < 1 {
			return 0, 0, fmt.Errorf("invalid quantity %q for product %d", qtyPart, id)
		}
	}
	return id, qty, nil
}

func newQuoteCmd(root *rootOptions) *cobra.Command {
	opts := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote ID[:QTY]...",
		Short: "Price a cart with promotions and shipping",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.load()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			store := cart.NewStore(nil)
			for _, arg := range args {
				id, qty, err := parseLine(arg)
				if err != nil {
					return err
				}
				p, err := c.ByID(id)
				if err != nil {
					return err
				}
				store.AddToCart(p, qty)
			}

			if opts.shipping != "" {
				m, ok := model.ShippingMethodByID(opts.shipping)
				if !ok {
					return fmt.Errorf("unknown shipping method %q", opts.shipping)
				}
				store.SetShippingMethod(m)
			}
			if opts.coupon != "" && !store.ApplyCoupon(opts.coupon) {
				return fmt.Errorf("coupon %q rejected", opts.coupon)
			}
			if opts.referral != "" && !store.ApplyReferralCode(opts.referral) {
				return fmt.Errorf("referral code %q rejected", opts.referral)
			}
			if opts.giftCard != "" && !store.ApplyGiftCard(opts.giftCard) {
				return fmt.Errorf("gift card %q rejected", opts.giftCard)
			}

			return printQuote(cmd, store.Summary())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.coupon, "coupon", "", "coupon code")
	f.StringVar(&opts.referral, "referral", "", "referral code")
	f.StringVar(&opts.giftCard, "gift-card", "", "gift card code")
	f.StringVar(&opts.shipping, "shipping", "", "shipping method id")

	return cmd
}

func printQuote(cmd *cobra.Command, s cart.Summary) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)

	for _, l := range s.Items {
		fmt.Fprintf(tw, "%s x%d\t%s\t\n", l.Name, l.Quantity, money.FormatInt(l.LineTotal()))
	}
	fmt.Fprintf(tw, "Subtotal\t%s\t\n", money.Format(s.Subtotal))
	if !s.Discount.IsZero() {
		fmt.Fprintf(tw, "Discount\t-%s\t\n", money.Format(s.Discount))
	}
	fmt.Fprintf(tw, "Shipping (%s)\t%s\t\n", s.ShippingMethod.Name, money.Format(s.Shipping))
	if !s.GiftCardApplied.IsZero() {
		fmt.Fprintf(tw, "Gift card\t-%s\t\n", money.Format(s.GiftCardApplied))
	}
	fmt.Fprintf(tw, "Total\t%s\t\n", money.Format(s.Total))

	return tw.Flush()
}
