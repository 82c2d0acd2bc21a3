package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecoRouteClient/internal/agent"
	"ecoRouteClient/internal/api"
	"ecoRouteClient/internal/app"
	"ecoRouteClient/internal/balance"
	"ecoRouteClient/internal/cart"
	"ecoRouteClient/internal/checkout"
	"ecoRouteClient/internal/delivery"
	"ecoRouteClient/internal/storefront"
	"ecoRouteClient/models"
)

var errUsage = errors.New("usage")

// reported wraps an error whose message has already been printed.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: storefront <command> [arguments]

commands:
  health                         check that the backend is up
  catalog [-category name]       list products
  cart                           show the cart
  add <product-id>               add one unit to the cart
  remove <product-id>            remove a product from the cart
  qty <product-id> <quantity>    set a quantity (0 removes the line)
  clear                          empty the cart
  wishlist [toggle <product-id>] show or change the wishlist
  routes                         list delivery options
  checkout -name N -phone P -address A [-route name]
                                 place the order
  orders                         list your orders
  balance                        show your EcoCoin balance
  ask <question>                 ask EcoAgent
`)
}

type cli struct {
	rt  *app.Runtime
	out io.Writer
	in  io.Reader

	session *storefront.Session
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "health":
		return c.health(ctx)
	case "catalog":
		return c.catalog(ctx, args)
	case "cart":
		return c.withSession(ctx, func(s *storefront.Session) error { c.printCart(s.Snapshot()); return nil })
	case "add":
		return c.add(ctx, args)
	case "remove":
		return c.remove(ctx, args)
	case "qty":
		return c.quantity(ctx, args)
	case "clear":
		return c.withSession(ctx, func(s *storefront.Session) error {
			if err := s.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Cart cleared.")
			return nil
		})
	case "wishlist":
		return c.wishlist(ctx, args)
	case "routes":
		c.routes()
		return nil
	case "checkout":
		return c.checkout(ctx, args)
	case "orders":
		return c.orders(ctx)
	case "balance":
		return c.balance(ctx)
	case "ask":
		return c.ask(ctx, args)
	case "help", "-h", "--help":
		usage(c.out)
		return nil
	default:
		usage(c.out)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// withSession runs fn with the customer's session, opening it on first use.
func (c *cli) withSession(ctx context.Context, fn func(*storefront.Session) error) error {
	if c.session == nil {
		repo, err := c.rt.OpenSessionRepository(ctx)
		if err != nil {
			return err
		}
		s, err := storefront.OpenSession(ctx, c.rt.Config.Session.CustomerID, repo, c.rt.Logger)
		if err != nil {
			return err
		}
		c.session = s
	}
	return fn(c.session)
}

func (c *cli) health(ctx context.Context) error {
	if err := c.rt.API.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s is healthy\n", c.rt.API.BaseURL())
	return nil
}

func (c *cli) catalog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.SetOutput(c.out)
	category := fs.String("category", models.CategoryAll, "one of "+strings.Join(storefront.Categories(), ", "))
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	products, err := c.rt.API.Catalog(ctx)
	if err != nil {
		return err
	}
	var wished func(int64) bool
	if err := c.withSession(ctx, func(s *storefront.Session) error { wished = s.InWishlist; return nil }); err != nil {
		c.rt.Logger.Debug("catalog without wishlist marks", zap.Error(err))
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tECOCOINS\tCATEGORY\tRATING\t")
	for _, p := range storefront.FilterByCategory(products, *category) {
		name := p.Name
		if p.EcoFriendly {
			name += " (eco)"
		}
		if wished != nil && wished(p.ID) {
			name += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t$%s\t%d\t%s\t%s\t\n", p.ID, name, p.Price.StringFixed(2), p.EcoPrice, p.Category, p.Rating.StringFixed(1))
	}
	return tw.Flush()
}

func (c *cli) product(ctx context.Context, arg string) (models.Product, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: product id must be a number, got %q", errUsage, arg)
	}
	products, err := c.rt.API.Catalog(ctx)
	if err != nil {
		return models.Product{}, err
	}
	p, ok := storefront.FindProduct(products, id)
	if !ok {
		return models.Product{}, fmt.Errorf("no product with id %d", id)
	}
	return p, nil
}

func (c *cli) add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: add <product-id>", errUsage)
	}
	p, err := c.product(ctx, args[0])
	if err != nil {
		return err
	}
	return c.withSession(ctx, func(s *storefront.Session) error {
		l, err := s.AddToCart(ctx, p)
		if err != nil {
			return err
		}
		line, _ := l.Line(p.ID)
		fmt.Fprintf(c.out, "Added %s (x%d). Cart total: $%s\n", p.Name, line.Quantity, l.DisplayTotal())
		return nil
	})
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: product id must be a number, got %q", errUsage, arg)
	}
	return id, nil
}

func (c *cli) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove <product-id>", errUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return c.withSession(ctx, func(s *storefront.Session) error {
		l, err := s.RemoveFromCart(ctx, id)
		if err != nil {
			return err
		}
		c.printCart(l)
		return nil
	})
}

func (c *cli) quantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: qty <product-id> <quantity>", errUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	q, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: quantity must be a number, got %q", errUsage, args[1])
	}
	return c.withSession(ctx, func(s *storefront.Session) error {
		l, err := s.SetQuantity(ctx, id, q)
		if err != nil {
			return err
		}
		c.printCart(l)
		return nil
	})
}

func (c *cli) printCart(l cart.Ledger) {
	if l.IsEmpty() {
		fmt.Fprintln(c.out, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL\t")
	for _, ln := range l.Lines() {
		sub := ln.Product.Price.Mul(decimal.NewFromInt(int64(ln.Quantity)))
		fmt.Fprintf(tw, "%d\t%s\t%d\t$%s\t$%s\t\n", ln.Product.ID, ln.Product.Name, ln.Quantity, ln.Product.Price.StringFixed(2), sub.StringFixed(2))
	}
	_ = tw.Flush()
	fmt.Fprintf(c.out, "Items: %d  Total: $%s  EcoCoins: %d\n", l.ItemCount(), l.DisplayTotal(), l.TotalRewardPoints())
}

func (c *cli) wishlist(ctx context.Context, args []string) error {
	return c.withSession(ctx, func(s *storefront.Session) error {
		if len(args) == 2 && args[0] == "toggle" {
			p, err := c.product(ctx, args[1])
			if err != nil {
				return err
			}
			added, err := s.ToggleWishlist(ctx, p)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(c.out, "Added %s to your wishlist.\n", p.Name)
			} else {
				fmt.Fprintf(c.out, "Removed %s from your wishlist.\n", p.Name)
			}
			return nil
		}
		if len(args) != 0 {
			return fmt.Errorf("%w: wishlist [toggle <product-id>]", errUsage)
		}
		items := s.Wishlist()
		if len(items) == 0 {
			fmt.Fprintln(c.out, "Your wishlist is empty.")
			return nil
		}
		for _, p := range items {
			fmt.Fprintf(c.out, "%d  %s  $%s\n", p.ID, p.Name, p.Price.StringFixed(2))
		}
		return nil
	})
}

func (c *cli) routes() {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROUTE\tTIME\tCOST\tBONUS\tCO2 SAVED\t")
	for _, r := range delivery.DefaultRoutes() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t+%d\t%s\t\n", r.ID, r.Name, r.Time, r.Cost, r.EcoBonus, r.CO2Saved)
	}
	_ = tw.Flush()
}

func (c *cli) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(c.out)
	name := fs.String("name", "", "recipient name")
	phone := fs.String("phone", "", "contact phone")
	address := fs.String("address", "", "delivery address")
	routeName := fs.String("route", "", "delivery route name or id (default Eco-Friendly Route)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	routes := delivery.NewSelection(delivery.DefaultRoutes())
	if *routeName != "" {
		var err error
		if id, convErr := strconv.ParseInt(*routeName, 10, 64); convErr == nil {
			_, err = routes.Select(id)
		} else {
			_, err = routes.SelectByName(*routeName)
		}
		if err != nil {
			return err
		}
	}
	var route *models.DeliveryRoute
	if r, ok := routes.Selected(); ok {
		route = &r
	}
	contact := checkout.Contact{Name: *name, Phone: *phone, Address: *address}

	return c.withSession(ctx, func(s *storefront.Session) error {
		svc := checkout.NewService(c.rt.API, s.CustomerID(), c.rt.Logger)
		reader := bufio.NewReader(c.in)
		var apiErr *api.Error
		for {
			out, err := svc.Submit(ctx, s, route, contact)
			if out.Message != "" {
				fmt.Fprintln(c.out, out.Message)
			}
			if err == nil {
				return nil
			}
			// Only a failed backend call is worth resubmitting; the key stays the same.
			if out.Succeeded() || !errors.As(err, &apiErr) {
				return reported{err}
			}
			fmt.Fprint(c.out, "Retry? [y/N] ")
			answer, _ := reader.ReadString('\n')
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				return reported{err}
			}
		}
	})
}

func (c *cli) orders(ctx context.Context) error {
	orders, err := c.rt.API.CustomerOrders(ctx, c.rt.Config.Session.CustomerID)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "No orders yet.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tPLACED\tSTATUS\tROUTE\tTOTAL\tECOCOINS\t")
	for i := range orders {
		o := &orders[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%s\t%d\t\n", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.Status,
			o.Route.Route, o.TotalAmount.StringFixed(2), o.EcoPoints())
	}
	return tw.Flush()
}

func (c *cli) balance(ctx context.Context) error {
	cache := balance.NewCache(c.rt.API, c.rt.Config.Wallet.Address, c.rt.InitialBalance(), c.rt.Logger)
	snap, err := cache.Refresh(ctx)
	if err != nil {
		if snap.Known {
			fmt.Fprintf(c.out, "EcoCoins: %s (last known)\n", snap.Value.String())
		}
		return err
	}
	fmt.Fprintf(c.out, "EcoCoins: %s\n", snap.Value.String())
	return nil
}

func (c *cli) ask(ctx context.Context, args []string) error {
	conv := agent.NewConversation(c.rt.API, c.rt.Logger)
	reply, err := conv.Ask(ctx, strings.Join(args, " "))
	if errors.Is(err, agent.ErrEmptyQuestion) {
		return fmt.Errorf("%w: ask <question>", errUsage)
	}
	fmt.Fprintf(c.out, "EcoAgent: %s\n", reply)
	// The fallback reply already tells the user what went wrong.
	return nil
}

// describe turns an error into the line printed for the user. It is empty for errors the
// command has already reported.
func describe(err error) string {
	var apiErr *api.Error
	var done reported
	switch {
	case errors.As(err, &done):
		return ""
	case errors.As(err, &apiErr):
		return api.UserMessage(err)
	case errors.Is(err, errUsage):
		return strings.TrimPrefix(err.Error(), "usage: ")
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrNoRoute),
		errors.Is(err, checkout.ErrMissingContact), errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, delivery.ErrUnknownRoute):
		return err.Error()
	default:
		return "error: " + err.Error()
	}
}
