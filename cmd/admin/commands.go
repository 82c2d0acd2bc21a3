package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"ecoRouteClient/internal/admin"
	"ecoRouteClient/internal/api"
	"ecoRouteClient/internal/app"
	"ecoRouteClient/internal/storefront"
	"ecoRouteClient/models"
)

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: admin <command> [arguments]

commands:
  dashboard                          order statistics and recent orders
  products [-category c]             list the catalog
  orders [-search text] [-status s]  list and filter orders
  drivers                            list the driver roster
  driver <id|name>                   show one driver
  add-driver -name N -phone P -email E [-license L] [-vehicle-type T]
             [-vehicle V] [-parcels n] [-status active|inactive|on-route]
                                     add a driver
`)
}

type console struct {
	rt     *app.Runtime
	out    io.Writer
	roster *admin.Roster
}

func newConsole(rt *app.Runtime, out io.Writer) *console {
	return &console{rt: rt, out: out, roster: admin.NewRoster(rt.API, rt.Logger)}
}

func (c *console) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "dashboard":
		return c.dashboard(ctx)
	case "products":
		return c.products(ctx, args)
	case "orders":
		return c.orders(ctx, args)
	case "drivers":
		return c.drivers(ctx)
	case "driver":
		return c.driver(ctx, args)
	case "add-driver":
		return c.addDriver(ctx, args)
	case "help", "-h", "--help":
		usage(c.out)
		return nil
	default:
		usage(c.out)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (c *console) dashboard(ctx context.Context) error {
	orders, err := c.rt.API.Orders(ctx)
	if err != nil {
		return err
	}
	s := admin.ComputeStats(orders)
	fmt.Fprintf(c.out, "Total orders:  %d\n", s.TotalOrders)
	fmt.Fprintf(c.out, "Revenue:       $%s\n", s.Revenue.StringFixed(2))
	fmt.Fprintf(c.out, "Eco points:    %d\n", s.EcoPoints)
	fmt.Fprintf(c.out, "Completed:     %d (%.1f%%)\n", s.Completed, s.CompletionRate)
	fmt.Fprintf(c.out, "Pending:       %d (%.1f%%)\n", s.Pending, s.PendingRate)
	if len(s.Recent) == 0 {
		return nil
	}
	fmt.Fprintln(c.out, "\nRecent orders:")
	return c.printOrders(s.Recent)
}

func (c *console) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(c.out)
	category := fs.String("category", models.CategoryAll, "one of "+strings.Join(storefront.Categories(), ", "))
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	products, err := c.rt.API.Catalog(ctx)
	if err != nil {
		return err
	}
	products = storefront.FilterByCategory(products, *category)
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No products found.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tECOCOINS\tECO\tRATING\t")
	for _, p := range products {
		eco := "no"
		if p.EcoFriendly {
			eco = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t$%s\t%d\t%s\t%s\t\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.EcoPrice, eco, p.Rating.StringFixed(1))
	}
	return tw.Flush()
}

func (c *console) orders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	fs.SetOutput(c.out)
	search := fs.String("search", "", "match name, order id or customer id")
	status := fs.String("status", "all", "order status or all")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	orders, err := c.rt.API.Orders(ctx)
	if err != nil {
		return err
	}
	filtered := admin.FilterOrders(orders, *search, *status)
	if len(filtered) == 0 {
		if *search != "" || !strings.EqualFold(*status, "all") {
			fmt.Fprintln(c.out, "No orders match your filters.")
		} else {
			fmt.Fprintln(c.out, "No orders found.")
		}
		return nil
	}
	if err := c.printOrders(filtered); err != nil {
		return err
	}
	revenue := admin.ComputeStats(orders).Revenue
	fmt.Fprintf(c.out, "Showing %d of %d orders. Total revenue: $%s\n", len(filtered), len(orders), revenue.StringFixed(2))
	return nil
}

func (c *console) printOrders(orders []models.Order) error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tCUSTOMER\tNAME\tSTATUS\tROUTE\tTOTAL\tECO\tPLACED\t")
	for i := range orders {
		o := &orders[i]
		route := o.Route.Route
		if route == "" {
			route = "N/A"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t$%s\t%d\t%s\t\n", admin.ShortID(o.ID), o.CustomerID, o.Name, o.Status,
			route, o.TotalAmount.StringFixed(2), o.EcoPoints(), o.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (c *console) drivers(ctx context.Context) error {
	drivers, err := c.roster.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(drivers) == 0 {
		fmt.Fprintln(c.out, "No drivers yet.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tVEHICLE\tPARCELS\tSTATUS\t")
	for _, d := range drivers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t\n", d.ID, d.Name, d.Phone, strings.TrimSpace(d.VehicleType+" "+d.Vehicle), d.TotalParcels, statusLabel(d.Status))
	}
	return tw.Flush()
}

func statusLabel(s models.DriverStatus) string {
	switch s {
	case models.DriverStatusOnRoute:
		return "On Route"
	case models.DriverStatusActive:
		return "Available"
	default:
		return "Inactive"
	}
}

func (c *console) driver(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: driver <id|name>", errUsage)
	}
	if _, err := c.roster.Refresh(ctx); err != nil {
		return err
	}
	key := strings.Join(args, " ")
	d, ok := c.roster.Find(key)
	if !ok {
		return fmt.Errorf("no driver matches %q", key)
	}
	delivered, remaining := admin.Progress(d)
	stops := admin.SummarizeStops(d)
	fmt.Fprintf(c.out, "%s (%s)\n", d.Name, statusLabel(d.Status))
	fmt.Fprintf(c.out, "Phone:     %s\nEmail:     %s\n", d.Phone, d.Email)
	if d.LicenseNumber != "" {
		fmt.Fprintf(c.out, "License:   %s\n", d.LicenseNumber)
	}
	if v := strings.TrimSpace(d.VehicleType + " " + d.Vehicle); v != "" {
		fmt.Fprintf(c.out, "Vehicle:   %s\n", v)
	}
	fmt.Fprintf(c.out, "Parcels:   %d total, %d delivered, %d remaining\n", d.TotalParcels, delivered, remaining)
	if stops.Stops > 0 {
		fmt.Fprintf(c.out, "Route:     %s (%d stops, %d parcels planned)\n", strings.Join(d.Route, " -> "), stops.Stops, stops.Parcels)
		for _, stop := range d.Route {
			if n, ok := d.DeliveriesPerStop[stop]; ok {
				fmt.Fprintf(c.out, "  %s: %d\n", stop, n)
			}
		}
	}
	return nil
}

func (c *console) addDriver(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-driver", flag.ContinueOnError)
	fs.SetOutput(c.out)
	var d models.Driver
	var status string
	fs.StringVar(&d.Name, "name", "", "full name")
	fs.StringVar(&d.Phone, "phone", "", "phone number")
	fs.StringVar(&d.Email, "email", "", "email address")
	fs.StringVar(&d.LicenseNumber, "license", "", "license number")
	fs.StringVar(&d.VehicleType, "vehicle-type", "", "vehicle type, e.g. e-bike")
	fs.StringVar(&d.Vehicle, "vehicle", "", "vehicle description or plate")
	fs.IntVar(&d.TotalParcels, "parcels", 0, "parcels assigned")
	fs.StringVar(&status, "status", string(models.DriverStatusActive), "active, inactive or on-route")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	d.Status = models.DriverStatus(strings.ToLower(status))

	id, err := c.roster.Add(ctx, d)
	if err != nil && id == "" {
		return err
	}
	fmt.Fprintf(c.out, "Driver added successfully! ID: %s\n", id)
	return err
}

func describe(err error) string {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Method != http.MethodGet {
			return "Failed to add driver. Please try again."
		}
		return api.UserMessage(err)
	case errors.Is(err, errUsage):
		return strings.TrimPrefix(err.Error(), "usage: ")
	default:
		return err.Error()
	}
}
