package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &client{}

	rootCmd := &cobra.Command{
		Use:          "hotel-cli",
		Short:        "Hotel CLI tool",
		Long:         `A command line interface for interacting with the hotel booking API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.baseURL, "url", "http://localhost:8080", "Base URL of the hotel API")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&c.idempotencyKey, "idempotency-key", "", "Idempotency key for mutating requests (random when empty)")

	rootCmd.AddCommand(
		customersCmd(c),
		walletCmd(c),
		bookingsCmd(c),
		roomsCmd(c),
		adminCmd(c),
	)

	return rootCmd
}

func customersCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer operations",
	}

	var name, email, phone string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, "POST", "/api/v1/customers/", map[string]any{
				"full_name": name,
				"email":     email,
				"phone":     phone,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Full name")
	createCmd.Flags().StringVar(&email, "email", "", "Email address")
	createCmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("phone")

	var newName, newEmail, newPhone string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update customer details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if newName != "" {
				body["full_name"] = newName
			}
			if newEmail != "" {
				body["email"] = newEmail
			}
			if newPhone != "" {
				body["phone"] = newPhone
			}
			return c.do(cmd, "PATCH", "/api/v1/customers/"+args[0], body)
		},
	}
	updateCmd.Flags().StringVar(&newName, "name", "", "New full name")
	updateCmd.Flags().StringVar(&newEmail, "email", "", "New email address")
	updateCmd.Flags().StringVar(&newPhone, "phone", "", "New phone number")

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, "GET", fmt.Sprintf("/api/v1/customers/?limit=%d&offset=%d", limit, offset), nil)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(
		createCmd,
		updateCmd,
		listCmd,
		getCmd(c, "get <id>", "Show a customer", "/api/v1/customers/%s"),
		postCmd(c, "suspend <id>", "Suspend a customer", "/api/v1/customers/%s/suspend"),
		postCmd(c, "reactivate <id>", "Reactivate a customer", "/api/v1/customers/%s/reactivate"),
	)
	return cmd
}

func walletCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	var amount, currency, rate, reason string
	creditCmd := &cobra.Command{
		Use:   "credit <customer-id>",
		Short: "Credit a customer's wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"amount":   amount,
				"currency": currency,
				"reason":   reason,
			}
			if rate != "" {
				body["exchange_rate"] = rate
			}
			return c.do(cmd, "POST", "/api/v1/customers/"+args[0]+"/wallet/credit", body)
		},
	}
	creditCmd.Flags().StringVar(&amount, "amount", "", "Amount to credit")
	creditCmd.Flags().StringVar(&currency, "currency", "EUR", "Currency of the amount")
	creditCmd.Flags().StringVar(&rate, "rate", "", "Exchange rate to EUR for non-EUR amounts")
	creditCmd.Flags().StringVar(&reason, "reason", "top-up", "Reason recorded on the transaction")
	_ = creditCmd.MarkFlagRequired("amount")

	var limit, offset int
	historyCmd := &cobra.Command{
		Use:   "history <customer-id>",
		Short: "List wallet transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, "GET", fmt.Sprintf("/api/v1/customers/%s/wallet/transactions?limit=%d&offset=%d", args[0], limit, offset), nil)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	historyCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(
		getCmd(c, "get <customer-id>", "Show a customer's wallet", "/api/v1/customers/%s/wallet"),
		creditCmd,
		historyCmd,
	)
	return cmd
}

func bookingsCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Booking operations",
	}

	var (
		customerID, roomType, checkIn string
		quantity, nights              int
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending booking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, "POST", "/api/v1/bookings/", map[string]any{
				"customer_id":   customerID,
				"room_type":     roomType,
				"room_quantity": quantity,
				"check_in":      checkIn,
				"nights":        nights,
			})
		},
	}
	createCmd.Flags().StringVar(&customerID, "customer", "", "Customer ID")
	createCmd.Flags().StringVar(&roomType, "room-type", "STANDARD", "Room type")
	createCmd.Flags().IntVar(&quantity, "quantity", 1, "Number of rooms")
	createCmd.Flags().StringVar(&checkIn, "check-in", "", "Check-in date (YYYY-MM-DD)")
	createCmd.Flags().IntVar(&nights, "nights", 1, "Number of nights")
	_ = createCmd.MarkFlagRequired("customer")
	_ = createCmd.MarkFlagRequired("check-in")

	var (
		listCustomer, status string
		limit, offset        int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/bookings/?limit=%d&offset=%d", limit, offset)
			if listCustomer != "" {
				path += "&customer_id=" + listCustomer
			}
			if status != "" {
				path += "&status=" + status
			}
			return c.do(cmd, "GET", path, nil)
		},
	}
	listCmd.Flags().StringVar(&listCustomer, "customer", "", "Only bookings of this customer")
	listCmd.Flags().StringVar(&status, "status", "", "Only bookings in this status")
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(
		createCmd,
		listCmd,
		getCmd(c, "get <id>", "Show a booking", "/api/v1/bookings/%s"),
		getCmd(c, "events <id>", "List events recorded for a booking", "/api/v1/bookings/%s/events"),
		postCmd(c, "pay-deposit <id>", "Pay the booking deposit from the wallet", "/api/v1/bookings/%s/pay-deposit"),
		postCmd(c, "pay-balance <id>", "Pay the remaining balance from the wallet", "/api/v1/bookings/%s/pay-balance"),
		postCmd(c, "cancel <id>", "Cancel a booking", "/api/v1/bookings/%s/cancel"),
	)
	return cmd
}

func roomsCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Room catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List room types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, "GET", "/api/v1/rooms/types", nil)
		},
	}

	cmd.AddCommand(listCmd, getCmd(c, "get <type>", "Show a room type", "/api/v1/rooms/types/%s"))
	return cmd
}

func adminCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show hotel statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, "GET", "/api/v1/admin/stats", nil)
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check wallet balances against their transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.reconcile(cmd)
		},
	}

	var action, resourceType, resourceID string
	var limit int
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/admin/audit-logs?limit=%d", limit)
			if action != "" {
				path += "&action=" + action
			}
			if resourceType != "" {
				path += "&resource_type=" + resourceType
			}
			if resourceID != "" {
				path += "&resource_id=" + resourceID
			}
			return c.do(cmd, "GET", path, nil)
		},
	}
	auditCmd.Flags().StringVar(&action, "action", "", "Filter by action")
	auditCmd.Flags().StringVar(&resourceType, "resource-type", "", "Filter by resource type")
	auditCmd.Flags().StringVar(&resourceID, "resource-id", "", "Filter by resource ID")
	auditCmd.Flags().IntVar(&limit, "limit", 50, "Page size")

	cmd.AddCommand(statsCmd, reconcileCmd, auditCmd)
	return cmd
}

func getCmd(c *client, use, short, pathFormat string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, "GET", fmt.Sprintf(pathFormat, args[0]), nil)
		},
	}
}

func postCmd(c *client, use, short, pathFormat string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, "POST", fmt.Sprintf(pathFormat, args[0]), nil)
		},
	}
}
