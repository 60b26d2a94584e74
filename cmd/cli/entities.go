package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/berrnk/bdz1/pkg/models"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseAmount(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", flag, err)
	}
	return d, nil
}

// ---------------- accounts ----------------

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "account", Short: "Manage accounts"}

	var name, balance, newName, newBalance string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := parseAmount("balance", balance)
			if err != nil {
				return err
			}
			acc, err := ws.ledger.CreateAccount(name, b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), acc)
			return ws.save()
		},
	}
	create.Flags().StringVar(&name, "name", "", "Account name")
	create.Flags().StringVar(&balance, "balance", "0", "Initial balance")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename an account and overwrite its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			acc, err := ws.ledger.Account(id)
			if err != nil {
				return err
			}
			n, b := acc.Name, acc.Balance
			if cmd.Flags().Changed("name") {
				n = newName
			}
			if cmd.Flags().Changed("balance") {
				if b, err = parseAmount("balance", newBalance); err != nil {
					return err
				}
			}
			if err := ws.ledger.EditAccount(id, n, b); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), acc)
			return ws.save()
		},
	}
	edit.Flags().StringVar(&newName, "name", "", "New name")
	edit.Flags().StringVar(&newBalance, "balance", "", "New balance")

	cmd.AddCommand(create, edit, deleteCmd(models.AccountEntity, func(id int64) { ws.ledger.DeleteAccount(id) }), &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, a := range ws.ledger.Accounts() {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
		},
	})
	return cmd
}

// ---------------- categories ----------------

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "category", Short: "Manage categories"}

	var name, kind, newName string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := models.ParseKind(kind)
			if err != nil {
				return err
			}
			c, err := ws.ledger.CreateCategory(k, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return ws.save()
		},
	}
	create.Flags().StringVar(&name, "name", "", "Category name")
	create.Flags().StringVar(&kind, "type", "expense", "income or expense")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := ws.ledger.EditCategory(id, newName); err != nil {
				return err
			}
			c, _ := ws.ledger.Category(id)
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return ws.save()
		},
	}
	edit.Flags().StringVar(&newName, "name", "", "New name")
	_ = edit.MarkFlagRequired("name")

	cmd.AddCommand(create, edit, deleteCmd(models.CategoryEntity, func(id int64) { ws.ledger.DeleteCategory(id) }), &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, c := range ws.ledger.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
		},
	})
	return cmd
}

// ---------------- operations ----------------

func operationCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "operation", Short: "Manage income and expense operations"}

	var (
		kind, amount, date, description string
		accountID, categoryID           int64

		newAmount, newDate, newDescription string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Book an operation and update the account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := models.ParseKind(kind)
			if err != nil {
				return err
			}
			a, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			d, err := models.ParseDate(date)
			if err != nil {
				return err
			}
			op, err := ws.ledger.CreateOperation(k, accountID, a, d, description, categoryID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), op)
			return ws.save()
		},
	}
	create.Flags().StringVar(&kind, "type", "expense", "income or expense")
	create.Flags().Int64Var(&accountID, "account", 0, "Account id")
	create.Flags().Int64Var(&categoryID, "category", 0, "Category id")
	create.Flags().StringVar(&amount, "amount", "", "Amount, not negative")
	create.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	create.Flags().StringVar(&description, "description", "", "Free text")
	_ = create.MarkFlagRequired("amount")
	_ = create.MarkFlagRequired("date")

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change amount, date or description (the balance is not recomputed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			op, err := ws.ledger.Operation(id)
			if err != nil {
				return err
			}
			a, d, desc := op.Amount(), op.Date(), op.Description()
			if cmd.Flags().Changed("amount") {
				if a, err = parseAmount("amount", newAmount); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("date") {
				if d, err = models.ParseDate(newDate); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("description") {
				desc = newDescription
			}
			if err := ws.ledger.EditOperation(id, a, d, desc); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), op)
			return ws.save()
		},
	}
	edit.Flags().StringVar(&newAmount, "amount", "", "New amount")
	edit.Flags().StringVar(&newDate, "date", "", "New date (YYYY-MM-DD)")
	edit.Flags().StringVar(&newDescription, "description", "", "New description")

	var f filters
	list := &cobra.Command{
		Use:   "list",
		Short: "List operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keep, err := f.toFilterFunc()
			if err != nil {
				return err
			}
			for _, o := range ws.ledger.Operations() {
				if keep(o) {
					fmt.Fprintln(cmd.OutOrStdout(), o)
				}
			}
			return nil
		},
	}
	list.Flags().StringVar(&f.startDate, "start", "", "Start date (YYYY-MM-DD)")
	list.Flags().StringVar(&f.endDate, "end", "", "End date (YYYY-MM-DD)")
	list.Flags().StringVar(&f.minAmount, "min", "", "Minimum amount")
	list.Flags().StringVar(&f.maxAmount, "max", "", "Maximum amount")
	list.Flags().StringVar(&f.kind, "type", "", "Only income or expense")
	list.Flags().StringVar(&f.description, "description", "", "Filter by description (case insensitive)")

	cmd.AddCommand(create, edit, deleteCmd(models.OperationEntity, func(id int64) { ws.ledger.DeleteOperation(id) }), list)
	return cmd
}

func deleteCmd(kind models.EntityKind, remove func(int64)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s (no error when it does not exist)", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			remove(id)
			return ws.save()
		},
	}
}
