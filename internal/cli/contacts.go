package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safewatch/safewatch/internal/device"
	"github.com/safewatch/safewatch/internal/gateway"
)

// ContactsCmd returns the contacts command group.
func ContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage emergency contacts of the selected account",
	}
	cmd.AddCommand(contactsListCmd())
	cmd.AddCommand(contactsAddCmd())
	cmd.AddCommand(contactsUpdateCmd())
	cmd.AddCommand(contactsDeleteCmd())
	cmd.AddCommand(contactsCallCmd())
	return cmd
}

type contactFlags struct {
	name, phone, email, relation string
}

func (f *contactFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Contact name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.relation, "relation", "", "Relationship, e.g. Mother")
}

// merge overlays the flags that were set onto an existing contact.
func (f *contactFlags) merge(cmd *cobra.Command, c gateway.Contact) gateway.ContactInput {
	in := gateway.ContactInput{
		Name:     c.Name,
		Phone:    c.Phone,
		Email:    c.EmailOrEmpty(),
		Relation: c.RelationOrEmpty(),
	}
	if cmd.Flags().Changed("name") {
		in.Name = f.name
	}
	if cmd.Flags().Changed("phone") {
		in.Phone = f.phone
	}
	if cmd.Flags().Changed("email") {
		in.Email = f.email
	}
	if cmd.Flags().Changed("relation") {
		in.Relation = f.relation
	}
	return in
}

func contactError(op string, err error) error {
	if gateway.IsValidation(err) {
		return errors.New("name and phone number are required")
	}
	return fmt.Errorf("failed to %s contact: %s", op, gateway.UserMessage(err))
}

// findContact looks a contact up in the selected account's list.
func findContact(ctx context.Context, e *env, id string) (gateway.Contact, error) {
	accountID, err := e.account(ctx)
	if err != nil {
		return gateway.Contact{}, err
	}
	contacts, err := e.gw.Contacts(ctx, accountID, gateway.Refresh())
	if err != nil {
		return gateway.Contact{}, fmt.Errorf("failed to load contacts: %s", gateway.UserMessage(err))
	}
	for _, c := range contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return gateway.Contact{}, fmt.Errorf("contact %s not found", id)
}

func contactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List emergency contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.account(ctx)
			if err != nil {
				return err
			}
			contacts, err := e.gw.Contacts(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load contacts: %s", gateway.UserMessage(err))
			}

			w := cmd.OutOrStdout()
			if len(contacts) == 0 {
				fmt.Fprintln(w, "No emergency contacts yet. Add one with: safewatch contacts add")
				return nil
			}
			for _, c := range contacts {
				printContact(w, c)
			}
			return nil
		},
	}
}

func contactsAddCmd() *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an emergency contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.account(ctx)
			if err != nil {
				return err
			}
			c, err := e.gw.CreateContact(ctx, id, gateway.ContactInput{
				Name:     f.name,
				Phone:    f.phone,
				Email:    f.email,
				Relation: f.relation,
			})
			if err != nil {
				return contactError("add", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", okColor.Sprint("Added"), c.Name, c.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func contactsUpdateCmd() *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "update <contact-id>",
		Short: "Change an emergency contact; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			current, err := findContact(ctx, e, args[0])
			if err != nil {
				return err
			}
			c, err := e.gw.UpdateContact(ctx, current.ID, f.merge(cmd, current))
			if err != nil {
				return contactError("update", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okColor.Sprint("Updated"), c.Name)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func contactsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <contact-id>",
		Short: "Delete an emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("deleting a contact needs confirmation; pass --yes")
			}
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.gw.DeleteContact(ctx, args[0]); err != nil {
				return contactError("delete", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint("Deleted"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

func contactsCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <contact-id>",
		Short: "Call an emergency contact with the system phone handler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := findContact(ctx, e, args[0])
			if err != nil {
				return err
			}
			uri, err := device.NewDialer().Call(ctx, c.Phone)
			if err != nil {
				return fmt.Errorf("unable to call %s: %w", c.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Calling %s (%s)\n", c.Name, uri)
			return nil
		},
	}
}
