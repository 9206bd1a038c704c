package main

import (
	"strconv"

	"contactbook/contact"
	"contactbook/errs"
	"contactbook/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all contacts ordered by last name, then first name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(svc contact.Service) error {
				contacts, err := svc.ListContacts(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(contacts)
			})
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(svc contact.Service) error {
				c, err := svc.GetContact(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.print(c)
			})
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd.Context(), func(svc contact.Service) error {
				created, err := svc.AddContact(cmd.Context(), f.contact(cmd, 0))
				if err != nil {
					return err
				}
				return a.print(created)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace every field of a contact",
		Long:  "Replace every field of a contact. Omitted --email or --phone clear the stored value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(svc contact.Service) error {
				if err := svc.UpdateContact(cmd.Context(), id, f.contact(cmd, id)); err != nil {
					return err
				}
				return a.print(map[string]interface{}{"updated": id})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd.Context(), func(svc contact.Service) error {
				if err := svc.DeleteContact(cmd.Context(), id); err != nil {
					return err
				}
				return a.print(map[string]interface{}{"deleted": id})
			})
		},
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			total, err := storage.Migrate(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("applied migrations", zap.Int("total", total))
			return a.print(map[string]interface{}{"applied": total})
		},
	}
}

type contactFlags struct {
	first, last, email, phone string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.first, "first", "", "first name")
	cmd.Flags().StringVar(&f.last, "last", "", "last name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address, unique across contacts")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
}

// contact builds the candidate. Email and phone stay nil unless their flag
// was given, so an explicit empty value is stored as an empty string.
func (f *contactFlags) contact(cmd *cobra.Command, id int64) contact.Contact {
	c := contact.Contact{ID: id, FirstName: f.first, LastName: f.last}
	if cmd.Flags().Changed("email") {
		email := f.email
		c.Email = &email
	}
	if cmd.Flags().Changed("phone") {
		phone := f.phone
		c.Phone = &phone
	}
	return c
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "Contact ID must be an integer.")
	}
	return id, nil
}
