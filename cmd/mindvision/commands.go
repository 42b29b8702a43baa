package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bance-assetou/mindvision/internal/forms"
	"github.com/bance-assetou/mindvision/internal/guard"
	"github.com/bance-assetou/mindvision/internal/session"
	"github.com/bance-assetou/mindvision/pkg/client"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mindvision "+version)
		},
	}
}

func loginCmd(flags *globalFlags) *cobra.Command {
	var email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer d.close()
			d.manager.Init(cmd.Context())

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if email == "" {
				if email, err = p.line("Email: "); err != nil {
					return err
				}
			}
			password, err := p.secret("Password: ", passwordStdin)
			if err != nil {
				return err
			}

			form := forms.Login{Email: strings.TrimSpace(email), Password: password}
			if errs := forms.New().Check(form); len(errs) > 0 {
				return errors.New(errs.First("email", "password"))
			}

			u, err := d.manager.Login(cmd.Context(), form.Email, form.Password)
			if err != nil {
				return errors.New(session.UserMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s) %s\n", u.Name, u.Email, roleLabel(string(u.Role)))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func registerCmd(flags *globalFlags) *cobra.Command {
	var name, email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer d.close()
			d.manager.Init(cmd.Context())

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if name == "" {
				if name, err = p.line("Name: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = p.line("Email: "); err != nil {
					return err
				}
			}
			password, err := p.secret("Password: ", passwordStdin)
			if err != nil {
				return err
			}
			confirm := password
			if !passwordStdin {
				if confirm, err = p.secret("Confirm password: ", false); err != nil {
					return err
				}
			}

			form := forms.Registration{
				Name:     forms.FormatName(name),
				Email:    strings.TrimSpace(email),
				Password: password,
				Confirm:  confirm,
			}
			if errs := forms.New().Check(form); len(errs) > 0 {
				return errors.New(errs.First("name", "email", "password", "confirm"))
			}

			u, err := d.manager.Register(cmd.Context(), form.Name, form.Email, form.Password)
			if err != nil {
				return errors.New(session.UserMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. You are signed in.\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear your session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer d.close()
			d.manager.Init(cmd.Context())
			if d.manager.State() != guard.Authenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "Already logged out.")
				return nil
			}
			d.manager.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func whoamiCmd(flags *globalFlags) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newDeps(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer d.close()
			d.manager.Init(cmd.Context())
			u := d.manager.Current()
			out := cmd.OutOrStdout()
			if u == nil {
				printGreeting(out)
				return nil
			}

			fmt.Fprintf(out, "%s <%s> %s\n", u.Name, u.Email, roleLabel(string(u.Role)))
			fmt.Fprintf(out, "  id       %s\n", u.ID)
			if exp, ok := session.TokenExpiry(u.Token); ok {
				state := "valid until"
				if exp.Before(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(out, "  session  %s %s\n", state, exp.Local().Format(time.RFC1123))
			}
			fmt.Fprintf(out, "  store    %s\n", d.store.Path())

			if verify {
				if _, err := d.client.Me(cmd.Context()); err != nil {
					if client.IsStatus(err, http.StatusUnauthorized) {
						return errors.New("the server no longer accepts this session; run `mindvision login`")
					}
					return errors.New(session.UserMessage(classifyVerify(err)))
				}
				fmt.Fprintln(out, "  server   session accepted")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "check the session against the server")
	return cmd
}

// classifyVerify turns a transport failure into the friendly network error.
func classifyVerify(err error) error {
	if client.IsNetwork(err) {
		return &session.NetworkError{Err: err}
	}
	return err
}

func roleLabel(role string) string {
	if role == "" {
		return ""
	}
	return roleStyle.Render("[" + role + "]")
}
