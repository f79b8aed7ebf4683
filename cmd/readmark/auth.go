package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"readmark/pkg/session"
)

func loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if password == "" {
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
			}
			token, err := a.api.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s token stored)\n", args[0], token.TokenType)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func registerCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <email> <username>",
		Short: "Create an account, then log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if password == "" {
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
				confirm, err := promptPassword("Confirm password: ")
				if err != nil {
					return err
				}
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
			}
			user, err := a.api.Register(cmd.Context(), args[0], args[1], password)
			if err != nil {
				return err
			}
			if _, err := a.api.Login(cmd.Context(), user.Username, password); err != nil {
				return fmt.Errorf("registered, but login failed: %w", err)
			}
			fmt.Printf("Registered and logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.api.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the stored token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.api.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> (id %d)\n", user.Username, user.Email, user.ID)
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Inspect the stored token without contacting the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			token, ok := a.sessions.Get()
			if !ok {
				fmt.Println("No token stored. Run: readmark login <username>")
				return nil
			}
			claims, err := session.InspectToken(token)
			if err != nil {
				fmt.Println("Token stored (opaque, not a JWT)")
				return nil
			}
			if claims.Subject != "" {
				fmt.Printf("Subject:  %s\n", claims.Subject)
			}
			if !claims.IssuedAt.IsZero() {
				fmt.Printf("Issued:   %s\n", claims.IssuedAt.Local().Format(time.RFC1123))
			}
			if !claims.ExpiresAt.IsZero() {
				fmt.Printf("Expires:  %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
				if claims.Expired(time.Now()) {
					fmt.Println("Token is expired; the next call will require a fresh login.")
				}
			}
			return nil
		},
	}
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimSpace(string(data))
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}
