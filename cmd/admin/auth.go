package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				fmt.Print("Email: ")
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				email = strings.TrimSpace(line)
			}

			fmt.Print("Password: ")
			passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			session, err := a.client.Login(cmd.Context(), email, string(passwordBytes))
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.gate.SignIn(session); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s <%s>\n", session.User.Name, session.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the session and forget the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token := a.gate.Token(); token != "" {
				if err := a.client.Logout(cmd.Context(), token); err != nil {
					fmt.Fprintf(os.Stderr, "[WARNING] server logout failed: %v\n", err)
				}
			}
			if err := a.gate.SignOut(); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> (%s)\n", session.User.Name, session.User.Email, session.User.Role)
			if !session.ExpiresAt.IsZero() {
				fmt.Printf("Session expires %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
