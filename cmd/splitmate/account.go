package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"splitmate/internal/client"
	"splitmate/internal/session"
)

func signupCmd(serverURL *string) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*serverURL)
			resp, err := c.Register(cmd.Context(), email, name, password)
			if err != nil {
				return err
			}

			if err := saveSession(resp.User.Email, resp.User.Name, resp.Token); err != nil {
				return err
			}
			fmt.Printf("Account created. Signed in as %s <%s>.\n", resp.User.Name, resp.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (at least 8 characters)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func loginCmd(serverURL *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*serverURL)
			resp, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			if err := saveSession(resp.User.Email, resp.User.Name, resp.Token); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s <%s>.\n", resp.User.Name, resp.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.DefaultStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

// saveSession persists credentials after a successful sign-in.
func saveSession(email, name, token string) error {
	store, err := session.DefaultStore()
	if err != nil {
		return err
	}
	return store.Save(&session.Session{Email: email, Name: name, Token: token})
}

// signedInClient builds a client carrying the stored session token.
func signedInClient(serverURL string) (*client.Client, *session.Session, error) {
	store, err := session.DefaultStore()
	if err != nil {
		return nil, nil, err
	}
	sess, err := store.Load()
	if err != nil {
		return nil, nil, err
	}

	c := client.New(serverURL)
	c.SetToken(sess.Token)
	return c, sess, nil
}
