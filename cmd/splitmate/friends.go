package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"splitmate/internal/calculator"
	"splitmate/internal/client"
	"splitmate/internal/images"
	"splitmate/internal/models"
	"splitmate/internal/protocol"
)

// Default image hosting endpoint; overridable per invocation.
const (
	defaultUploadURL    = "https://api.cloudinary.com/v1_1/df9psppug/image/upload"
	defaultUploadPreset = "reel-maker"
)

func friendsCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "friends",
		Short: "Show the friend list and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := signedInClient(*serverURL)
			if err != nil {
				return err
			}

			friends, err := c.Friends(cmd.Context())
			if err != nil {
				return err
			}
			renderDashboard(os.Stdout, friends)
			return nil
		},
	}
}

func addCmd(serverURL *string) *cobra.Command {
	var name, imagePath, uploadURL, uploadPreset string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a friend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := signedInClient(*serverURL)
			if err != nil {
				return err
			}

			// An upload failure falls back to the default picture; it
			// never blocks adding the friend.
			var imageURL string
			if imagePath != "" {
				uploader := images.NewHTTPUploader(uploadURL, uploadPreset)
				imageURL, err = uploader.Upload(cmd.Context(), imagePath)
				if err != nil {
					slog.Warn("Image upload failed, using default picture", "error", err)
					imageURL = ""
				}
			}

			friend, err := c.AddFriend(cmd.Context(), protocol.AddFriendRequest{Name: name, Image: imageURL})
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%s).\n", friend.Name, friend.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Friend's display name")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to a picture to upload (optional)")
	cmd.Flags().StringVar(&uploadURL, "upload-url", defaultUploadURL, "Image hosting upload endpoint")
	cmd.Flags().StringVar(&uploadPreset, "upload-preset", defaultUploadPreset, "Image hosting upload preset")
	cmd.MarkFlagRequired("name")
	return cmd
}

func removeCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <friend-id>",
		Short: "Remove a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := signedInClient(*serverURL)
			if err != nil {
				return err
			}

			if err := c.RemoveFriend(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, client.ErrNotFound) {
					fmt.Printf("No friend with id %s.\n", args[0])
					return nil
				}
				return err
			}
			fmt.Printf("Removed %s.\n", args[0])
			return nil
		},
	}
}

func splitCmd(serverURL *string) *cobra.Command {
	var bill, yours int64
	var payer string

	cmd := &cobra.Command{
		Use:   "split <friend-id>",
		Short: "Split a bill with a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Input validation happens here, before the calculator runs.
			if bill < 0 {
				return fmt.Errorf("bill must not be negative")
			}
			if yours < 0 || yours > bill {
				return fmt.Errorf("your expense must be between 0 and the bill amount")
			}
			p := calculator.Payer(payer)
			if !p.Valid() {
				return fmt.Errorf("payer must be %q or %q", calculator.PayerYou, calculator.PayerFriend)
			}

			c, _, err := signedInClient(*serverURL)
			if err != nil {
				return err
			}

			delta := calculator.ComputeSplit(bill, yours, p)
			if err := c.ApplySplit(cmd.Context(), args[0], delta); err != nil {
				return err
			}

			friendShare := calculator.FriendExpense(bill, yours)
			if p == calculator.PayerYou {
				fmt.Printf("You paid %d; your friend's share was %d.\n", bill, friendShare)
			} else {
				fmt.Printf("Your friend paid %d; your share was %d.\n", bill, yours)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&bill, "bill", 0, "Total bill amount")
	cmd.Flags().Int64Var(&yours, "yours", 0, "Your share of the bill")
	cmd.Flags().StringVar(&payer, "payer", string(calculator.PayerYou), "Who paid: you or friend")
	cmd.MarkFlagRequired("bill")
	return cmd
}

func watchCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep a live dashboard of balances on screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := signedInClient(*serverURL)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			sub, err := c.Subscribe(ctx)
			if err != nil {
				return err
			}
			defer sub.Close()

			fmt.Printf("Watching %s's friends (Ctrl-C to stop)\n", sess.Name)
			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-sub.Errs():
					slog.Warn("Subscription error", "error", err)
				case friends, ok := <-sub.Snapshots():
					if !ok {
						return fmt.Errorf("subscription ended; run watch again to reconnect")
					}
					fmt.Println()
					renderDashboard(os.Stdout, friends)
				}
			}
		},
	}
}

// renderDashboard prints the total balance and one line per friend,
// mirroring the dashboard view: green/red wording by sign, "Settled up"
// at zero, a neutral total for an empty list.
func renderDashboard(w io.Writer, friends []models.Friend) {
	total := calculator.TotalBalance(friends)
	if total < 0 {
		fmt.Fprintf(w, "Total: you owe %d PKR\n", -total)
	} else {
		fmt.Fprintf(w, "Total: you're owed %d PKR\n", total)
	}

	for _, f := range friends {
		switch {
		case f.Balance < 0:
			fmt.Fprintf(w, "  %-20s you owe %s %d PKR\n", f.ID, f.Name, -f.Balance)
		case f.Balance > 0:
			fmt.Fprintf(w, "  %-20s %s owes you %d PKR\n", f.ID, f.Name, f.Balance)
		default:
			fmt.Fprintf(w, "  %-20s settled up with %s\n", f.ID, f.Name)
		}
	}
}
