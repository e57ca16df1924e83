package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/fedfinger/internal/discovery"
)

func newResolveCmd() *cobra.Command {
	var accept string

	cmd := &cobra.Command{
		Use:   "resolve <acct:user@host | username>",
		Short: "Resolve an account locally and print the discovery response",
		Example: `  fedfinger resolve acct:alice@example.org
  fedfinger resolve alice --accept application/activity+json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadRuntime(true)
			if err != nil {
				return err
			}
			resolver, closeStore, err := buildResolver(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := discovery.NewService(env.logger, resolver)

			var resp discovery.Response
			target := args[0]
			if strings.Contains(target, ":") {
				resp = svc.WebFinger(cmd.Context(), &target, nil)
			} else {
				var acceptPtr *string
				if cmd.Flags().Changed("accept") {
					acceptPtr = &accept
				}
				resp = svc.User(cmd.Context(), discovery.PathUser, target, acceptPtr)
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&accept, "accept", "", "Accept header to negotiate with for username lookups")
	return cmd
}

func printResponse(w io.Writer, resp discovery.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	switch resp := resp.(type) {
	case discovery.WebFingerResponse:
		return enc.Encode(resp.Document)
	case discovery.ActorResponse:
		return enc.Encode(resp.Actor)
	case discovery.RedirectResponse:
		_, err := fmt.Fprintf(w, "redirect: %s\n", resp.Location)
		return err
	case discovery.ErrorResponse:
		return fmt.Errorf("%d %s: %s", resp.Status, resp.Code, resp.Message)
	default:
		return fmt.Errorf("unexpected response %T", resp)
	}
}
