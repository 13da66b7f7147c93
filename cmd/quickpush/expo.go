package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/betomoedano/quick-push/internal/curl"
	"github.com/betomoedano/quick-push/internal/payload"
	"github.com/betomoedano/quick-push/internal/provider/expo"
	"github.com/betomoedano/quick-push/internal/store"
)

func newExpoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expo",
		Short: "Send through the Expo Push API",
	}
	cmd.AddCommand(newExpoSendCommand(a), newExpoReceiptsCommand(a))
	return cmd
}

func newExpoSendCommand(a *app) *cobra.Command {
	var flags notificationFlags
	var printCurl bool

	cmd := &cobra.Command{
		Use:   "send [expo-push-token...]",
		Short: "Send a push to one or more ExponentPushTokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients, err := a.recipients(args, store.NamespaceExpo)
			if err != nil {
				return err
			}
			req := flags.request()
			if err := req.Validate(); err != nil {
				return err
			}
			p := payload.BuildExpo(req, recipients)

			if printCurl {
				fmt.Println(curl.Expo(p, a.cfg.Expo.AccessToken))
				return nil
			}

			client := expo.NewClient(expo.Config{AccessToken: a.cfg.Expo.AccessToken}, a.logger)
			resp, statusCode, err := client.Send(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printAggregate(expo.Aggregate(resp, recipients, statusCode))
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&printCurl, "curl", false, "print the equivalent curl command instead of sending")
	return cmd
}

func newExpoReceiptsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "receipts <ticket-id...>",
		Short: "Fetch delivery receipts for earlier ticket IDs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := expo.NewClient(expo.Config{AccessToken: a.cfg.Expo.AccessToken}, a.logger)
			resp, err := client.GetReceipts(cmd.Context(), args)
			if err != nil {
				return err
			}
			for id, receipt := range resp.Data {
				line := fmt.Sprintf("%s: %s", id, receipt.Status)
				if receipt.Details != nil && receipt.Details.Error != "" {
					line += " (" + receipt.Details.Error + ")"
				}
				if receipt.Message != "" {
					line += ": " + receipt.Message
				}
				fmt.Println(line)
			}
			for _, apiErr := range resp.Errors {
				fmt.Printf("error %s: %s\n", apiErr.Code, apiErr.Message)
			}
			return nil
		},
	}
}
